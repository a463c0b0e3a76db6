package handlers

import (
	"context"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	*Responder
	db Pinger
}

func NewHealthHandler(resp *Responder, db Pinger) *HealthHandler {
	return &HealthHandler{Responder: resp, db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.Logger.Error("health check: database unreachable", h.requestAttrs(r, "error", err)...)
		h.respond(w, r, http.StatusServiceUnavailable, jsonResponse{"status": "unavailable", "timestamp": time.Now().UTC()})
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"status": "ok", "timestamp": time.Now().UTC()})
}
