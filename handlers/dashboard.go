package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/services"
)

type DashboardHandler struct {
	*Responder
	dashboardService services.DashboardService
}

func NewDashboardHandler(resp *Responder, s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Responder: resp, dashboardService: s}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": stats})
}
