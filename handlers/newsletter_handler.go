package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/services"
)

type NewsletterHandler struct {
	*Responder
	newsletterService services.NewsletterService
}

func NewNewsletterHandler(resp *Responder, ns services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{Responder: resp, newsletterService: ns}
}

type unsubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe godoc
// @Summary      Subscribe to the newsletter
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        input body services.SubscribeInput true "Subscriber"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var input services.SubscribeInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	sub, err := h.newsletterService.Subscribe(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Successfully subscribed to newsletter", "data": sub})
}

func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var input unsubscribeRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := h.newsletterService.Unsubscribe(r.Context(), input.Email); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Successfully unsubscribed from newsletter"})
}

func (h *NewsletterHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	isActive, err := queryBool(r, "isActive")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	report, err := h.newsletterService.Subscribers(r.Context(), isActive)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, report)
}

func (h *NewsletterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.newsletterService.Stats(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": stats})
}
