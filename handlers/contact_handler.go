package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/services"
)

type ContactHandler struct {
	*Responder
	contactService services.ContactService
}

func NewContactHandler(resp *Responder, cs services.ContactService) *ContactHandler {
	return &ContactHandler{Responder: resp, contactService: cs}
}

type contactStatusRequest struct {
	Status models.ContactStatus `json:"status"`
}

// Create godoc
// @Summary      Submit the contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        input body services.ContactInput true "Message"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /contact [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ContactInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	submission, err := h.contactService.Create(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{
		"message": "Your message has been received. We will get back to you soon.",
		"data":    submission,
	})
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	query := services.ContactQuery{Search: r.URL.Query().Get("search"), Page: page, Limit: limit}
	if s := queryString(r, "status"); s != nil {
		status := models.ContactStatus(*s)
		query.Status = &status
	}
	if t := queryString(r, "type"); t != nil {
		ct := models.ContactType(*t)
		query.Type = &ct
	}

	result, err := h.contactService.FindAll(r.Context(), query)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	submission, err := h.contactService.FindByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": submission})
}

func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input contactStatusRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	submission, err := h.contactService.UpdateStatus(r.Context(), urlParam(r, "id"), input.Status)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Contact status updated successfully", "data": submission})
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.contactService.Delete(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Contact submission deleted successfully"})
}

func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contactService.Stats(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": stats})
}
