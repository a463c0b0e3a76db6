package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/services"
)

type SponsorHandler struct {
	*Responder
	sponsorService services.SponsorService
}

func NewSponsorHandler(resp *Responder, ss services.SponsorService) *SponsorHandler {
	return &SponsorHandler{Responder: resp, sponsorService: ss}
}

type reorderSponsorsRequest struct {
	SponsorIDs []string `json:"sponsorIds"`
}

func (h *SponsorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.SponsorInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	sponsor, err := h.sponsorService.Create(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Sponsor created successfully", "data": sponsor})
}

func (h *SponsorHandler) List(w http.ResponseWriter, r *http.Request) {
	isActive, err := queryBool(r, "isActive")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	sponsors, err := h.sponsorService.FindAll(r.Context(), isActive)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": sponsors})
}

func (h *SponsorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	sponsor, err := h.sponsorService.FindByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": sponsor})
}

func (h *SponsorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.SponsorInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	sponsor, err := h.sponsorService.Update(r.Context(), urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Sponsor updated successfully", "data": sponsor})
}

func (h *SponsorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sponsorService.Delete(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Sponsor deleted successfully"})
}

func (h *SponsorHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var input reorderSponsorsRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	sponsors, err := h.sponsorService.Reorder(r.Context(), input.SponsorIDs)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Sponsors reordered successfully", "data": sponsors})
}
