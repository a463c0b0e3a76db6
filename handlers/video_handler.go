package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/services"
)

// VideoHandler отдает видео без обертки {data}, delete отвечает 204.
type VideoHandler struct {
	*Responder
	videoService services.VideoService
}

func NewVideoHandler(resp *Responder, vs services.VideoService) *VideoHandler {
	return &VideoHandler{Responder: resp, videoService: vs}
}

func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.VideoInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	video, err := h.videoService.Create(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, video)
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	result, err := h.videoService.FindAll(r.Context(), services.VideoQuery{
		TournamentID: queryString(r, "tournamentId"),
		Search:       r.URL.Query().Get("search"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

func (h *VideoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	video, err := h.videoService.FindByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, video)
}

func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.VideoInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	video, err := h.videoService.Update(r.Context(), urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, video)
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.videoService.Delete(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VideoHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	if _, err := h.videoService.IncrementViews(r.Context(), id); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	video, err := h.videoService.FindByID(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, video)
}
