package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/services"
)

type GalleryHandler struct {
	*Responder
	galleryService services.GalleryService
}

func NewGalleryHandler(resp *Responder, gs services.GalleryService) *GalleryHandler {
	return &GalleryHandler{Responder: resp, galleryService: gs}
}

type reorderPhotosRequest struct {
	PhotoIDs []string `json:"photoIds"`
}

func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.GalleryInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	gallery, err := h.galleryService.Create(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Gallery created successfully", "data": gallery})
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	query := services.GalleryQuery{Page: page, Limit: limit}
	if t := queryString(r, "type"); t != nil {
		gt := models.GalleryType(*t)
		query.Type = &gt
	}
	result, err := h.galleryService.FindAll(r.Context(), query)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

func (h *GalleryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	gallery, err := h.galleryService.FindByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": gallery})
}

func (h *GalleryHandler) ByType(w http.ResponseWriter, r *http.Request) {
	galleries, err := h.galleryService.ByType(r.Context(), models.GalleryType(urlParam(r, "type")))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": galleries})
}

func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.GalleryInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	gallery, err := h.galleryService.Update(r.Context(), urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Gallery updated successfully", "data": gallery})
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.galleryService.Delete(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Gallery deleted successfully"})
}

func (h *GalleryHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	var input services.PhotoInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	photo, err := h.galleryService.AddPhoto(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Photo added successfully", "data": photo})
}

func (h *GalleryHandler) BulkAddPhotos(w http.ResponseWriter, r *http.Request) {
	var input services.BulkPhotosInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	photos, err := h.galleryService.BulkAddPhotos(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Photos added successfully", "data": photos})
}

func (h *GalleryHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	var input services.PhotoInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	photo, err := h.galleryService.UpdatePhoto(r.Context(), urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Photo updated successfully", "data": photo})
}

func (h *GalleryHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.galleryService.DeletePhoto(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Photo deleted successfully"})
}

func (h *GalleryHandler) ReorderPhotos(w http.ResponseWriter, r *http.Request) {
	var input reorderPhotosRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	photos, err := h.galleryService.ReorderPhotos(r.Context(), urlParam(r, "id"), input.PhotoIDs)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Photos reordered successfully", "data": photos})
}
