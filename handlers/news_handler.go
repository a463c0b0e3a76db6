package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/services"
)

type NewsHandler struct {
	*Responder
	newsService services.NewsService
}

func NewNewsHandler(resp *Responder, ns services.NewsService) *NewsHandler {
	return &NewsHandler{Responder: resp, newsService: ns}
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.NewsInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	article, err := h.newsService.Create(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "News article created successfully", "data": article})
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	published, err := queryBool(r, "isPublished")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	query := services.NewsQuery{IsPublished: published, Search: r.URL.Query().Get("search"), Page: page, Limit: limit}
	if category := queryString(r, "category"); category != nil {
		c := models.NewsCategory(*category)
		query.Category = &c
	}

	result, err := h.newsService.FindAll(r.Context(), query)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

func (h *NewsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	article, err := h.newsService.FindByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": article})
}

func (h *NewsHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	article, err := h.newsService.FindBySlug(r.Context(), urlParam(r, "slug"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": article})
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.NewsInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	article, err := h.newsService.Update(r.Context(), urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "News article updated successfully", "data": article})
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.newsService.Delete(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "News article deleted successfully"})
}
