package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/services"
)

type PlayerHandler struct {
	*Responder
	playerService services.PlayerService
}

func NewPlayerHandler(resp *Responder, ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{Responder: resp, playerService: ps}
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	player, err := h.playerService.Create(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Player created successfully", "data": player})
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	q := r.URL.Query()
	result, err := h.playerService.FindAll(r.Context(), services.PlayerQuery{
		Search:  q.Get("search"),
		Country: q.Get("country"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

func (h *PlayerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	player, err := h.playerService.FindByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": player})
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	player, err := h.playerService.Update(r.Context(), urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Player updated successfully", "data": player})
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.playerService.Delete(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Player deleted successfully"})
}

// Stats godoc
// @Summary Статистика игрока
// @Tags players
// @Produce json
// @Param id path string true "Player ID"
// @Param year query int false "Календарный год турниров"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /players/{id}/stats [get]
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	year, err := queryIntPtr(r, "year")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	report, err := h.playerService.Stats(r.Context(), urlParam(r, "id"), year)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": report})
}

func (h *PlayerHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.playerService.Countries(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": countries})
}

// Leaderboard godoc
// @Summary Рейтинг DPOY
// @Tags players
// @Produce json
// @Param year query int false "Сезон"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы (по умолчанию 50)"
// @Success 200 {object} map[string]interface{}
// @Router /players/leaderboard [get]
func (h *PlayerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	year, err := queryIntPtr(r, "year")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	board, err := h.playerService.Leaderboard(r.Context(), services.LeaderboardQuery{Page: page, Limit: limit, Year: year})
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, board)
}
