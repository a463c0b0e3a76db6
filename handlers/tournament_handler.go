package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/services"
)

type TournamentHandler struct {
	*Responder
	tournamentService services.TournamentService
}

func NewTournamentHandler(resp *Responder, ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{Responder: resp, tournamentService: ts}
}

type structureRequest struct {
	Levels []services.LevelInput `json:"levels"`
}

// Create godoc
// @Summary Создать турнир
// @Tags tournaments
// @Accept json
// @Produce json
// @Param input body services.TournamentInput true "Tournament"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Tournament created successfully", "data": tournament})
}

// List godoc
// @Summary Список турниров
// @Tags tournaments
// @Produce json
// @Param status query string false "UPCOMING, LIVE, COMPLETED, CANCELLED"
// @Param search query string false "Поиск по названию, описанию, месту"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments [get]
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	query := services.TournamentQuery{Page: page, Limit: limit, Search: r.URL.Query().Get("search")}
	if status := queryString(r, "status"); status != nil {
		s := models.TournamentStatus(*status)
		query.Status = &s
	}

	result, err := h.tournamentService.FindAll(r.Context(), query)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result)
}

// GetByID godoc
// @Summary Турнир с результатами, структурой и видео
// @Tags tournaments
// @Produce json
// @Param id path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{id} [get]
func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.FindByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": tournament})
}

func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.TournamentInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.Update(r.Context(), urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Tournament updated successfully", "data": tournament})
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.Delete(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Tournament deleted successfully"})
}

func (h *TournamentHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	tournaments, err := h.tournamentService.Upcoming(r.Context(), limit)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": tournaments})
}

func (h *TournamentHandler) Live(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.Live(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": tournaments})
}

func (h *TournamentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tournamentService.Stats(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": stats})
}

// ReplaceStructure godoc
// @Summary Заменить структуру блайндов
// @Tags tournaments
// @Accept json
// @Produce json
// @Param id path string true "Tournament ID"
// @Param input body structureRequest true "Levels"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{id}/structure [put]
func (h *TournamentHandler) ReplaceStructure(w http.ResponseWriter, r *http.Request) {
	var input structureRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	levels, err := h.tournamentService.ReplaceStructure(r.Context(), urlParam(r, "id"), input.Levels)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Tournament structure updated successfully", "data": levels})
}
