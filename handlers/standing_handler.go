package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/services"
)

type StandingHandler struct {
	*Responder
	standingService services.StandingService
}

func NewStandingHandler(resp *Responder, ss services.StandingService) *StandingHandler {
	return &StandingHandler{Responder: resp, standingService: ss}
}

func (h *StandingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.StandingInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	standing, err := h.standingService.Create(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Standing created successfully", "data": standing})
}

// BulkReplace godoc
// @Summary Заменить все результаты турнира
// @Description Удаляет текущие результаты турнира и записывает новые в одной транзакции.
// @Tags standings
// @Accept json
// @Produce json
// @Param input body services.BulkStandingsInput true "Standings"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Ошибка валидации или неизвестный игрок"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Security BearerAuth
// @Router /standings/bulk [post]
func (h *StandingHandler) BulkReplace(w http.ResponseWriter, r *http.Request) {
	var input services.BulkStandingsInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	standings, err := h.standingService.BulkReplace(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "Standings created successfully", "data": standings})
}

func (h *StandingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	standing, err := h.standingService.FindByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": standing})
}

func (h *StandingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.StandingUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	standing, err := h.standingService.Update(r.Context(), urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Standing updated successfully", "data": standing})
}

func (h *StandingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.standingService.Delete(r.Context(), urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Standing deleted successfully"})
}

func (h *StandingHandler) ByTournament(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	standings, err := h.standingService.ByTournament(r.Context(), urlParam(r, "tournamentID"), limit)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": standings})
}

func (h *StandingHandler) Live(w http.ResponseWriter, r *http.Request) {
	view, err := h.standingService.Live(r.Context(), urlParam(r, "tournamentID"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": view})
}

func (h *StandingHandler) ByPlayer(w http.ResponseWriter, r *http.Request) {
	standings, err := h.standingService.ByPlayer(r.Context(), urlParam(r, "playerID"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": standings})
}
