package handlers

import (
	"net/http"
	"slices"

	"github.com/Dosada05/poker-dream-api/live"
	"github.com/Dosada05/poker-dream-api/services"
	"github.com/gorilla/websocket"
)

// RoomAttacher hands an upgraded connection over to the live hub.
type RoomAttacher interface {
	Attach(conn *websocket.Conn, room string, load func() (*live.Message, error)) error
}

type WebSocketHandler struct {
	*Responder
	hub             RoomAttacher
	standingService services.StandingService
	upgrader        websocket.Upgrader
}

// NewWebSocketHandler принимает соединения только с доверенных origin.
// Запрос без заголовка Origin (не браузер) пропускается.
func NewWebSocketHandler(resp *Responder, hub RoomAttacher, ss services.StandingService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		Responder:       resp,
		hub:             hub,
		standingService: ss,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeStandings обрабатывает /ws/tournaments/{id}/standings.
// Первым сообщением клиент получает текущий live-срез турнира. Срез читается
// уже после входа в комнату, чтобы не потерять обновление между чтением и
// регистрацией.
func (h *WebSocketHandler) ServeStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID := urlParam(r, "id")

	// 404 нужно отдать до Upgrade.
	if _, err := h.standingService.Live(r.Context(), tournamentID); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам ответил клиенту ошибкой.
		h.Logger.Warn("websocket upgrade failed", h.requestAttrs(r, "tournament_id", tournamentID, "error", err)...)
		return
	}

	room := live.TournamentRoom(tournamentID)
	err = h.hub.Attach(conn, room, func() (*live.Message, error) {
		view, err := h.standingService.Live(r.Context(), tournamentID)
		if err != nil {
			return nil, err
		}
		return &live.Message{Type: live.MessageStandingsSnapshot, RoomID: room, Payload: view}, nil
	})
	if err != nil {
		h.Logger.Warn("websocket attach failed", h.requestAttrs(r, "tournament_id", tournamentID, "error", err)...)
		return
	}
	h.Logger.Debug("websocket client attached", "room", room)
}
