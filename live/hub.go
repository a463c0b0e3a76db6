package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/gorilla/websocket"
)

const (
	MessageStandingsUpdated  = "STANDINGS_UPDATED"
	MessageStandingsSnapshot = "STANDINGS_SNAPSHOT"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256

	// Сколько раз Attach перечитывает снимок, если во время загрузки пришла рассылка.
	snapshotAttempts = 3
)

// ErrHubStopped is returned by Attach after Run has returned.
var ErrHubStopped = errors.New("live: hub stopped")

// Message is the envelope of everything pushed to websocket clients.
type Message struct {
	Type    string      `json:"type"`
	RoomID  string      `json:"roomId"`
	Payload interface{} `json:"payload"`
}

// TournamentRoom returns the room id clients of a tournament join.
func TournamentRoom(tournamentID string) string {
	return "tournament_" + tournamentID
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	room   string
	mu     sync.Mutex
	closed bool
	// ready: снимок уже в очереди. До этого рассылки не ставятся в send, а
	// помечаются в missed.
	ready  bool
	missed bool
}

// Hub keeps the clients of every room. Register and Unregister are served by
// Run; broadcasts only take the read lock.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run serves registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			size := len(h.rooms[client.room])
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", slog.String("room", client.room), slog.Int("clients", size))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.rooms[client.room][client]; ok {
				delete(h.rooms[client.room], client)
				client.closeSend()
				if len(h.rooms[client.room]) == 0 {
					delete(h.rooms, client.room)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client unregistered", slog.String("room", client.room))

		case <-ctx.Done():
			h.mu.Lock()
			for room, clients := range h.rooms {
				for client := range clients {
					client.closeSend()
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

// RoomSize reports how many clients are in the room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends message to every client of the room. Slow clients whose
// buffer is full miss the message.
func (h *Hub) BroadcastToRoom(roomID string, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", roomID), slog.Any("error", err))
		return
	}
	for client := range clients {
		if !client.trySend(data) {
			h.logger.Warn("websocket client buffer full, message dropped", slog.String("room", roomID))
		}
	}
}

// NotifyStandings pushes a fresh live view to the tournament's room.
func (h *Hub) NotifyStandings(tournamentID string, view *models.LiveStandings) {
	room := TournamentRoom(tournamentID)
	h.BroadcastToRoom(room, Message{Type: MessageStandingsUpdated, RoomID: room, Payload: view})
}

// Attach registers conn in room, queues the snapshot returned by load and
// starts the pumps. The client joins the room before load runs: a broadcast
// that arrives while the snapshot is being built makes Attach load it again,
// so the first message the client sees is never older than a broadcast it
// skipped. A nil load sends no snapshot.
func (h *Hub) Attach(conn *websocket.Conn, room string, load func() (*Message, error)) error {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), room: room}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return ErrHubStopped
	}

	if err := client.queueSnapshot(load); err != nil {
		client.detach()
		return err
	}

	go client.writePump()
	go client.readPump()
	return nil
}

func (c *Client) queueSnapshot(load func() (*Message, error)) error {
	if load == nil {
		c.mu.Lock()
		c.ready = true
		c.mu.Unlock()
		return nil
	}
	for attempt := 1; ; attempt++ {
		msg, err := load()
		if err != nil {
			return err
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		c.mu.Lock()
		if c.missed && attempt < snapshotAttempts {
			c.missed = false
			c.mu.Unlock()
			continue
		}
		if !c.closed {
			// Буфер пуст: до ready в send ничего не пишется.
			c.send <- data
		}
		c.ready = true
		c.mu.Unlock()
		return nil
	}
}

func (c *Client) detach() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
	c.conn.Close()
}

func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	if !c.ready {
		c.missed = true
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// readPump only drains control frames; clients never send data.
func (c *Client) readPump() {
	defer c.detach()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", slog.String("room", c.room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Debug("websocket write failed", slog.String("room", c.room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
