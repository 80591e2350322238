package rosterws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/services"
	"go.uber.org/zap"
)

// Hub fans roster events out to every connected dashboard. All client
// bookkeeping happens on the Run goroutine. Run must be started once.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan services.RosterEvent
	done       chan struct{}
	dropped    atomic.Bool
	seq        uint64
	logger     *zap.Logger
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan services.RosterEvent, 64),
		done:       make(chan struct{}),
		logger:     logging.OrNop(logger),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case event := <-h.broadcast:
			if h.dropped.Swap(false) {
				h.deliver(services.RosterEvent{Type: services.EventRosterResync, Timestamp: time.Now().UTC()})
			}
			h.deliver(event)
		}
	}
}

// Register adds a client to the feed. Once Run has stopped the client's send
// channel is closed instead, so its WritePump exits.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish never blocks the caller. When the queue is full the event is
// dropped and the next delivered event is preceded by roster.resync.
func (h *Hub) Publish(event services.RosterEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.dropped.Store(true)
		h.logger.Warn("roster event dropped", zap.String("type", event.Type), zap.String("id", event.ID))
	}
}

func (h *Hub) deliver(event services.RosterEvent) {
	h.seq++
	event.Seq = h.seq

	encoded, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("roster hub encode event", zap.Error(err))
		return
	}

	for client := range h.clients {
		select {
		case client.send <- encoded:
		default:
			h.logger.Warn("dropping slow roster client", zap.String("user_id", client.userID))
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// ReadPump drains the connection until it closes. The feed is one-way, so
// anything the client sends is ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
