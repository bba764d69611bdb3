// Package broadcast fans the full order snapshot out to every connected
// websocket observer. Delivery is fire and forget: each message carries
// the whole collection, so a dropped or reordered message cannot make an
// observer diverge; only the latest one matters.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"fsanano/order-tracker/internal/model"
)

const EventOrderUpdated = "order-updated"

// Event is the wire envelope pushed to observers.
type Event struct {
	Event  string        `json:"event"`
	Orders []model.Order `json:"orders"`
}

// SnapshotFunc supplies the current order collection, used to seed a
// newly connected observer.
type SnapshotFunc func() []model.Order

type Hub struct {
	log      *slog.Logger
	snapshot SnapshotFunc
	upgrader websocket.Upgrader

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []model.Order
	done       chan struct{}
}

func NewHub(log *slog.Logger, allowedOrigins []string, snapshot SnapshotFunc) *Hub {
	return &Hub{
		log:      log,
		snapshot: snapshot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []model.Order, 64),
		done:       make(chan struct{}),
	}
}

// Run owns the client set. It serializes registration and fan-out and
// returns once ctx is cancelled, closing every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			// A fresh observer gets the current snapshot without
			// issuing any read request.
			if data, err := marshalEvent(h.snapshot()); err == nil {
				h.queue(c, data)
			} else {
				h.log.Error("failed to marshal snapshot", "error", err)
			}
			h.log.Info("observer connected", "observer", c.id, "observers", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				close(c.send)
				delete(h.clients, c)
				h.log.Info("observer disconnected", "observer", c.id, "observers", len(h.clients))
			}
		case orders := <-h.broadcast:
			data, err := marshalEvent(orders)
			if err != nil {
				h.log.Error("failed to marshal snapshot", "error", err)
				continue
			}
			for c := range h.clients {
				h.queue(c, data)
			}
		}
	}
}

// Publish is the store's mutation hook: it hands the post-mutation
// snapshot to the run loop. It never blocks the mutation; if the hub is
// hopelessly backed up the snapshot is dropped (the next one supersedes
// it anyway).
func (h *Hub) Publish(orders []model.Order) {
	select {
	case h.broadcast <- orders:
	case <-h.done:
	default:
		h.log.Warn("hub backlogged, dropping snapshot")
	}
}

// ServeWS upgrades the request and attaches the observer to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}
	c := newClient(h, conn)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// queue delivers to one observer without waiting. An observer whose
// buffer is full is not keeping up and gets dropped.
func (h *Hub) queue(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn("observer too slow, dropping", "observer", c.id)
		close(c.send)
		delete(h.clients, c)
	}
}

func marshalEvent(orders []model.Order) ([]byte, error) {
	if orders == nil {
		orders = []model.Order{}
	}
	return json.Marshal(Event{Event: EventOrderUpdated, Orders: orders})
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}
