// Package realtime pushes newly generated alerts to connected
// websocket clients. Delivery is best effort; the persisted alert is
// the source of truth.
package realtime

import (
	"sync"

	"github.com/gorilla/websocket"

	"fincoach/internal/models"
)

// Hub tracks websocket connections per user and fans alert payloads
// out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]*client
}

// client serializes writes to one connection. The unread replay on
// connect and a sweep push can target the same connection at once,
// and the websocket allows a single writer at a time.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*websocket.Conn]*client)}
}

func (h *Hub) AddClient(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]*client)
	}
	h.clients[userID][conn] = &client{conn: conn}
	h.mu.Unlock()
}

func (h *Hub) RemoveClient(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if conns := h.clients[userID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
	h.mu.Unlock()
	_ = conn.Close()
}

// alertEvent is the wire envelope for a pushed alert.
type alertEvent struct {
	Event string       `json:"event"`
	Alert models.Alert `json:"alert"`
}

// PushAlerts writes each alert to every connection the owning user has
// open. Connections that fail to write are dropped.
func (h *Hub) PushAlerts(userID uint, alerts []models.Alert) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[userID]))
	for _, c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		for i := range alerts {
			if err := c.writeJSON(alertEvent{Event: "alert", Alert: alerts[i]}); err != nil {
				h.RemoveClient(userID, c.conn)
				break
			}
		}
	}
}
