// Package events delivers change notifications over WebSocket. The payload
// is a hint, never state: clients re-fetch their queue when anything about
// their assignments changes.
package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

// Message is a change notification. StaffID scopes delivery: the zero UUID
// broadcasts to every connected client.
type Message struct {
	Type    string    `json:"type"`
	Entity  string    `json:"entity"`
	Action  string    `json:"action"`
	ID      uuid.UUID `json:"id"`
	StaffID uuid.UUID `json:"-"`
}

// NewMessage creates a Message with the Type field derived from entity and
// action.
func NewMessage(entity, action string, id, staffID uuid.UUID) Message {
	return Message{
		Type:    fmt.Sprintf("%s_%s", entity, action),
		Entity:  entity,
		Action:  action,
		ID:      id,
		StaffID: staffID,
	}
}

// Sink is what the services layer publishes through.
type Sink interface {
	Broadcast(msg Message)
}

// Hub maintains the set of active WebSocket clients and routes messages to
// the clients subscribed for the message's staff ID.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to the clients it is scoped to.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.Logger.WithError(err).Error("marshal broadcast")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if msg.StaffID != uuid.Nil && c.staffID != msg.StaffID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
