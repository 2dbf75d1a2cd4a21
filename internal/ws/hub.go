package ws

import (
	"context"
	"encoding/json"
	"sync"

	"skate_app/internal/domain"
	"skate_app/internal/logger"
	"skate_app/internal/metrics"
)

// Hub tracks open connections by user id and pushes game events to
// them. A user may hold several connections at once (phone plus
// desktop); every one of them gets the event.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	metrics.WSClients.Inc()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	metrics.WSClients.Dec()
}

// Notify sends the event to every live connection of the target user.
// A full send buffer drops the message for that connection instead of
// stalling the engine; the client still catches up over the REST API.
func (h *Hub) Notify(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[n.UserID] {
		select {
		case c.Send <- payload:
		default:
			logger.Warn("ws send buffer full, dropping event",
				"user_id", n.UserID, "event", n.Event)
		}
	}
	return nil
}
