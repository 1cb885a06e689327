// Package relay fans note lifecycle events out to connected viewers.
//
// The relay is broadcast-only: an event from one client (or from the server
// itself) is pushed to every other connected client. There is no delivery
// guarantee, no replay for late joiners, and no ordering across concurrent
// producers. The store stays the source of truth; list views re-fetch from
// it independently of relay messages.
package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/selene-notes/selene/pkg/domain/interfaces"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/utils/logging"
)

const sendBufferSize = 16

// Client is one connected viewer. The transport (websocket read/write loops)
// lives in the HTTP controller; the hub only owns the outbound queue.
type Client struct {
	send chan []byte
}

// Messages returns the client's outbound queue. The channel is closed when
// the client is unregistered.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// Hub tracks connected clients and broadcasts events to them
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

var _ interfaces.Notifier = &Hub{}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a new viewer and returns its client handle
func (h *Hub) Register() *Client {
	c := &Client{send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}

	return c
}

// Unregister removes a viewer and closes its outbound queue. Safe to call
// once per client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[c]; !exists {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// ClientCount returns the number of connected viewers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes an event to every connected client except the sender.
// Pass a nil sender for server-originated events. Clients whose outbound
// queue is full are skipped; a viewer that falls behind simply misses
// events and recovers on its next store fetch.
func (h *Hub) Broadcast(ctx context.Context, sender *Client, event model.NoteEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.From(ctx).Error("failed to marshal relay event", "error", err.Error())
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c == sender {
			continue
		}
		select {
		case c.send <- data:
		default:
			logging.From(ctx).Warn("dropping relay event for slow client", "type", event.Type)
		}
	}
}

// NotifyNoteCreated implements interfaces.Notifier
func (h *Hub) NotifyNoteCreated(ctx context.Context, note *model.Note) {
	h.Broadcast(ctx, nil, model.NoteEvent{Type: model.NoteEventCreated, Note: note})
}

// NotifyNoteDeleted implements interfaces.Notifier
func (h *Hub) NotifyNoteDeleted(ctx context.Context, id model.NoteID) {
	h.Broadcast(ctx, nil, model.NoteEvent{Type: model.NoteEventDeleted, ID: id})
}
