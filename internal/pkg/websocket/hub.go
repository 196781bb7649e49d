package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types pushed to clients watching an assignment
const (
	EventGroupJoined       = "group.joined"
	EventSubmissionCreated = "submission.created"
)

// Event is one server-to-client notification
type Event struct {
	Type         string      `json:"type"`
	AssignmentID int64       `json:"assignmentId"`
	Payload      interface{} `json:"payload,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

// Hub keeps the clients watching each assignment and fans events out to them
type Hub struct {
	// Registered clients organized by assignment ID
	clients map[int64]map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards clients for readers outside Run
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.assignmentID]; !ok {
		h.clients[client.assignmentID] = make(map[*Client]bool)
	}
	h.clients[client.assignmentID][client] = true

	h.logger.Info().
		Int64("assignmentID", client.assignmentID).
		Int64("userID", client.userID).
		Msg("Client registered")
}

// removeLocked drops a client; h.mu must be held for writing
func (h *Hub) removeLocked(client *Client) {
	room, ok := h.clients[client.assignmentID]
	if !ok || !room[client] {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.clients, client.assignmentID)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
	h.logger.Info().
		Int64("assignmentID", client.assignmentID).
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.clients[event.AssignmentID]
	for client := range room {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop it rather than stall the hub.
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Int64("assignmentID", event.AssignmentID).
		Str("type", event.Type).
		Int("clientCount", len(room)).
		Msg("Event broadcasted")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.clients {
		for client := range room {
			h.removeLocked(client)
		}
	}
}

// Publish queues an event for the assignment's watchers. It never blocks; when the
// queue is full the event is dropped and logged.
func (h *Hub) Publish(assignmentID int64, eventType string, payload interface{}) {
	event := &Event{
		Type:         eventType,
		AssignmentID: assignmentID,
		Payload:      payload,
		Timestamp:    time.Now().UTC(),
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Int64("assignmentID", assignmentID).Str("type", eventType).Msg("Event queue full, dropping event")
	}
}

// GetClientsCount returns the number of connected clients for an assignment
func (h *Hub) GetClientsCount(assignmentID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[assignmentID])
}
