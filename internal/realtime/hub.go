package realtime

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event is the JSON-shaped payload pushed to a user's private channel.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	TaskID  uint64 `json:"task_id,omitempty"`
}

type userEvent struct {
	userID uint64
	data   []byte
}

// Hub maintains active clients grouped by user and pushes events to a
// user's connections. Delivery is best-effort: nothing is queued for
// users without a live connection, and a full client buffer drops the
// event. The hub is constructed in main and passed to its consumers
// explicitly; there is no package-level instance.
type Hub struct {
	clients    map[*Client]bool
	users      map[uint64]map[*Client]bool
	publish    chan userEvent
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new realtime hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		users:      make(map[uint64]map[*Client]bool),
		publish:    make(chan userEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub loop. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case ev := <-h.publish:
			h.deliver(ev)
		}
	}
}

// NotifyUser pushes a notification event to every live connection of the
// given user. It never blocks and never reports failure to the caller;
// the durable notification row is the source of truth.
func (h *Hub) NotifyUser(userID uint64, message string, taskID uint64) {
	data, err := json.Marshal(Event{
		Type:    "notification",
		Message: message,
		TaskID:  taskID,
	})
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode realtime event")
		return
	}

	select {
	case h.publish <- userEvent{userID: userID, data: data}:
	default:
		logrus.WithField("user_id", userID).Warn("Realtime publish queue full, dropping event")
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if client.userID != 0 {
		if h.users[client.userID] == nil {
			h.users[client.userID] = make(map[*Client]bool)
		}
		h.users[client.userID][client] = true
		logrus.WithField("user_id", client.userID).Debug("Realtime client joined user channel")
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if client.userID != 0 {
		if conns, ok := h.users[client.userID]; ok {
			delete(conns, client)
			if len(conns) == 0 {
				delete(h.users, client.userID)
			}
		}
	}
	close(client.send)
}

func (h *Hub) deliver(ev userEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.users[ev.userID] {
		select {
		case client.send <- ev.data:
		default:
			logrus.WithField("user_id", ev.userID).Warn("Realtime client buffer full, dropping event")
		}
	}
}

// ConnectedUsers returns the number of distinct users with a live
// connection.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users)
}
