package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/bookswap/bookswap-backend/internal/models"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	EventTypeNewMessage EventType = "new_message"
	EventTypeError      EventType = "error"
)

// Event represents a WebSocket event pushed to a client
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewMessagePayload notifies a recipient about a message it just received,
// together with its refreshed unread total for badge display.
type NewMessagePayload struct {
	MessageID   uint                  `json:"message_id"`
	Sender      models.PublicIdentity `json:"sender"`
	Body        string                `json:"body"`
	SentAt      time.Time             `json:"sent_at"`
	UnreadTotal int64                 `json:"unread_total"`
}

// Hub maintains the set of connected clients, keyed by the account each
// connection authenticated as. One account may hold several connections.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Account streams: accountID -> set of clients
	accounts map[uint]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Events addressed to one account's connections
	broadcast chan *accountEvent

	mu sync.RWMutex

	logger *slog.Logger
}

type accountEvent struct {
	accountID uint
	data      []byte
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		accounts:   make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *accountEvent, 256),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.accounts[client.accountID] == nil {
				h.accounts[client.accountID] = make(map[*Client]bool)
			}
			h.accounts[client.accountID][client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client registered", slog.Uint64("account_id", uint64(client.accountID)))
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				if conns, ok := h.accounts[client.accountID]; ok {
					delete(conns, client)
					if len(conns) == 0 {
						delete(h.accounts, client.accountID)
					}
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unregistered", slog.Uint64("account_id", uint64(client.accountID)))
			}

		case event := <-h.broadcast:
			h.mu.RLock()
			for client := range h.accounts[event.accountID] {
				select {
				case client.send <- event.data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NotifyNewMessage pushes a new-message event to every connection the
// recipient account currently holds. Implements services.MessageNotifier.
func (h *Hub) NotifyNewMessage(recipientID uint, message *models.Message, sender models.PublicIdentity, unreadTotal int64) {
	event := Event{
		Type: EventTypeNewMessage,
		Payload: &NewMessagePayload{
			MessageID:   message.ID,
			Sender:      sender,
			Body:        message.Body,
			SentAt:      message.SentAt,
			UnreadTotal: unreadTotal,
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal event", slog.Any("error", err))
		}
		return
	}

	h.broadcast <- &accountEvent{
		accountID: recipientID,
		data:      data,
	}
}

// ConnectionCount reports how many connections an account currently holds
func (h *Hub) ConnectionCount(accountID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.accounts[accountID])
}
