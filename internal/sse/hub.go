package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventPaymentCreated       EventType = "payment.created"
	EventPaymentStatusChanged EventType = "payment.status_changed"
	EventPaymentSnapshot      EventType = "payment.snapshot"
)

// PaymentEvent is the payload broadcast to stream clients.
type PaymentEvent struct {
	Event             EventType `json:"event"`
	CheckoutRequestID string    `json:"checkout_request_id"`
	MerchantRequestID string    `json:"merchant_request_id"`
	Phone             string    `json:"phone"`
	Amount            int       `json:"amount"`
	Status            string    `json:"status"`
	ResultCode        *int      `json:"result_code,omitempty"`
	ResultDesc        string    `json:"result_desc,omitempty"`
	MpesaReceipt      string    `json:"mpesa_receipt,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// Client represents one connected stream consumer. A non-empty Filter
// restricts delivery to events for that checkout request id.
type Client struct {
	ID     string
	Filter string
	Events chan []byte
}

// Hub manages SSE client connections and broadcasts.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client and returns it for streaming. filter may be
// empty to receive every event.
func (h *Hub) Register(clientID, filter string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:     clientID,
		Filter: filter,
		Events: make(chan []byte, 64),
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Broadcast sends an event to all connected clients whose filter matches.
// Non-blocking: drops the message if a client buffer is full.
func (h *Hub) Broadcast(event *PaymentEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.Filter != "" && c.Filter != event.CheckoutRequestID {
			continue
		}
		select {
		case c.Events <- data:
		default:
			log.Warn().Str("client_id", c.ID).Msg("SSE client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
