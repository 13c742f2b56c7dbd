package handler

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/sse"
)

// SSEHandler streams payment lifecycle events to checkout pages.
type SSEHandler struct {
	hub      *sse.Hub
	payments *service.PaymentService
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub, payments *service.PaymentService) *SSEHandler {
	return &SSEHandler{hub: hub, payments: payments}
}

// Stream handles GET /v1/mpesa/stream?checkout_request_id=<id>
// The filter is optional; without it every payment event is delivered.
func (h *SSEHandler) Stream(c *gin.Context) {
	filter := c.Query("checkout_request_id")
	clientID := "client-" + uuid.New().String()[:8]

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID, filter)
	defer h.hub.Unregister(clientID)

	// Send initial connected event
	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"message":   "SSE connection established",
		"timestamp": time.Now().Format(time.RFC3339),
	})

	// A filtered client gets the payment's current state up front; the
	// callback may have landed before the page connected.
	if filter != "" {
		if p, err := h.payments.GetStatus(c.Request.Context(), filter); err == nil {
			if data, err := json.Marshal(sse.PaymentEventFrom(sse.EventPaymentSnapshot, p)); err == nil {
				c.SSEvent("payment", string(data))
			}
		}
	}
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Str("filter", filter).Msg("Payment SSE stream started")

	// Stream events
	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent("payment", string(data))
			return true
		case <-time.After(30 * time.Second):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
