package sse

import (
	"time"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
)

// HubNotifier bridges payment lifecycle events onto the SSE Hub. It
// satisfies the payment service's notifier interface.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyPaymentCreated(p *models.Payment) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(PaymentEventFrom(EventPaymentCreated, p))
}

func (n *HubNotifier) NotifyPaymentStatusChanged(p *models.Payment) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(PaymentEventFrom(EventPaymentStatusChanged, p))
}

// PaymentEventFrom builds the broadcast payload for a payment's current state.
func PaymentEventFrom(eventType EventType, p *models.Payment) *PaymentEvent {
	return &PaymentEvent{
		Event:             eventType,
		CheckoutRequestID: p.CheckoutRequestID,
		MerchantRequestID: p.MerchantRequestID,
		Phone:             p.Phone,
		Amount:            p.Amount,
		Status:            string(p.Status),
		ResultCode:        p.ResultCode,
		ResultDesc:        p.ResultDesc,
		MpesaReceipt:      p.MpesaReceipt,
		Timestamp:         time.Now(),
	}
}
