package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
	"github.com/Haroldke13/geniusbabycosmetics/pkg/daraja"
)

// MpesaHandler handles STK push initiation, the Daraja result callback and
// payment status polling.
type MpesaHandler struct {
	paymentService *service.PaymentService
}

// NewMpesaHandler constructs an MpesaHandler.
func NewMpesaHandler(paymentService *service.PaymentService) *MpesaHandler {
	return &MpesaHandler{paymentService: paymentService}
}

// InitiateSTKPush handles POST /v1/mpesa/stkpush
func (h *MpesaHandler) InitiateSTKPush(c *gin.Context) {
	var req service.StkPushInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	payment, err := h.paymentService.InitiateSTKPush(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "STK push sent. Check your phone to complete the payment.", payment)
}

// HandleCallback handles POST /v1/mpesa/callback. Daraja retries non-2xx
// responses, so the callback is always acknowledged; processing failures
// are logged only.
func (h *MpesaHandler) HandleCallback(c *gin.Context) {
	ack := daraja.CallbackAck{ResultCode: 0, ResultDesc: "Accepted"}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Error().Err(err).Msg("M-Pesa callback body read failed")
		c.JSON(200, ack)
		return
	}

	var env daraja.CallbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		log.Error().Err(err).Msg("M-Pesa callback with invalid JSON")
		c.JSON(200, ack)
		return
	}

	if _, err := h.paymentService.HandleCallback(c.Request.Context(), &env); err != nil {
		log.Error().Err(err).
			Str("checkout_request_id", env.Body.StkCallback.CheckoutRequestID).
			Msg("M-Pesa callback processing failed")
	}

	c.JSON(200, ack)
}

// GetStatus handles GET /v1/mpesa/payments/:checkoutRequestId
func (h *MpesaHandler) GetStatus(c *gin.Context) {
	payment, err := h.paymentService.GetStatus(c.Request.Context(), c.Param("checkoutRequestId"))
	if err != nil {
		if errors.Is(err, utils.ErrPaymentNotFound) {
			utils.Error(c, 404, "PAYMENT_NOT_FOUND", "Payment not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load payment")
		return
	}

	utils.Success(c, 200, "Payment retrieved", payment)
}

func (h *MpesaHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrMpesaDisabled):
		utils.Error(c, 503, "MPESA_DISABLED", "M-Pesa payments are not available")
	case errors.Is(err, utils.ErrInvalidPhone):
		utils.Error(c, 400, "INVALID_PHONE", "Phone must be a Safaricom number like 07XXXXXXXX or 2547XXXXXXXX")
	case errors.Is(err, utils.ErrInvalidAmount):
		utils.Error(c, 400, "INVALID_AMOUNT", "Amount must be at least 1 KES")
	case errors.Is(err, utils.ErrStkPushRejected):
		utils.Error(c, 502, "STK_PUSH_REJECTED", "The payment request was rejected, try again shortly")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Payment initiation failed")
	}
}
