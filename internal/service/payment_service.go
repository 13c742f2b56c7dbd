package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/cache"
	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/repository"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
	"github.com/Haroldke13/geniusbabycosmetics/pkg/daraja"
	"github.com/Haroldke13/geniusbabycosmetics/pkg/pdflog"
)

const sweepBatchSize = 50

// DarajaAPI is the slice of the Daraja client the payment flow needs.
type DarajaAPI interface {
	STKPush(ctx context.Context, input daraja.STKPushInput) (*daraja.STKPushResponse, error)
	STKQuery(ctx context.Context, checkoutRequestID string) (*daraja.STKQueryResponse, error)
}

// PaymentNotifier broadcasts payment lifecycle events to live listeners.
type PaymentNotifier interface {
	NotifyPaymentCreated(p *models.Payment)
	NotifyPaymentStatusChanged(p *models.Payment)
}

// StkPushInput carries a customer checkout request.
type StkPushInput struct {
	Phone            string  `json:"phone"`
	Amount           float64 `json:"amount"`
	AccountReference string  `json:"account_reference"`
	Description      string  `json:"description"`
}

// PaymentService drives the M-Pesa STK push lifecycle: initiation, the
// Daraja callback, status lookups and the sweep that resolves payments
// whose callback never arrived.
type PaymentService struct {
	payments   repository.PaymentRepository
	api        DarajaAPI
	sessions   *cache.StkCache
	pdf        *pdflog.Writer
	notifier   PaymentNotifier
	staleAfter time.Duration
	maxAge     time.Duration
}

// NewPaymentService constructs a PaymentService. api may be nil when
// Daraja credentials are missing; initiation is then rejected. sessions,
// pdf and notifier are optional.
func NewPaymentService(
	payments repository.PaymentRepository,
	api DarajaAPI,
	sessions *cache.StkCache,
	pdf *pdflog.Writer,
	notifier PaymentNotifier,
	staleAfter, maxAge time.Duration,
) *PaymentService {
	if staleAfter <= 0 {
		staleAfter = 90 * time.Second
	}
	if maxAge <= 0 {
		maxAge = 10 * time.Minute
	}
	return &PaymentService{
		payments:   payments,
		api:        api,
		sessions:   sessions,
		pdf:        pdf,
		notifier:   notifier,
		staleAfter: staleAfter,
		maxAge:     maxAge,
	}
}

// Enabled reports whether STK pushes can be initiated.
func (s *PaymentService) Enabled() bool {
	return s.api != nil
}

// InitiateSTKPush validates the request, fires the push and records the
// pending payment.
func (s *PaymentService) InitiateSTKPush(ctx context.Context, in StkPushInput) (*models.Payment, error) {
	if s.api == nil {
		return nil, utils.ErrMpesaDisabled
	}

	phone := daraja.FormatPhone(in.Phone)
	if phone == "" {
		return nil, utils.ErrInvalidPhone
	}
	amount := int(in.Amount)
	if amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}

	ref := strings.TrimSpace(in.AccountReference)
	desc := strings.TrimSpace(in.Description)

	resp, err := s.api.STKPush(ctx, daraja.STKPushInput{
		Phone:            phone,
		Amount:           amount,
		AccountReference: ref,
		TransactionDesc:  desc,
	})
	if err != nil {
		return nil, err
	}
	if rejectErr := resp.Err(); rejectErr != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStkPushRejected, rejectErr)
	}

	payment := &models.Payment{
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Phone:             phone,
		Amount:            amount,
		AccountReference:  ref,
		Description:       desc,
		Status:            models.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	if s.sessions != nil {
		session := &cache.StkSession{
			CheckoutRequestID: payment.CheckoutRequestID,
			MerchantRequestID: payment.MerchantRequestID,
			Phone:             phone,
			Amount:            amount,
			AccountReference:  ref,
		}
		if err := s.sessions.Set(ctx, session); err != nil {
			log.Warn().Err(err).Msg("STK session cache write failed")
		}
	}

	s.savePDF("STK Push Request", "stk", []pdflog.Row{
		{Key: "phone", Value: phone},
		{Key: "amount", Value: strconv.Itoa(amount)},
		{Key: "account_reference", Value: ref},
		{Key: "merchant_request_id", Value: resp.MerchantRequestID},
		{Key: "checkout_request_id", Value: resp.CheckoutRequestID},
		{Key: "response_description", Value: resp.ResponseDescription},
		{Key: "customer_message", Value: resp.CustomerMessage},
	})

	if s.notifier != nil {
		s.notifier.NotifyPaymentCreated(payment)
	}

	log.Info().
		Str("checkout_request_id", payment.CheckoutRequestID).
		Int("amount", amount).
		Msg("STK push initiated")
	return payment, nil
}

// HandleCallback applies a Daraja callback result. The HTTP layer always
// acknowledges regardless; an error here is for logging only.
func (s *PaymentService) HandleCallback(ctx context.Context, env *daraja.CallbackEnvelope) (*models.Payment, error) {
	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, utils.ErrMissingFields
	}

	s.savePDF("M-Pesa Callback", "callback", callbackRows(&cb))

	result := repository.PaymentResult{
		Status:          statusForResult(cb.ResultCode),
		ResultCode:      &cb.ResultCode,
		ResultDesc:      cb.ResultDesc,
		MpesaReceipt:    cb.Receipt(),
		TransactionDate: cb.TransactionDate(),
	}

	payment, changed, err := s.payments.ApplyResult(ctx, cb.CheckoutRequestID, result)
	if errors.Is(err, utils.ErrPaymentNotFound) {
		payment, changed, err = s.recoverFromSession(ctx, &cb, result)
	}
	if err != nil {
		return nil, err
	}
	if changed {
		s.settle(ctx, payment)
	}
	return payment, nil
}

// recoverFromSession rebuilds a payment row from the Redis session when the
// callback arrives for a checkout id the database does not know, which
// happens when the insert after the push failed. The session holds enough of
// the original request to track the payment anyway.
func (s *PaymentService) recoverFromSession(ctx context.Context, cb *daraja.StkCallback, result repository.PaymentResult) (*models.Payment, bool, error) {
	if s.sessions == nil {
		return nil, false, utils.ErrPaymentNotFound
	}
	session, err := s.sessions.GetByCheckoutID(ctx, cb.CheckoutRequestID)
	if err != nil {
		log.Warn().Err(err).Str("checkout_request_id", cb.CheckoutRequestID).Msg("STK session cache read failed")
		return nil, false, utils.ErrPaymentNotFound
	}
	if session == nil {
		return nil, false, utils.ErrPaymentNotFound
	}

	payment := &models.Payment{
		MerchantRequestID: session.MerchantRequestID,
		CheckoutRequestID: session.CheckoutRequestID,
		Phone:             session.Phone,
		Amount:            session.Amount,
		AccountReference:  session.AccountReference,
		Status:            models.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, false, err
	}
	log.Info().
		Str("checkout_request_id", payment.CheckoutRequestID).
		Msg("Payment rebuilt from session cache")

	return s.payments.ApplyResult(ctx, cb.CheckoutRequestID, result)
}

// GetStatus returns the tracked payment for a checkout request id.
func (s *PaymentService) GetStatus(ctx context.Context, checkoutRequestID string) (*models.Payment, error) {
	checkoutRequestID = strings.TrimSpace(checkoutRequestID)
	if checkoutRequestID == "" {
		return nil, utils.ErrPaymentNotFound
	}
	return s.payments.GetByCheckoutID(ctx, checkoutRequestID)
}

// SweepPending resolves pending payments that missed their callback: young
// ones are queried against Daraja, ones past maxAge are expired locally.
// Returns the number of payments settled.
func (s *PaymentService) SweepPending(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.staleAfter)
	pending, err := s.payments.ListStalePending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	settled := 0
	for i := range pending {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}
		if s.resolvePending(ctx, &pending[i]) {
			settled++
		}
	}
	return settled, nil
}

// resolvePending settles one stale payment, reporting whether a terminal
// state was reached.
func (s *PaymentService) resolvePending(ctx context.Context, p *models.Payment) bool {
	if time.Since(p.CreatedAt) > s.maxAge {
		result := repository.PaymentResult{
			Status:     models.PaymentStatusExpired,
			ResultDesc: "No callback received before the payment aged out",
		}
		updated, changed, err := s.payments.ApplyResult(ctx, p.CheckoutRequestID, result)
		if err != nil {
			log.Error().Err(err).Str("checkout_request_id", p.CheckoutRequestID).Msg("Expire stale payment failed")
			return false
		}
		if changed {
			s.savePDF("Sweep Expiry", "sweep", []pdflog.Row{
				{Key: "checkout_request_id", Value: updated.CheckoutRequestID},
				{Key: "merchant_request_id", Value: updated.MerchantRequestID},
				{Key: "phone", Value: updated.Phone},
				{Key: "amount", Value: strconv.Itoa(updated.Amount)},
				{Key: "status", Value: string(updated.Status)},
				{Key: "reason", Value: result.ResultDesc},
			})
			s.settle(ctx, updated)
		}
		return changed
	}

	if s.api == nil {
		return false
	}

	resp, err := s.api.STKQuery(ctx, p.CheckoutRequestID)
	if err != nil {
		log.Warn().Err(err).Str("checkout_request_id", p.CheckoutRequestID).Msg("STK query failed")
		return false
	}
	if !resp.Resolved() {
		if resp.ErrorCode != daraja.ErrCodeProcessing {
			log.Warn().
				Str("checkout_request_id", p.CheckoutRequestID).
				Str("error_code", resp.ErrorCode).
				Msg("STK query returned business error")
		}
		return false
	}

	code := resp.ResultCodeInt()
	result := repository.PaymentResult{
		Status:     statusForResult(code),
		ResultCode: &code,
		ResultDesc: resp.ResultDesc,
	}
	updated, changed, err := s.payments.ApplyResult(ctx, p.CheckoutRequestID, result)
	if err != nil {
		log.Error().Err(err).Str("checkout_request_id", p.CheckoutRequestID).Msg("Apply query result failed")
		return false
	}
	if changed {
		s.settle(ctx, updated)
	}
	return changed
}

// settle clears the session cache and notifies listeners after a status
// transition.
func (s *PaymentService) settle(ctx context.Context, p *models.Payment) {
	if s.sessions != nil {
		if err := s.sessions.Delete(ctx, p.CheckoutRequestID); err != nil {
			log.Warn().Err(err).Msg("STK session cache delete failed")
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyPaymentStatusChanged(p)
	}
	log.Info().
		Str("checkout_request_id", p.CheckoutRequestID).
		Str("status", string(p.Status)).
		Msg("Payment settled")
}

// savePDF archives a traffic snapshot, best effort.
func (s *PaymentService) savePDF(title, prefix string, rows []pdflog.Row) {
	if s.pdf == nil {
		return
	}
	if _, err := s.pdf.Save(title, prefix, rows); err != nil {
		log.Warn().Err(err).Str("title", title).Msg("PDF log write failed")
	}
}

// statusForResult maps a Daraja result code onto the payment lifecycle.
func statusForResult(code int) models.PaymentStatus {
	switch {
	case daraja.IsSuccess(code):
		return models.PaymentStatusSuccess
	case daraja.IsTimeout(code):
		return models.PaymentStatusExpired
	default:
		return models.PaymentStatusFailed
	}
}

func callbackRows(cb *daraja.StkCallback) []pdflog.Row {
	rows := []pdflog.Row{
		{Key: "merchant_request_id", Value: cb.MerchantRequestID},
		{Key: "checkout_request_id", Value: cb.CheckoutRequestID},
		{Key: "result_code", Value: strconv.Itoa(cb.ResultCode)},
		{Key: "result_desc", Value: cb.ResultDesc},
	}
	if cb.Success() {
		rows = append(rows,
			pdflog.Row{Key: "mpesa_receipt", Value: cb.Receipt()},
			pdflog.Row{Key: "amount", Value: strconv.FormatFloat(cb.Amount(), 'f', -1, 64)},
			pdflog.Row{Key: "phone", Value: cb.PhoneNumber()},
			pdflog.Row{Key: "transaction_date", Value: cb.TransactionDate()},
		)
	}
	return rows
}
