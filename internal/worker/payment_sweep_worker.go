package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// PaymentSweeper resolves pending payments whose Daraja callback never
// arrived. The service owns the querying and state transitions.
type PaymentSweeper interface {
	SweepPending(ctx context.Context) (int, error)
}

// PaymentSweepWorker periodically sweeps stale pending payments. Without it
// a customer who dismisses the STK prompt would stay "pending" forever.
type PaymentSweepWorker struct {
	payments PaymentSweeper
	interval time.Duration
}

// NewPaymentSweepWorker constructs a PaymentSweepWorker.
func NewPaymentSweepWorker(payments PaymentSweeper, interval time.Duration) *PaymentSweepWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &PaymentSweepWorker{
		payments: payments,
		interval: interval,
	}
}

// Start begins the periodic sweep loop until context is canceled.
func (w *PaymentSweepWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Msg("Starting payment sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Payment sweep worker stopped")
			return
		}
	}
}

func (w *PaymentSweepWorker) run(ctx context.Context) {
	// Bound each pass so a hung Daraja call cannot stall the loop.
	runCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	settled, err := w.payments.SweepPending(runCtx)
	if err != nil {
		log.Error().Err(err).Msg("Payment sweep failed")
		return
	}
	if settled > 0 {
		log.Info().Int("settled", settled).Msg("Payment sweep resolved payments")
	}
}
