package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domorder "example.com/threadcart/app/internal/domain/order"
)

// Reconciler sweeps two-phase orders stuck unconfirmed past the cutoff
// and re-checks their intent with the gateway. An order whose intent
// settled while the client-side confirmation was lost gets driven through
// the same guarded confirm path as an interactive verification.
type Reconciler struct {
	orders   domorder.Repository
	verify   *VerificationService
	interval time.Duration
	maxAge   time.Duration
	logger   *zap.Logger
}

func NewReconciler(orders domorder.Repository, verify *VerificationService, interval, maxAge time.Duration, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		orders:   orders,
		verify:   verify,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
	}
}

// Run blocks, sweeping on every tick until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep performs a single reconciliation pass.
func (r *Reconciler) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.maxAge)
	orders, err := r.orders.ListUnconfirmed(ctx, domorder.PaymentTwoPhase, cutoff)
	if err != nil {
		r.logger.Error("list unconfirmed orders", zap.Error(err))
		return
	}

	for _, o := range orders {
		if o.PaymentRef == "" {
			// Intent creation failed after the order was persisted;
			// nothing to reconcile against.
			continue
		}

		_, err := r.verify.ConfirmTwoPhase(ctx, o.PaymentRef, o.UserID)
		switch {
		case err == nil:
			r.logger.Info("reconciled stuck order", zap.Int64("order_id", o.ID))
		case errors.Is(err, domorder.ErrPaymentNotCompleted):
			// Still pending at the gateway; the order stays retained.
		default:
			r.logger.Warn("reconcile order",
				zap.Int64("order_id", o.ID),
				zap.Error(err))
		}
	}
}
