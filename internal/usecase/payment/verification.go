package payment

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	domcart "example.com/threadcart/app/internal/domain/cart"
	domorder "example.com/threadcart/app/internal/domain/order"
	"example.com/threadcart/app/internal/pkg/metrics"
)

const (
	eventConfirmed = "payment_confirmed"
	eventCancelled = "hosted_cancelled"
)

// VerificationService reconciles gateway payment outcomes with persisted
// orders and clears the buyer's cart exactly once per confirmation.
//
// Failure handling is deliberately asymmetric, mirroring the storefront
// contract: a cancelled hosted payment deletes the order outright (the
// buyer sees no trace of it), while a failed two-phase verification
// retains the order unconfirmed. The Postgres audit trail records the
// deletion before it happens.
type VerificationService struct {
	orders  domorder.Repository
	cart    domcart.Repository
	intents IntentClient
	events  EventRecorder
	logger  *zap.Logger
}

func NewVerificationService(
	orders domorder.Repository,
	cart domcart.Repository,
	intents IntentClient,
	events EventRecorder,
	logger *zap.Logger,
) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationService{
		orders:  orders,
		cart:    cart,
		intents: intents,
		events:  events,
		logger:  logger,
	}
}

// Result reports the outcome of a verification call. Order is nil when
// the hosted path removed the record.
type Result struct {
	Confirmed bool
	Order     *domorder.Order
}

// ConfirmHosted finalizes a hosted-checkout redirect callback.
//
// success=true confirms payment and clears the cart; only the winning
// conditional update clears, so a callback fired twice cannot
// double-clear. success=false deletes the order record; a duplicate
// cancel after deletion reports not-found rather than erroring.
func (s *VerificationService) ConfirmHosted(ctx context.Context, orderID int64, success bool, userID int64) (*Result, error) {
	if !success {
		s.record(ctx, orderID, eventCancelled, "hosted checkout cancelled, order removed")
		if err := s.orders.Delete(ctx, orderID); err != nil {
			return nil, err
		}
		metrics.PaymentOutcome(string(domorder.PaymentHosted), "cancelled")
		s.logger.Info("hosted payment cancelled, order deleted", zap.Int64("order_id", orderID))
		return &Result{Confirmed: false}, nil
	}

	if err := s.confirm(ctx, orderID, userID, domorder.PaymentHosted); err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &Result{Confirmed: true, Order: o}, nil
}

// ConfirmTwoPhase fetches the gateway intent by its external id and, when
// it reports paid, resolves receipt -> order and confirms. Any other
// status leaves the order retained and unconfirmed.
func (s *VerificationService) ConfirmTwoPhase(ctx context.Context, intentID string, userID int64) (*Result, error) {
	intent, err := s.intents.FetchIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch intent: %v", domorder.ErrGateway, err)
	}

	if intent.Status != IntentStatusPaid {
		metrics.PaymentOutcome(string(domorder.PaymentTwoPhase), "unpaid")
		s.logger.Info("two-phase intent not paid",
			zap.String("intent_id", intentID),
			zap.String("status", intent.Status))
		return nil, domorder.ErrPaymentNotCompleted
	}

	orderID, err := strconv.ParseInt(intent.Receipt, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("intent %s receipt %q: %w", intentID, intent.Receipt, domorder.ErrOrderNotFound)
	}

	if err := s.confirm(ctx, orderID, userID, domorder.PaymentTwoPhase); err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &Result{Confirmed: true, Order: o}, nil
}

// confirm flips the order to paid and clears the cart. The conditional
// update makes duplicate confirmations for the same order a no-op: only
// the winner clears the cart.
func (s *VerificationService) confirm(ctx context.Context, orderID, userID int64, method domorder.PaymentMethod) error {
	won, err := s.orders.ConfirmPayment(ctx, orderID)
	if err != nil {
		return err
	}
	if !won {
		s.logger.Info("payment already confirmed", zap.Int64("order_id", orderID))
		return nil
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart for user %d: %w", userID, err)
	}

	s.record(ctx, orderID, eventConfirmed, string(method))
	metrics.PaymentOutcome(string(method), "confirmed")
	s.logger.Info("payment confirmed",
		zap.Int64("order_id", orderID),
		zap.String("method", string(method)))
	return nil
}

func (s *VerificationService) record(ctx context.Context, orderID int64, event, detail string) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, orderID, event, detail); err != nil {
		s.logger.Warn("record payment event",
			zap.Int64("order_id", orderID),
			zap.String("event", event),
			zap.Error(err))
	}
}
