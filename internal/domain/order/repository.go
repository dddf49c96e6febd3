package order

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	List(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
	SetPaymentRef(ctx context.Context, id int64, ref string) error

	// ConfirmPayment flips PaymentConfirmed false -> true as a conditional
	// update. It returns false when the order was already confirmed, so a
	// duplicate callback never wins twice. Missing orders report
	// ErrOrderNotFound.
	ConfirmPayment(ctx context.Context, id int64) (bool, error)

	// Delete removes the order record entirely. Missing orders report
	// ErrOrderNotFound so repeated cancellations stay graceful.
	Delete(ctx context.Context, id int64) error

	// ListUnconfirmed returns orders of the given payment method still
	// unconfirmed and created before the cutoff. Used by the
	// reconciliation sweep.
	ListUnconfirmed(ctx context.Context, method PaymentMethod, before time.Time) ([]*Order, error)
}
