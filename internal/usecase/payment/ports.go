package payment

import "context"

// Intent is the gateway-side handle for a two-phase payment. Amount is in
// minor currency units. Receipt carries the order id and is the only
// correlation between the gateway and our records.
type Intent struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// IntentStatusPaid is the gateway status that settles a two-phase payment.
const IntentStatusPaid = "paid"

// CheckoutLine is one price line of a hosted checkout session.
type CheckoutLine struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// HostedCheckoutClient creates gateway-hosted checkout sessions. The
// gateway owns the payment UI and returns control via the callback URLs.
type HostedCheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, lines []CheckoutLine, successURL, cancelURL string) (sessionID string, redirectURL string, err error)
}

// IntentClient drives the two-phase create/verify flow.
type IntentClient interface {
	CreateIntent(ctx context.Context, amount int64, currency string, receipt string) (*Intent, error)
	FetchIntent(ctx context.Context, id string) (*Intent, error)
}

// EventRecorder appends to the payment audit trail. Recording is
// best-effort: a failed append never blocks a payment transition.
type EventRecorder interface {
	Record(ctx context.Context, orderID int64, event string, detail string) error
}
