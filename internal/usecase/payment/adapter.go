package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"

	domorder "example.com/threadcart/app/internal/domain/order"
)

// InitiateResult is what starting a payment yields. Exactly one of the
// outcome fields is meaningful for a given adapter: Confirmed for COD,
// RedirectURL for the hosted path, Intent for the two-phase path.
type InitiateResult struct {
	Confirmed   bool
	RedirectURL string
	Intent      *Intent
	// PaymentRef is the gateway handle to persist on the order, empty for COD.
	PaymentRef string
}

// Adapter initiates payment for a freshly persisted order. The adapter
// references the order by id and never mutates it.
type Adapter interface {
	Method() domorder.PaymentMethod
	Initiate(ctx context.Context, o *domorder.Order) (*InitiateResult, error)
}

// Registry selects the adapter for an order's payment method once, at
// order-creation time.
type Registry struct {
	adapters map[domorder.PaymentMethod]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[domorder.PaymentMethod]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Method()] = a
	}
	return &Registry{adapters: m}
}

func (r *Registry) ForMethod(method domorder.PaymentMethod) (Adapter, error) {
	a, ok := r.adapters[method]
	if !ok {
		return nil, domorder.ErrInvalidPayment
	}
	return a, nil
}

// CODAdapter performs no external call. Confirmation is implicit at order
// creation; trusting the buyer here is a deliberate policy, not a gap.
type CODAdapter struct{}

func (CODAdapter) Method() domorder.PaymentMethod { return domorder.PaymentCOD }

func (CODAdapter) Initiate(ctx context.Context, o *domorder.Order) (*InitiateResult, error) {
	return &InitiateResult{Confirmed: true}, nil
}

// HostedAdapter requests a gateway-hosted checkout session and hands the
// caller a redirect URL. The order is already persisted unconfirmed when
// the redirect goes out.
type HostedAdapter struct {
	client      HostedCheckoutClient
	currency    string
	deliveryFee float64
	// verifyBaseURL is the public page the gateway redirects back to,
	// e.g. https://shop.example.com/verify.
	verifyBaseURL string
}

func NewHostedAdapter(client HostedCheckoutClient, currency string, deliveryFee float64, verifyBaseURL string) *HostedAdapter {
	return &HostedAdapter{
		client:        client,
		currency:      currency,
		deliveryFee:   deliveryFee,
		verifyBaseURL: verifyBaseURL,
	}
}

func (a *HostedAdapter) Method() domorder.PaymentMethod { return domorder.PaymentHosted }

func (a *HostedAdapter) Initiate(ctx context.Context, o *domorder.Order) (*InitiateResult, error) {
	lines := make([]CheckoutLine, 0, len(o.Items)+1)
	for _, item := range o.Items {
		lines = append(lines, CheckoutLine{
			Name:       item.Name,
			UnitAmount: MinorUnits(item.UnitPrice),
			Quantity:   item.Quantity,
		})
	}
	lines = append(lines, CheckoutLine{
		Name:       "Delivery Charges",
		UnitAmount: MinorUnits(a.deliveryFee),
		Quantity:   1,
	})

	successURL := fmt.Sprintf("%s?success=true&orderId=%d", a.verifyBaseURL, o.ID)
	cancelURL := fmt.Sprintf("%s?success=false&orderId=%d", a.verifyBaseURL, o.ID)

	sessionID, redirectURL, err := a.client.CreateCheckoutSession(ctx, lines, successURL, cancelURL)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", domorder.ErrGateway, err)
	}

	return &InitiateResult{RedirectURL: redirectURL, PaymentRef: sessionID}, nil
}

// TwoPhaseAdapter creates a gateway intent carrying the order id as its
// receipt. The caller drives client-side confirmation and then calls
// verification separately.
type TwoPhaseAdapter struct {
	client   IntentClient
	currency string
}

func NewTwoPhaseAdapter(client IntentClient, currency string) *TwoPhaseAdapter {
	return &TwoPhaseAdapter{client: client, currency: currency}
}

func (a *TwoPhaseAdapter) Method() domorder.PaymentMethod { return domorder.PaymentTwoPhase }

func (a *TwoPhaseAdapter) Initiate(ctx context.Context, o *domorder.Order) (*InitiateResult, error) {
	receipt := strconv.FormatInt(o.ID, 10)
	intent, err := a.client.CreateIntent(ctx, MinorUnits(o.Amount), a.currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: create intent: %v", domorder.ErrGateway, err)
	}
	return &InitiateResult{Intent: intent, PaymentRef: intent.ID}, nil
}

// MinorUnits converts a decimal amount to minor currency units.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
