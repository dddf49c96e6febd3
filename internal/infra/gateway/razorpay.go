package gateway

import (
	"context"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"

	"example.com/threadcart/app/internal/usecase/payment"
)

// RazorpayGateway implements the two-phase intent port with the Razorpay
// Orders API. The SDK client carries no context; the ctx parameters exist
// to satisfy the port.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) CreateIntent(ctx context.Context, amount int64, currency string, receipt string) (*payment.Intent, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": strings.ToUpper(currency),
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	return intentFromBody(body)
}

func (g *RazorpayGateway) FetchIntent(ctx context.Context, id string) (*payment.Intent, error) {
	body, err := g.client.Order.Fetch(id, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay fetch order %s: %w", id, err)
	}
	return intentFromBody(body)
}

func intentFromBody(body map[string]interface{}) (*payment.Intent, error) {
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay response missing order id")
	}

	intent := &payment.Intent{ID: id}
	if v, ok := body["amount"].(float64); ok {
		intent.Amount = int64(v)
	}
	if v, ok := body["currency"].(string); ok {
		intent.Currency = v
	}
	if v, ok := body["receipt"].(string); ok {
		intent.Receipt = v
	}
	if v, ok := body["status"].(string); ok {
		intent.Status = v
	}
	return intent, nil
}
