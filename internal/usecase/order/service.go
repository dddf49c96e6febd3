package order

import (
	"context"

	domcart "example.com/threadcart/app/internal/domain/cart"
	domorder "example.com/threadcart/app/internal/domain/order"
	domproduct "example.com/threadcart/app/internal/domain/product"
	"example.com/threadcart/app/internal/pkg/metrics"
	"example.com/threadcart/app/internal/usecase/payment"
)

// Config carries the pricing constants injected at construction; there
// are no package-level currency or fee globals.
type Config struct {
	Currency    string
	DeliveryFee float64
}

type Service struct {
	orders   domorder.Repository
	products domproduct.Repository
	cart     domcart.Repository
	payments *payment.Registry
	cfg      Config
}

func NewService(
	orders domorder.Repository,
	products domproduct.Repository,
	cart domcart.Repository,
	payments *payment.Registry,
	cfg Config,
) *Service {
	return &Service{
		orders:   orders,
		products: products,
		cart:     cart,
		payments: payments,
		cfg:      cfg,
	}
}

// PlaceInput is the client's cart snapshot plus delivery details. Any
// client-supplied pricing is advisory only; unit prices and the total are
// recomputed from the product repository.
type PlaceInput struct {
	Items   []domcart.Item
	Address domorder.Address
	Method  domorder.PaymentMethod
}

type PlaceResult struct {
	Order       *domorder.Order
	RedirectURL string
	Intent      *payment.Intent
}

// Place validates the snapshot, persists the order as PLACED/unconfirmed
// with a server-computed amount, and initiates payment with the adapter
// selected by method.
func (s *Service) Place(ctx context.Context, userID int64, in PlaceInput) (*PlaceResult, error) {
	if !in.Method.IsValid() {
		return nil, domorder.ErrInvalidPayment
	}
	if len(in.Items) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}
	if !in.Address.IsComplete() {
		return nil, domorder.ErrMissingAddress
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domorder.ErrInvalidQuantity
		}
	}

	items, amount, err := s.priceItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	created, err := s.orders.Create(ctx, &domorder.Order{
		UserID:        userID,
		Items:         items,
		Address:       in.Address,
		Amount:        amount,
		PaymentMethod: in.Method,
		Status:        domorder.StatusPlaced,
	})
	if err != nil {
		return nil, err
	}
	metrics.OrderPlaced(string(in.Method))

	adapter, err := s.payments.ForMethod(in.Method)
	if err != nil {
		return nil, err
	}
	res, err := adapter.Initiate(ctx, created)
	if err != nil {
		return nil, err
	}

	if res.PaymentRef != "" {
		if err := s.orders.SetPaymentRef(ctx, created.ID, res.PaymentRef); err != nil {
			return nil, err
		}
		created.PaymentRef = res.PaymentRef
	}

	if res.Confirmed {
		// COD trust boundary: the cart is cleared synchronously with
		// order creation. No gateway confirmation gates this path.
		if err := s.cart.Clear(ctx, userID); err != nil {
			return nil, err
		}
	}

	return &PlaceResult{
		Order:       created,
		RedirectURL: res.RedirectURL,
		Intent:      res.Intent,
	}, nil
}

// priceItems resolves each snapshot line against the product repository
// and returns the order items with authoritative unit prices, plus the
// fixed total amount including the delivery fee.
func (s *Service) priceItems(ctx context.Context, items []domcart.Item) ([]domorder.OrderItem, float64, error) {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int64]*domproduct.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var amount float64
	orderItems := make([]domorder.OrderItem, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, 0, domproduct.ErrProductNotFound
		}
		amount += p.Price * float64(item.Quantity)
		orderItems = append(orderItems, domorder.OrderItem{
			ProductID: item.ProductID,
			Name:      p.Name,
			Size:      item.Size,
			UnitPrice: p.Price,
			Quantity:  item.Quantity,
		})
	}

	return orderItems, amount + s.cfg.DeliveryFee, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]*domorder.Order, error) {
	return s.orders.List(ctx)
}

func (s *Service) SetStatus(ctx context.Context, orderID int64, status domorder.Status) (*domorder.Order, error) {
	if !status.IsValid() {
		return nil, domorder.ErrInvalidStatus
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}
