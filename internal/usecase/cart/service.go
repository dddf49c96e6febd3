package cart

import (
	"context"

	domcart "example.com/threadcart/app/internal/domain/cart"
	domorder "example.com/threadcart/app/internal/domain/order"
	domproduct "example.com/threadcart/app/internal/domain/product"
)

type Service struct {
	cartRepo    domcart.Repository
	productRepo domproduct.Repository
}

func NewService(cartRepo domcart.Repository, productRepo domproduct.Repository) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *Service) AddToCart(ctx context.Context, userID, productID int64, size string, quantity int64) error {
	if quantity <= 0 {
		return domorder.ErrInvalidQuantity
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.cartRepo.AddItem(ctx, userID, productID, size, quantity)
}

// UpdateItem sets the quantity of one line; zero or below removes it.
func (s *Service) UpdateItem(ctx context.Context, userID, productID int64, size string, quantity int64) error {
	return s.cartRepo.UpdateItem(ctx, userID, productID, size, quantity)
}

func (s *Service) GetCart(ctx context.Context, userID int64) (*domcart.Cart, error) {
	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &domcart.Cart{UserID: userID, Items: []domcart.DetailedItem{}}, nil
	}

	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productMap := make(map[int64]*domproduct.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	cart := &domcart.Cart{
		UserID: userID,
		Items:  make([]domcart.DetailedItem, 0, len(items)),
	}
	for _, item := range items {
		if p, ok := productMap[item.ProductID]; ok {
			cart.Items = append(cart.Items, domcart.DetailedItem{
				Item:         item,
				ProductName:  p.Name,
				ProductPrice: p.Price,
			})
		}
	}

	return cart, nil
}
