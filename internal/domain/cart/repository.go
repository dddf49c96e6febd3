package cart

import "context"

// Repository stores one cart per user, keyed productID -> size -> quantity.
// Entries whose quantity drops to zero or below are absent.
type Repository interface {
	AddItem(ctx context.Context, userID int64, productID int64, size string, quantity int64) error
	UpdateItem(ctx context.Context, userID int64, productID int64, size string, quantity int64) error
	ListItems(ctx context.Context, userID int64) ([]Item, error)
	Clear(ctx context.Context, userID int64) error
}
