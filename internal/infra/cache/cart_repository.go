package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	domcart "example.com/threadcart/app/internal/domain/cart"
)

// CartRepository keeps one cart per user under key cart:<userID> as a
// JSON mapping productID -> size -> quantity. Quantities at or below zero
// are removed on write, so they are never observable.
type CartRepository struct {
	client *redis.Client
}

func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{client: client}
}

type cartData map[string]map[string]int64

func cartKey(userID int64) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (r *CartRepository) AddItem(ctx context.Context, userID, productID int64, size string, quantity int64) error {
	data, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	pid := strconv.FormatInt(productID, 10)
	if data[pid] == nil {
		data[pid] = make(map[string]int64)
	}
	data[pid][size] += quantity
	if data[pid][size] <= 0 {
		delete(data[pid], size)
		if len(data[pid]) == 0 {
			delete(data, pid)
		}
	}
	return r.store(ctx, userID, data)
}

func (r *CartRepository) UpdateItem(ctx context.Context, userID, productID int64, size string, quantity int64) error {
	data, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	pid := strconv.FormatInt(productID, 10)
	if quantity <= 0 {
		delete(data[pid], size)
		if len(data[pid]) == 0 {
			delete(data, pid)
		}
	} else {
		if data[pid] == nil {
			data[pid] = make(map[string]int64)
		}
		data[pid][size] = quantity
	}
	return r.store(ctx, userID, data)
}

func (r *CartRepository) ListItems(ctx context.Context, userID int64) ([]domcart.Item, error) {
	data, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var items []domcart.Item
	for pid, sizes := range data {
		productID, err := strconv.ParseInt(pid, 10, 64)
		if err != nil {
			continue
		}
		for size, qty := range sizes {
			if qty <= 0 {
				continue
			}
			items = append(items, domcart.Item{
				ProductID: productID,
				Size:      size,
				Quantity:  qty,
			})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].Size < items[j].Size
	})
	return items, nil
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, cartKey(userID)).Err()
}

func (r *CartRepository) load(ctx context.Context, userID int64) (cartData, error) {
	raw, err := r.client.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return make(cartData), nil
	}
	if err != nil {
		return nil, err
	}
	var data cartData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode cart for user %d: %w", userID, err)
	}
	return data, nil
}

func (r *CartRepository) store(ctx context.Context, userID int64, data cartData) error {
	if len(data) == 0 {
		return r.client.Del(ctx, cartKey(userID)).Err()
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKey(userID), raw, 0).Err()
}
