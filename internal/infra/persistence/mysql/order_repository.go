package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domorder "example.com/threadcart/app/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	addressJSON, err := json.Marshal(o.Address)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (user_id, address, amount, payment_method, payment_confirmed, payment_ref, status)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, o.UserID, addressJSON, o.Amount, o.PaymentMethod, o.PaymentConfirmed, o.PaymentRef, o.Status)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	orderID, _ := res.LastInsertId()

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, size, unit_price, quantity)
            VALUES (?, ?, ?, ?, ?, ?)
        `, orderID, item.ProductID, item.Name, item.Size, item.UnitPrice, item.Quantity)
		if err != nil {
			retErr = err
			return nil, retErr
		}
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}

	return r.GetByID(ctx, orderID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, address, amount, payment_method, payment_confirmed, payment_ref, status, created_at
        FROM orders WHERE id = ?
    `, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	items, err := r.listOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	return r.queryOrders(ctx, `
        SELECT id, user_id, address, amount, payment_method, payment_confirmed, payment_ref, status, created_at
        FROM orders WHERE user_id = ?
        ORDER BY id DESC
    `, userID)
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	return r.queryOrders(ctx, `
        SELECT id, user_id, address, amount, payment_method, payment_confirmed, payment_ref, status, created_at
        FROM orders
        ORDER BY id DESC
    `)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders SET status = ? WHERE id = ?
    `, status, id)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domorder.ErrOrderNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) SetPaymentRef(ctx context.Context, id int64, ref string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders SET payment_ref = ? WHERE id = ?
    `, ref, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domorder.ErrOrderNotFound
	}
	return nil
}

// ConfirmPayment is a conditional update; under concurrent duplicate
// callbacks only one caller observes true.
func (r *OrderRepository) ConfirmPayment(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders SET payment_confirmed = 1
        WHERE id = ? AND payment_confirmed = 0
    `, id)
	if err != nil {
		return false, err
	}
	rows, _ := res.RowsAffected()
	if rows == 1 {
		return true, nil
	}

	// No row changed: either already confirmed or missing entirely.
	var exists int64
	err = r.db.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domorder.ErrOrderNotFound
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domorder.ErrOrderNotFound
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id)
	return err
}

func (r *OrderRepository) ListUnconfirmed(ctx context.Context, method domorder.PaymentMethod, before time.Time) ([]*domorder.Order, error) {
	return r.queryOrders(ctx, `
        SELECT id, user_id, address, amount, payment_method, payment_confirmed, payment_ref, status, created_at
        FROM orders
        WHERE payment_method = ? AND payment_confirmed = 0 AND status = ? AND created_at < ?
        ORDER BY id
    `, method, domorder.StatusPlaced, before)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items, err := r.listOrderItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domorder.Order, error) {
	var o domorder.Order
	var addressJSON []byte
	err := row.Scan(&o.ID, &o.UserID, &addressJSON, &o.Amount, &o.PaymentMethod,
		&o.PaymentConfirmed, &o.PaymentRef, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	if len(addressJSON) > 0 {
		if err := json.Unmarshal(addressJSON, &o.Address); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID int64) ([]domorder.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, product_name, size, unit_price, quantity
        FROM order_items WHERE order_id = ?
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.OrderItem
	for rows.Next() {
		var item domorder.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Size, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
