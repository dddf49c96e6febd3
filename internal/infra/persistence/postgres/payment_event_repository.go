package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentEvent struct {
	ID        int64
	OrderID   int64
	Event     string
	Detail    string
	CreatedAt time.Time
}

// PaymentEventRepository is an append-only audit trail for payment state
// transitions. It lives in Postgres, separate from the order store, so a
// hosted-path deletion still leaves a durable trace.
type PaymentEventRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentEventRepository(ctx context.Context, dsn string) (*PaymentEventRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PaymentEventRepository{pool: pool}
	if err := r.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *PaymentEventRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS payment_events (
            id         BIGSERIAL PRIMARY KEY,
            order_id   BIGINT NOT NULL,
            event      TEXT NOT NULL,
            detail     TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("ensure payment_events schema: %w", err)
	}
	return nil
}

func (r *PaymentEventRepository) Record(ctx context.Context, orderID int64, event string, detail string) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO payment_events (order_id, event, detail)
        VALUES ($1, $2, $3)
    `, orderID, event, detail)
	return err
}

// ListByOrder returns the trail for one order, oldest first.
func (r *PaymentEventRepository) ListByOrder(ctx context.Context, orderID int64) ([]PaymentEvent, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, order_id, event, detail, created_at
        FROM payment_events WHERE order_id = $1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []PaymentEvent
	for rows.Next() {
		var e PaymentEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Event, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PaymentEventRepository) Close() {
	r.pool.Close()
}
