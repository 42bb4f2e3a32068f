package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/storefront-cart/internal/readmodel"
)

// PostgresCheckoutStore keeps checkout history in read_checkouts
type PostgresCheckoutStore struct {
	db *sql.DB
}

func NewPostgresCheckoutStore(db *sql.DB) *PostgresCheckoutStore {
	return &PostgresCheckoutStore{db: db}
}

func (s *PostgresCheckoutStore) Save(ctx context.Context, c *readmodel.CheckoutReadModel) error {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("encode checkout items: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO read_checkouts (order_id, user_id, amount, order_label, items, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO NOTHING
	`, c.OrderID, c.UserID, c.Amount, c.OrderLabel, string(items), c.RequestedAt)
	if err != nil {
		return fmt.Errorf("save checkout %s: %w", c.OrderID, err)
	}
	return nil
}

func (s *PostgresCheckoutStore) Get(ctx context.Context, orderID string) (*readmodel.CheckoutReadModel, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT order_id, user_id, amount, order_label, items, requested_at
		FROM read_checkouts
		WHERE order_id = $1
	`, orderID)
	c, err := scanCheckout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCheckoutNotFound
	}
	return c, err
}

func (s *PostgresCheckoutStore) ListByUser(ctx context.Context, userID string) ([]*readmodel.CheckoutReadModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, user_id, amount, order_label, items, requested_at
		FROM read_checkouts
		WHERE user_id = $1
		ORDER BY requested_at DESC, order_id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*readmodel.CheckoutReadModel, 0)
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckout(row rowScanner) (*readmodel.CheckoutReadModel, error) {
	var c readmodel.CheckoutReadModel
	var items []byte
	if err := row.Scan(&c.OrderID, &c.UserID, &c.Amount, &c.OrderLabel, &items, &c.RequestedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &c.Items); err != nil {
		return nil, fmt.Errorf("decode checkout items: %w", err)
	}
	return &c, nil
}
