package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
)

type PostgresStore struct {
	pool db.Conn
}

func NewPostgresStore(pool db.Conn) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Lines(ctx context.Context) ([]Line, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, product_id, quantity FROM cart_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}

func (s *PostgresStore) AddQuantity(ctx context.Context, productID int64, quantity int) (Line, error) {
	const upsertSQL = `
INSERT INTO cart_items (product_id, quantity)
VALUES ($1, $2)
ON CONFLICT (product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity
WHERE cart_items.quantity + EXCLUDED.quantity <= $3
RETURNING id, product_id, quantity
`
	if quantity > MaxQuantity {
		return Line{}, ErrQuantityLimit
	}

	var l Line
	err := s.pool.QueryRow(ctx, upsertSQL, productID, quantity, MaxQuantity).Scan(&l.ID, &l.ProductID, &l.Quantity)
	if err != nil {
		// the conflict branch's WHERE filtered the row out
		if errors.Is(err, pgx.ErrNoRows) {
			return Line{}, ErrQuantityLimit
		}
		return Line{}, fmt.Errorf("upsert cart item: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) SetQuantity(ctx context.Context, lineID int64, quantity int) (Line, error) {
	var l Line
	err := s.pool.QueryRow(ctx,
		`UPDATE cart_items SET quantity = $2 WHERE id = $1 RETURNING id, product_id, quantity`,
		lineID, quantity,
	).Scan(&l.ID, &l.ProductID, &l.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Line{}, ErrNotFound
		}
		return Line{}, fmt.Errorf("update cart item %d: %w", lineID, err)
	}
	return l, nil
}

func (s *PostgresStore) Remove(ctx context.Context, lineID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete cart item %d: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_items`)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return tag.RowsAffected(), nil
}
