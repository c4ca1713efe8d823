package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
)

var ErrNotFound = errors.New("order not found")

// Repository is append-only: orders are created once and never updated or deleted.
type Repository interface {
	// Create persists o and sets its ID.
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (Order, error)
	// List returns up to limit orders, newest first.
	List(ctx context.Context, limit int) ([]Order, error)
}

const orderColumns = `id, customer_name, customer_email, total, items, created_at`

type PostgresRepository struct {
	pool db.Conn
}

func NewPostgresRepository(pool db.Conn) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO orders (customer_name, customer_email, total, items, created_at)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id`,
		o.CustomerName, o.CustomerEmail, o.Total, items, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("select order %d: %w", id, err)
	}
	return o, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o     Order
		items []byte
	)
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Total, &items, &o.CreatedAt); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, fmt.Errorf("unmarshal order %d items: %w", o.ID, err)
	}
	return o, nil
}
