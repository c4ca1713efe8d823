package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
)

var ErrNotFound = errors.New("product not found")

// Reader is the read-only view the cart and checkout need.
type Reader interface {
	Get(ctx context.Context, id int64) (Product, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]Product, error)
}

type Repository interface {
	Reader
	List(ctx context.Context) ([]Product, error)
	// ReplaceAll swaps the whole catalog for products and returns how many rows were written.
	ReplaceAll(ctx context.Context, products []NewProduct) (int, error)
	// SeedIfEmpty inserts products only when the catalog has no rows.
	SeedIfEmpty(ctx context.Context, products []NewProduct) (bool, error)
}

const productColumns = `id, name, price, COALESCE(description, ''), COALESCE(image, '')`

type PostgresRepository struct {
	pool db.Conn
}

func NewPostgresRepository(pool db.Conn) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product %d: %w", id, err)
	}
	return p, nil
}

// GetMany returns the products that exist among ids; missing ids are simply absent.
func (r *PostgresRepository) GetMany(ctx context.Context, ids []int64) (map[int64]Product, error) {
	out := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PostgresRepository) ReplaceAll(ctx context.Context, products []NewProduct) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return 0, fmt.Errorf("clear products: %w", err)
	}
	if err := insertProducts(ctx, tx, products); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(products), nil
}

func (r *PostgresRepository) SeedIfEmpty(ctx context.Context, products []NewProduct) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := insertProducts(ctx, tx, products); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func insertProducts(ctx context.Context, tx pgx.Tx, products []NewProduct) error {
	for _, p := range products {
		_, err := tx.Exec(ctx,
			`INSERT INTO products (name, price, description, image) VALUES ($1, $2, $3, $4)`,
			p.Name, p.Price, nullable(p.Description), nullable(p.Image),
		)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
