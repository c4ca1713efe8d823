package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
)

// ClearFunc empties the whole cart. It is only handed out inside Manager.Exclusive.
type ClearFunc func(ctx context.Context) (int64, error)

// Manager owns the single process-wide cart.
//
// Mutations and reads share mu's read side and rely on the Store for per-row atomicity.
// Exclusive takes the write side, so while a checkout holds it no mutation is accepted and
// no reader can observe a partially cleared cart.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	catalog catalog.Reader
	logger  *zap.Logger
}

func NewManager(store Store, products catalog.Reader, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, catalog: products, logger: logger}
}

// AddItem merges quantity into the product's line, creating it when absent.
func (m *Manager) AddItem(ctx context.Context, productID int64, quantity int) (Line, error) {
	if err := checkQuantity(quantity); err != nil {
		return Line{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := m.catalog.Get(ctx, productID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Line{}, apperr.NotFound("product %d not found", productID)
		}
		return Line{}, m.storageError("read product", err)
	}

	line, err := m.store.AddQuantity(ctx, productID, quantity)
	if err != nil {
		if errors.Is(err, ErrQuantityLimit) {
			return Line{}, apperr.InvalidArgument("quantity for product %d would exceed %d", productID, MaxQuantity)
		}
		return Line{}, m.storageError("add cart item", err)
	}
	return line, nil
}

// UpdateQuantity sets a line's absolute quantity. A quantity below 1 removes the line, in
// which case removed is true.
func (m *Manager) UpdateQuantity(ctx context.Context, lineID int64, quantity int) (line Line, removed bool, err error) {
	if quantity < 1 {
		if err := m.RemoveItem(ctx, lineID); err != nil {
			return Line{}, false, err
		}
		return Line{ID: lineID}, true, nil
	}
	if quantity > MaxQuantity {
		return Line{}, false, apperr.InvalidArgument("quantity must be at most %d, got %d", MaxQuantity, quantity)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	line, err = m.store.SetQuantity(ctx, lineID, quantity)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Line{}, false, apperr.NotFound("cart line %d not found", lineID)
		}
		return Line{}, false, m.storageError("update cart item", err)
	}
	return line, false, nil
}

func (m *Manager) RemoveItem(ctx context.Context, lineID int64) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.store.Remove(ctx, lineID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("cart line %d not found", lineID)
		}
		return m.storageError("remove cart item", err)
	}
	return nil
}

// GetCart joins the stored lines with live product prices. Lines whose product no longer
// exists are left out of both the items and the total.
func (m *Manager) GetCart(ctx context.Context) (Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines, err := m.store.Lines(ctx)
	if err != nil {
		return Cart{}, m.storageError("read cart", err)
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := m.catalog.GetMany(ctx, ids)
	if err != nil {
		return Cart{}, m.storageError("read products", err)
	}

	c := Cart{Items: make([]Item, 0, len(lines))}
	subtotals := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			m.logger.Debug("hiding cart line for missing product",
				zap.Int64("line_id", l.ID), zap.Int64("product_id", l.ProductID))
			continue
		}
		sub := money.Subtotal(p.Price, l.Quantity)
		c.Items = append(c.Items, Item{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Image:       p.Image,
			Subtotal:    sub,
		})
		subtotals = append(subtotals, sub)
	}
	c.Total = money.Round(money.Sum(subtotals...))
	return c, nil
}

// Exclusive runs fn with every other cart operation held off. clear is valid only for the
// duration of fn.
func (m *Manager) Exclusive(ctx context.Context, fn func(ctx context.Context, clear ClearFunc) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear := func(ctx context.Context) (int64, error) {
		n, err := m.store.Clear(ctx)
		if err != nil {
			return 0, m.storageError("clear cart", err)
		}
		return n, nil
	}
	return fn(ctx, clear)
}

func checkQuantity(quantity int) error {
	if quantity < 1 {
		return apperr.InvalidArgument("quantity must be at least 1, got %d", quantity)
	}
	if quantity > MaxQuantity {
		return apperr.InvalidArgument("quantity must be at most %d, got %d", MaxQuantity, quantity)
	}
	return nil
}

func (m *Manager) storageError(msg string, err error) error {
	m.logger.Error(msg, zap.Error(err))
	return apperr.Storage(msg, err)
}
