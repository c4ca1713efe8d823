package order

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = int64(len(r.orders) + 1)
	stored := *o
	stored.Items = append([]Line(nil), o.Items...)
	r.orders = append(r.orders, stored)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 1 || id > int64(len(r.orders)) {
		return Order{}, ErrNotFound
	}
	return clone(r.orders[id-1]), nil
}

func (r *MemoryRepository) List(ctx context.Context, limit int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, clone(o))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func clone(o Order) Order {
	o.Items = append([]Line(nil), o.Items...)
	return o
}
