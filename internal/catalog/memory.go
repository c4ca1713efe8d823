package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps the catalog in process memory. Ids are never reused, even across
// ReplaceAll, matching the BIGSERIAL behavior of the Postgres store.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[int64]Product
	nextID   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{products: make(map[int64]Product)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepository) GetMany(ctx context.Context, ids []int64) (map[int64]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *MemoryRepository) ReplaceAll(ctx context.Context, products []NewProduct) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make(map[int64]Product, len(products))
	for _, p := range products {
		r.insertLocked(p)
	}
	return len(products), nil
}

func (r *MemoryRepository) SeedIfEmpty(ctx context.Context, products []NewProduct) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.products) > 0 {
		return false, nil
	}
	for _, p := range products {
		r.insertLocked(p)
	}
	return true, nil
}

// Add inserts a single product and returns it with its assigned id.
func (r *MemoryRepository) Add(p NewProduct) Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(p)
}

func (r *MemoryRepository) insertLocked(p NewProduct) Product {
	r.nextID++
	product := Product{
		ID:          r.nextID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
	}
	r.products[product.ID] = product
	return product
}
