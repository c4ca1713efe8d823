package cart

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu        sync.Mutex
	lines     map[int64]Line
	byProduct map[int64]int64
	nextID    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lines:     make(map[int64]Line),
		byProduct: make(map[int64]int64),
	}
}

func (s *MemoryStore) Lines(ctx context.Context) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) AddQuantity(ctx context.Context, productID int64, quantity int) (Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byProduct[productID]; ok {
		l := s.lines[id]
		if quantity > MaxQuantity-l.Quantity {
			return Line{}, ErrQuantityLimit
		}
		l.Quantity += quantity
		s.lines[id] = l
		return l, nil
	}

	if quantity > MaxQuantity {
		return Line{}, ErrQuantityLimit
	}
	s.nextID++
	l := Line{ID: s.nextID, ProductID: productID, Quantity: quantity}
	s.lines[l.ID] = l
	s.byProduct[productID] = l.ID
	return l, nil
}

func (s *MemoryStore) SetQuantity(ctx context.Context, lineID int64, quantity int) (Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lines[lineID]
	if !ok {
		return Line{}, ErrNotFound
	}
	l.Quantity = quantity
	s.lines[lineID] = l
	return l, nil
}

func (s *MemoryStore) Remove(ctx context.Context, lineID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lines[lineID]
	if !ok {
		return ErrNotFound
	}
	delete(s.lines, lineID)
	delete(s.byProduct, l.ProductID)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.lines))
	s.lines = make(map[int64]Line)
	s.byProduct = make(map[int64]int64)
	return n, nil
}
