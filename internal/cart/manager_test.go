package cart

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

type fixture struct {
	manager  *Manager
	store    *MemoryStore
	products *catalog.MemoryRepository
	a, b     catalog.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	products := catalog.NewMemoryRepository()
	a := products.Add(catalog.NewProduct{Name: "A", Price: decimal.RequireFromString("10.00")})
	b := products.Add(catalog.NewProduct{Name: "B", Price: decimal.RequireFromString("5.50")})
	store := NewMemoryStore()
	return fixture{
		manager:  NewManager(store, products, zaptest.NewLogger(t)),
		store:    store,
		products: products,
		a:        a,
		b:        b,
	}
}

func TestManager_AddItemMerges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.manager.AddItem(ctx, f.a.ID, 2)
	require.NoError(t, err)
	second, err := f.manager.AddItem(ctx, f.a.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	c, err := f.manager.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestManager_AddItemValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := map[string]struct {
		productID int64
		quantity  int
		want      error
	}{
		"zero quantity":     {productID: f.a.ID, quantity: 0, want: apperr.ErrInvalidArgument},
		"negative quantity": {productID: f.a.ID, quantity: -2, want: apperr.ErrInvalidArgument},
		"unknown product":   {productID: 999, quantity: 1, want: apperr.ErrNotFound},
		"above the cap":     {productID: f.a.ID, quantity: MaxQuantity + 1, want: apperr.ErrInvalidArgument},
		"max int":           {productID: f.a.ID, quantity: math.MaxInt, want: apperr.ErrInvalidArgument},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.manager.AddItem(ctx, tt.productID, tt.quantity)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	lines, err := f.store.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestManager_MergedQuantityLimit(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		first, second int
		wantErr       bool
		wantQuantity  int
	}{
		"reaches the cap exactly": {first: MaxQuantity - 1, second: 1, wantQuantity: MaxQuantity},
		"one over the cap":        {first: MaxQuantity, second: 1, wantErr: true, wantQuantity: MaxQuantity},
		"both halves large":       {first: 6000, second: 6000, wantErr: true, wantQuantity: 6000},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.manager.AddItem(ctx, f.a.ID, tt.first)
			require.NoError(t, err)

			_, err = f.manager.AddItem(ctx, f.a.ID, tt.second)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
			} else {
				require.NoError(t, err)
			}

			c, err := f.manager.GetCart(ctx)
			require.NoError(t, err)
			require.Len(t, c.Items, 1)
			assert.Equal(t, tt.wantQuantity, c.Items[0].Quantity)
			assert.True(t, c.Total.IsPositive())
		})
	}
}

func TestManager_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("sets absolute quantity", func(t *testing.T) {
		f := newFixture(t)
		line, _ := f.manager.AddItem(ctx, f.a.ID, 2)

		updated, removed, err := f.manager.UpdateQuantity(ctx, line.ID, 7)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 7, updated.Quantity)
	})

	for _, qty := range []int{0, -1} {
		t.Run("below one removes", func(t *testing.T) {
			f := newFixture(t)
			line, _ := f.manager.AddItem(ctx, f.a.ID, 2)

			_, removed, err := f.manager.UpdateQuantity(ctx, line.ID, qty)
			require.NoError(t, err)
			assert.True(t, removed)

			lines, _ := f.store.Lines(ctx)
			assert.Empty(t, lines)
		})
	}

	t.Run("above the cap", func(t *testing.T) {
		f := newFixture(t)
		line, _ := f.manager.AddItem(ctx, f.a.ID, 2)

		_, _, err := f.manager.UpdateQuantity(ctx, line.ID, MaxQuantity+1)
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

		lines, _ := f.store.Lines(ctx)
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("unknown line", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.manager.UpdateQuantity(ctx, 404, 3)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, _, err = f.manager.UpdateQuantity(ctx, 404, 0)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestManager_RemoveItemTwice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	line, _ := f.manager.AddItem(ctx, f.a.ID, 1)

	require.NoError(t, f.manager.RemoveItem(ctx, line.ID))
	err := f.manager.RemoveItem(ctx, line.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, apperr.Message(err), "cart line")
}

func TestManager_GetCartTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.manager.AddItem(ctx, f.a.ID, 2)
	require.NoError(t, err)
	_, err = f.manager.AddItem(ctx, f.b.ID, 1)
	require.NoError(t, err)

	c, err := f.manager.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "25.50", c.Total.StringFixed(2))
	assert.Equal(t, f.a.ID, c.Items[0].ProductID)
	assert.Equal(t, "20.00", c.Items[0].Subtotal.StringFixed(2))
	assert.Less(t, c.Items[0].ID, c.Items[1].ID)
}

func TestManager_GetCartRoundsOnlyTheTotal(t *testing.T) {
	ctx := context.Background()
	products := catalog.NewMemoryRepository()
	p := products.Add(catalog.NewProduct{Name: "Third", Price: decimal.RequireFromString("0.335")})
	m := NewManager(NewMemoryStore(), products, nil)

	_, err := m.AddItem(ctx, p.ID, 3)
	require.NoError(t, err)

	c, err := m.GetCart(ctx)
	require.NoError(t, err)
	assert.True(t, c.Items[0].Subtotal.Equal(decimal.RequireFromString("1.005")))
	assert.Equal(t, "1.01", c.Total.StringFixed(2))
}

func TestManager_GetCartUsesLivePrices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _ = f.manager.AddItem(ctx, f.a.ID, 2)

	// a sync replaces the catalog; the old product id disappears
	_, err := f.products.ReplaceAll(ctx, []catalog.NewProduct{{Name: "C", Price: decimal.NewFromInt(3)}})
	require.NoError(t, err)

	c, err := f.manager.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestManager_ConcurrentAddsAreSummed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.manager.AddItem(ctx, f.a.ID, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines, err := f.store.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, workers*2, lines[0].Quantity)
}

func TestManager_TotalMatchesItemsUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.manager.AddItem(ctx, f.a.ID, 1)
			_, _ = f.manager.AddItem(ctx, f.b.ID, 1)
		}()
		go func() {
			defer wg.Done()
			c, err := f.manager.GetCart(ctx)
			if !assert.NoError(t, err) {
				return
			}
			sum := decimal.Zero
			for _, it := range c.Items {
				sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
			assert.True(t, sum.Round(2).Equal(c.Total), "total %s items %s", c.Total, sum)
		}()
	}
	wg.Wait()
}

func TestManager_ExclusiveBlocksMutations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _ = f.manager.AddItem(ctx, f.a.ID, 1)

	entered := make(chan struct{})
	release := make(chan struct{})
	exclusiveDone := make(chan error, 1)

	go func() {
		exclusiveDone <- f.manager.Exclusive(ctx, func(ctx context.Context, clear ClearFunc) error {
			close(entered)
			<-release
			n, err := clear(ctx)
			if err != nil {
				return err
			}
			if n != 1 {
				return errors.New("expected one cleared line")
			}
			return nil
		})
	}()
	<-entered

	addDone := make(chan struct{})
	go func() {
		defer close(addDone)
		_, err := f.manager.AddItem(ctx, f.b.ID, 4)
		assert.NoError(t, err)
	}()

	select {
	case <-addDone:
		t.Fatal("AddItem completed while the cart was held exclusively")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-exclusiveDone)
	<-addDone

	// the add lands after the clear, so it survives
	c, err := f.manager.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, f.b.ID, c.Items[0].ProductID)
}

type failingStore struct {
	*MemoryStore
	clearErr error
}

func (s failingStore) Clear(ctx context.Context) (int64, error) { return 0, s.clearErr }

func TestManager_ClearFailureIsStorageError(t *testing.T) {
	ctx := context.Background()
	products := catalog.NewMemoryRepository()
	m := NewManager(failingStore{MemoryStore: NewMemoryStore(), clearErr: errors.New("io")}, products, nil)

	err := m.Exclusive(ctx, func(ctx context.Context, clear ClearFunc) error {
		_, err := clear(ctx)
		return err
	})
	assert.ErrorIs(t, err, apperr.ErrStorageFailure)
}
