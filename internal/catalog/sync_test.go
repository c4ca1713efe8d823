package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	products []NewProduct
	err      error
}

func (f fakeFeed) ListProducts(ctx context.Context) ([]NewProduct, error) {
	return f.products, f.err
}

type failingReplace struct{ *MemoryRepository }

func (failingReplace) ReplaceAll(ctx context.Context, products []NewProduct) (int, error) {
	return 0, errors.New("disk full")
}

func TestSyncer_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces catalog", func(t *testing.T) {
		repo := NewMemoryRepository()
		_, _ = repo.SeedIfEmpty(ctx, DemoProducts())

		s := NewSyncer(repo, fakeFeed{products: []NewProduct{
			{Name: "Backpack", Price: decimal.RequireFromString("109.95")},
			{Name: "Shirt", Price: decimal.RequireFromString("22.30")},
		}}, nil)

		n, err := s.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		all, _ := repo.List(ctx)
		require.Len(t, all, 2)
		assert.Equal(t, "Backpack", all[0].Name)
	})

	t.Run("empty feed keeps catalog", func(t *testing.T) {
		repo := NewMemoryRepository()
		_, _ = repo.SeedIfEmpty(ctx, DemoProducts())

		n, err := NewSyncer(repo, fakeFeed{}, nil).Sync(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		all, _ := repo.List(ctx)
		assert.Len(t, all, 8)
	})

	t.Run("feed failure is a FeedError", func(t *testing.T) {
		repo := NewMemoryRepository()
		_, _ = repo.SeedIfEmpty(ctx, DemoProducts())

		_, err := NewSyncer(repo, fakeFeed{err: errors.New("dial tcp: timeout")}, nil).Sync(ctx)
		var fe *FeedError
		require.ErrorAs(t, err, &fe)

		all, _ := repo.List(ctx)
		assert.Len(t, all, 8)
	})

	t.Run("storage failure is not a FeedError", func(t *testing.T) {
		repo := failingReplace{NewMemoryRepository()}
		_, err := NewSyncer(repo, fakeFeed{products: []NewProduct{{Name: "X"}}}, nil).Sync(ctx)
		require.Error(t, err)

		var fe *FeedError
		assert.False(t, errors.As(err, &fe))
	})
}
