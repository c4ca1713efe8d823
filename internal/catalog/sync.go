package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FeedClient fetches products from an external catalog feed.
type FeedClient interface {
	ListProducts(ctx context.Context) ([]NewProduct, error)
}

// FeedError marks failures reaching or decoding the external feed, as opposed to local
// storage failures.
type FeedError struct{ Err error }

func (e *FeedError) Error() string { return "catalog feed: " + e.Err.Error() }
func (e *FeedError) Unwrap() error { return e.Err }

type Syncer struct {
	repo   Repository
	feed   FeedClient
	logger *zap.Logger
}

func NewSyncer(repo Repository, feed FeedClient, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{repo: repo, feed: feed, logger: logger}
}

// Sync replaces the catalog with the feed's products. An empty feed leaves the catalog
// untouched and reports zero.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	products, err := s.feed.ListProducts(ctx)
	if err != nil {
		return 0, &FeedError{Err: err}
	}
	if len(products) == 0 {
		s.logger.Warn("catalog feed returned no products, keeping current catalog")
		return 0, nil
	}

	n, err := s.repo.ReplaceAll(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("replace catalog: %w", err)
	}

	s.logger.Info("catalog synced", zap.Int("count", n))
	return n, nil
}
