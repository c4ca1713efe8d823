package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// FakeStoreClient reads the external product feed. The base URL points at the feed itself,
// e.g. https://fakestoreapi.com/products.
type FakeStoreClient struct{ c *Client }

func NewFakeStoreClient(c *Client) *FakeStoreClient { return &FakeStoreClient{c: c} }

type feedProduct struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

func (fc *FakeStoreClient) ListProducts(ctx context.Context) ([]catalog.NewProduct, error) {
	resp, err := fc.c.Do(ctx, http.MethodGet, "", "", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", fc.c.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Upstream: fc.c.Name, StatusCode: resp.StatusCode}
	}

	var rows []feedProduct
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", fc.c.Name, err)
	}

	products := make([]catalog.NewProduct, 0, len(rows))
	for _, r := range rows {
		products = append(products, catalog.NewProduct{
			Name:        r.Title,
			Price:       r.Price,
			Description: r.Description,
			Image:       r.Image,
		})
	}
	return products, nil
}
