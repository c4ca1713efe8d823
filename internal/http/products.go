package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		h.writeAppError(w, r, apperr.Storage("failed to fetch products", err))
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.writeAppError(w, r, apperr.NotFound("product %d not found", id))
			return
		}
		h.writeAppError(w, r, apperr.Storage("failed to fetch product", err))
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// SyncCatalog replaces the catalog from the external feed. Feed failures answer 502; the
// cart and orders are never touched.
func (h *Handler) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := h.syncer.Sync(r.Context())
	if err != nil {
		var fe *catalog.FeedError
		if errors.As(err, &fe) {
			h.logger.Warn("catalog sync failed", zap.Error(err))
			writeError(w, r, http.StatusBadGateway, "UPSTREAM_FAILURE", "failed to fetch catalog feed")
			return
		}
		h.writeAppError(w, r, apperr.Storage("failed to replace catalog", err))
		return
	}

	msg := fmt.Sprintf("Successfully synced %d products", n)
	if n == 0 {
		msg = "No products found in catalog feed"
	}
	writeJSON(w, http.StatusOK, syncResponse{Message: msg, Count: n})
}
