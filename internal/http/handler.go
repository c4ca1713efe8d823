// Package httpapi is the JSON-over-HTTP binding of the storefront.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

const requestTimeout = 3 * time.Second

type CartService interface {
	AddItem(ctx context.Context, productID int64, quantity int) (cart.Line, error)
	UpdateQuantity(ctx context.Context, lineID int64, quantity int) (cart.Line, bool, error)
	RemoveItem(ctx context.Context, lineID int64) error
	GetCart(ctx context.Context) (cart.Cart, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, req checkout.Request) (checkout.Receipt, error)
}

type CatalogSyncer interface {
	Sync(ctx context.Context) (int, error)
}

type Deps struct {
	Logger   *zap.Logger
	Products catalog.Repository
	Syncer   CatalogSyncer
	Cart     CartService
	Checkout CheckoutService
	Orders   order.Repository
}

type Handler struct {
	logger   *zap.Logger
	products catalog.Repository
	syncer   CatalogSyncer
	cart     CartService
	checkout CheckoutService
	orders   order.Repository
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:   logger,
		products: d.Products,
		syncer:   d.Syncer,
		cart:     d.Cart,
		checkout: d.Checkout,
		orders:   d.Orders,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "storefront-service"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:         msg,
		Code:          code,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// writeAppError renders err using its apperr kind. Storage and internal causes are logged,
// never returned to the caller.
func (h *Handler) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, r, status, string(kind), apperr.Message(err))
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidArgument("invalid json")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidArgument("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}
