package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 200
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := defaultOrderLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeAppError(w, r, apperr.InvalidArgument("limit must be a positive integer, got %q", raw))
			return
		}
		limit = min(n, maxOrderLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders, err := h.orders.List(ctx, limit)
	if err != nil {
		h.writeAppError(w, r, apperr.Storage("failed to fetch orders", err))
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderId")
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	o, err := h.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			h.writeAppError(w, r, apperr.NotFound("order %d not found", id))
			return
		}
		h.writeAppError(w, r, apperr.Storage("failed to fetch order", err))
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
