package httpapi

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
)

// Checkout answers 200 with the receipt whenever an order was placed, including when the
// cart could not be emptied afterwards; that case carries a warning.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var body checkoutRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	ctx := events.WithMetadata(r.Context(), events.EnvelopeMetadata{
		CorrelationID: middleware.GetCorrelationID(r.Context()),
		CausationID:   chimw.GetReqID(r.Context()),
	})

	receipt, err := h.checkout.Checkout(ctx, body.toDomain())
	if err != nil && !errors.Is(err, checkout.ErrCartNotCleared) {
		h.writeAppError(w, r, err)
		return
	}

	resp := toReceiptResponse(receipt)
	if err != nil {
		resp.Warning = "order placed but the cart could not be cleared"
	}
	writeJSON(w, http.StatusOK, resp)
}
