package httpapi

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.cart.GetCart(ctx)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var body addToCartRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeAppError(w, r, err)
		return
	}
	qty, ok := body.quantity()
	if body.ProductID <= 0 || !ok {
		h.writeAppError(w, r, apperr.InvalidArgument("productId and quantity (>= 1) are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	line, err := h.cart.AddItem(ctx, body.ProductID, qty)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	msg := "Item added to cart"
	if line.Quantity != qty {
		msg = "Cart updated"
	}
	writeJSON(w, http.StatusOK, addToCartResponse{
		Message:   msg,
		ID:        line.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
	})
}

func (h *Handler) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "lineId")
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	var body updateCartLineRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeAppError(w, r, err)
		return
	}
	if body.Quantity == nil {
		h.writeAppError(w, r, apperr.InvalidArgument("quantity is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	line, removed, err := h.cart.UpdateQuantity(ctx, lineID, *body.Quantity)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	if removed {
		writeJSON(w, http.StatusOK, updateCartLineResponse{Message: "Item removed from cart", Quantity: 0, Removed: true})
		return
	}
	writeJSON(w, http.StatusOK, updateCartLineResponse{Message: "Cart item updated", Quantity: line.Quantity})
}

func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "lineId")
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.cart.RemoveItem(ctx, lineID); err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item removed from cart"})
}
