package httpapi

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

type errorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code"`
	CorrelationID string `json:"correlationId,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       money.Float(p.Price),
		Description: p.Description,
		Image:       p.Image,
	}
}

type syncResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// addToCartRequest accepts the legacy "qty" field as well as "quantity".
type addToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  *int  `json:"quantity"`
	Qty       *int  `json:"qty"`
}

func (r addToCartRequest) quantity() (int, bool) {
	switch {
	case r.Quantity != nil:
		return *r.Quantity, true
	case r.Qty != nil:
		return *r.Qty, true
	default:
		return 0, false
	}
}

type addToCartResponse struct {
	Message   string `json:"message"`
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartLineRequest struct {
	Quantity *int `json:"quantity"`
}

type updateCartLineResponse struct {
	Message  string `json:"message"`
	Quantity int    `json:"quantity"`
	Removed  bool   `json:"removed,omitempty"`
}

// cartItemResponse carries product_id next to productId for clients that build checkout lines
// from the snake_case field.
type cartItemResponse struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"productId"`
	LegacyProductID int64   `json:"product_id"`
	Quantity        int     `json:"quantity"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Description     string  `json:"description,omitempty"`
	Image           string  `json:"image,omitempty"`
	Subtotal        float64 `json:"subtotal"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

func toCartResponse(c cart.Cart) cartResponse {
	resp := cartResponse{
		Items: make([]cartItemResponse, 0, len(c.Items)),
		Total: money.Float(c.Total),
	}
	for _, it := range c.Items {
		resp.Items = append(resp.Items, cartItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			LegacyProductID: it.ProductID,
			Quantity:        it.Quantity,
			Name:            it.Name,
			Price:           money.Float(it.Price),
			Description:     it.Description,
			Image:           it.Image,
			Subtotal:        money.Float(it.Subtotal),
		})
	}
	return resp
}

type checkoutLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// checkoutRequest accepts the legacy "cartItems" field as well as "lines".
type checkoutRequest struct {
	Lines         []checkoutLine `json:"lines"`
	CartItems     []checkoutLine `json:"cartItems"`
	CustomerName  string         `json:"customerName"`
	CustomerEmail string         `json:"customerEmail"`
}

func (r checkoutRequest) toDomain() checkout.Request {
	lines := r.Lines
	if len(lines) == 0 {
		lines = r.CartItems
	}
	req := checkout.Request{
		Lines:         make([]checkout.LineRequest, 0, len(lines)),
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
	}
	for _, l := range lines {
		req.Lines = append(req.Lines, checkout.LineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return req
}

type orderLineResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

func toOrderLines(lines []order.Line) []orderLineResponse {
	out := make([]orderLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, orderLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     money.Float(l.Price),
			Quantity:  l.Quantity,
			Subtotal:  money.Float(l.Subtotal),
		})
	}
	return out
}

type receiptResponse struct {
	OrderID       int64               `json:"orderId"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	Items         []orderLineResponse `json:"items"`
	Total         float64             `json:"total"`
	Timestamp     time.Time           `json:"timestamp"`
	Warning       string              `json:"warning,omitempty"`
}

func toReceiptResponse(r checkout.Receipt) receiptResponse {
	return receiptResponse{
		OrderID:       r.OrderID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Items:         toOrderLines(r.Items),
		Total:         money.Float(r.Total),
		Timestamp:     r.Timestamp,
	}
}

type orderResponse struct {
	ID            int64               `json:"id"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	Total         float64             `json:"total"`
	Items         []orderLineResponse `json:"items"`
	CreatedAt     time.Time           `json:"createdAt"`
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Total:         money.Float(o.Total),
		Items:         toOrderLines(o.Items),
		CreatedAt:     o.CreatedAt,
	}
}
