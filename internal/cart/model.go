package cart

import "github.com/shopspring/decimal"

// Line is a stored cart row. There is at most one Line per product.
type Line struct {
	ID        int64
	ProductID int64
	Quantity  int
}

// Item is a Line joined with its live catalog product. Subtotal keeps full precision.
type Item struct {
	ID          int64
	ProductID   int64
	Quantity    int
	Name        string
	Price       decimal.Decimal
	Description string
	Image       string
	Subtotal    decimal.Decimal
}

// Cart is the materialized shared cart. Total is rounded to cents; items are in line id order.
type Cart struct {
	Items []Item
	Total decimal.Decimal
}
