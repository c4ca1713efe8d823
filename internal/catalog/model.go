package catalog

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
	Image       string
}

// NewProduct is a catalog row before the store assigns it an id.
type NewProduct struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Image       string
}
