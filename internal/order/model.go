package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is the product as it was priced at checkout. Later catalog changes never touch it.
type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	Total         decimal.Decimal
	Items         []Line
	CreatedAt     time.Time
}
