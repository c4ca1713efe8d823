package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

// LineRequest is one client-submitted purchase line. Prices are never taken from the client.
type LineRequest struct {
	ProductID int64
	Quantity  int
}

type Request struct {
	Lines         []LineRequest
	CustomerName  string
	CustomerEmail string
}

type Receipt struct {
	OrderID       int64
	CustomerName  string
	CustomerEmail string
	Items         []order.Line
	Total         decimal.Decimal
	Timestamp     time.Time
}
