package cart

import (
	"context"
	"errors"
)

// MaxQuantity caps a single cart line, including the sum of merged adds.
const MaxQuantity = 10_000

var (
	ErrNotFound = errors.New("cart line not found")
	// ErrQuantityLimit is returned by AddQuantity when the merged quantity would exceed
	// MaxQuantity. The line is left unchanged.
	ErrQuantityLimit = errors.New("cart line quantity limit exceeded")
)

// Store persists the shared cart's lines. Implementations must make AddQuantity atomic so
// concurrent adds of the same product are summed.
type Store interface {
	// Lines returns every line in ascending id order.
	Lines(ctx context.Context) ([]Line, error)
	// AddQuantity creates the product's line or increments the existing one by quantity,
	// failing with ErrQuantityLimit when the result would exceed MaxQuantity.
	AddQuantity(ctx context.Context, productID int64, quantity int) (Line, error)
	SetQuantity(ctx context.Context, lineID int64, quantity int) (Line, error)
	Remove(ctx context.Context, lineID int64) error
	// Clear removes every line and reports how many were deleted.
	Clear(ctx context.Context) (int64, error)
}
