// Package money holds the price arithmetic shared by cart reads and checkout pricing.
package money

import "github.com/shopspring/decimal"

// Places is the number of decimal places prices are presented with.
const Places = 2

// Subtotal returns price × quantity at full precision.
func Subtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Round rounds to Places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Sum adds the given amounts without rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Float converts d for JSON responses.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
