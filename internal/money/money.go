package money

import (
	"github.com/shopspring/decimal"
)

// DecimalPlaces all monetary values are rounded to
const DecimalPlaces = 2

// Round rounds a monetary value to DecimalPlaces, half away from zero.
// Must be applied exactly once per computed value: round the final
// difference or the final derived price, never intermediate results.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DecimalPlaces)
}
