package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	EUR Currency = "EUR" // Euro (default)
	USD Currency = "USD" // US Dollar
	GBP Currency = "GBP" // British Pound
	CHF Currency = "CHF" // Swiss Franc
)

// DefaultCurrency is the default currency for the engine
const DefaultCurrency = EUR

// RoundCents rounds an amount to two decimal places (half away from zero).
// The engine rounds at every aggregation step, not only at the end, to
// reproduce the rounding behavior of the upstream bookkeeping system.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FromFloat converts a raw float64 coming from an upstream parser into a
// two-decimal amount. Floats never travel further than the adapter edge.
func FromFloat(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

// WithinTolerance reports whether two amounts differ by at most tolerance.
// The boundary is inclusive: a difference exactly equal to the tolerance
// still passes.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// RateKey renders a tax rate for use in account-map keys and export columns:
// no decimal point for whole rates ("22", "10", "4"), trailing zeros trimmed
// otherwise ("4.5").
func RateKey(rate decimal.Decimal) string {
	s := rate.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// SumDecimals adds a series of amounts without intermediate rounding.
func SumDecimals(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
