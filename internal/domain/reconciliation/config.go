package reconciliation

import "github.com/shopspring/decimal"

// Config contains the tolerances for document matching.
type Config struct {
	// AmountTolerance is the maximum absolute amount difference for two
	// documents to land in the same candidate group. The boundary is
	// inclusive.
	AmountTolerance decimal.Decimal
	// DateToleranceDays is the window within which two document dates score
	// full date proximity. Beyond twice this window the pair is considered
	// too far apart.
	DateToleranceDays int
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:   decimal.NewFromFloat(0.05),
		DateToleranceDays: 30,
	}
}

// withDefaults fills unset fields with the default values.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AmountTolerance.LessThanOrEqual(decimal.Zero) {
		c.AmountTolerance = d.AmountTolerance
	}
	if c.DateToleranceDays <= 0 {
		c.DateToleranceDays = d.DateToleranceDays
	}
	return c
}
