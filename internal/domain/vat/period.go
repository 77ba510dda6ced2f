package vat

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared"
)

// Regime selects the VAT liquidation cadence.
type Regime string

const (
	RegimeMonthly   Regime = "MONTHLY"
	RegimeQuarterly Regime = "QUARTERLY"
)

// IsValid checks if the regime is valid
func (r Regime) IsValid() bool {
	switch r {
	case RegimeMonthly, RegimeQuarterly:
		return true
	}
	return false
}

// String returns the string representation
func (r Regime) String() string {
	return string(r)
}

// Label returns the Italian label used by the liquidation export.
func (r Regime) Label() string {
	if r == RegimeQuarterly {
		return "Trimestrale"
	}
	return "Mensile"
}

var (
	monthlyPeriodPattern   = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	quarterlyPeriodPattern = regexp.MustCompile(`^(\d{4})-Q([1-4])$`)
)

// Period is a parsed liquidation period: a calendar month under the monthly
// regime, a calendar quarter under the quarterly one.
type Period struct {
	Year    int
	Month   time.Month // set under RegimeMonthly
	Quarter int        // set under RegimeQuarterly
	Regime  Regime
}

// ParsePeriod parses "YYYY-MM" (monthly) or "YYYY-Qn" (quarterly) according
// to the regime. Quarter n covers months 3(n-1)+1 through 3n.
func ParsePeriod(s string, regime Regime) (Period, error) {
	switch regime {
	case RegimeMonthly:
		m := monthlyPeriodPattern.FindStringSubmatch(s)
		if m == nil {
			return Period{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidPeriod,
				fmt.Sprintf("Monthly period must be YYYY-MM, got %q", s),
				map[string]any{"period": s, "regime": regime.String()})
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return Period{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidPeriod,
				fmt.Sprintf("Month out of range in period %q", s),
				map[string]any{"period": s, "month": month})
		}
		return Period{Year: year, Month: time.Month(month), Regime: RegimeMonthly}, nil
	case RegimeQuarterly:
		m := quarterlyPeriodPattern.FindStringSubmatch(s)
		if m == nil {
			return Period{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidPeriod,
				fmt.Sprintf("Quarterly period must be YYYY-Qn, got %q", s),
				map[string]any{"period": s, "regime": regime.String()})
		}
		year, _ := strconv.Atoi(m[1])
		quarter, _ := strconv.Atoi(m[2])
		return Period{Year: year, Quarter: quarter, Regime: RegimeQuarterly}, nil
	default:
		return Period{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidPeriod,
			fmt.Sprintf("Unknown regime %q", regime),
			map[string]any{"regime": regime.String()})
	}
}

// String renders the period back into its canonical form.
func (p Period) String() string {
	if p.Regime == RegimeQuarterly {
		return fmt.Sprintf("%04d-Q%d", p.Year, p.Quarter)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start returns the first day of the period.
func (p Period) Start() time.Time {
	month := p.Month
	if p.Regime == RegimeQuarterly {
		month = time.Month(3*(p.Quarter-1) + 1)
	}
	return time.Date(p.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the period.
func (p Period) End() time.Time {
	month := p.Month
	if p.Regime == RegimeQuarterly {
		month = time.Month(3 * p.Quarter)
	}
	// day 0 of the following month is the last day of this one
	return time.Date(p.Year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

// DueDate returns the settlement deadline: the 16th of the month following
// the period end.
func (p Period) DueDate() time.Time {
	end := p.End()
	return time.Date(end.Year(), end.Month()+1, 16, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start()) && !t.After(p.End().Add(24*time.Hour-time.Nanosecond))
}
