package vat

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/document"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared/valueobject"
)

// DefaultLargeAmountThreshold flags liquidations whose magnitude warrants a
// manual look before settlement.
var DefaultLargeAmountThreshold = decimal.NewFromInt(50000)

// VatBucket accumulates taxable and tax totals for one rate within one
// direction.
type VatBucket struct {
	Rate           decimal.Decimal
	TaxableTotal   decimal.Decimal
	TaxTotal       decimal.Decimal
	OperationCount int
}

// Liquidation is the periodic VAT settlement computation. VatPayable is
// sales tax minus purchase tax: positive means an amount due, negative a
// credit carried forward. The computation is advisory, not a filing.
type Liquidation struct {
	Period          Period
	Regime          Regime
	SalesBuckets    []VatBucket
	PurchaseBuckets []VatBucket
	VatPayable      decimal.Decimal
	DueDate         time.Time
	// Warnings lists advisory findings from the validation pass. They never
	// fail the liquidation.
	Warnings []string
}

// SalesTax sums the tax side of all sales buckets.
func (l Liquidation) SalesTax() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.SalesBuckets {
		total = valueobject.RoundCents(total.Add(b.TaxTotal))
	}
	return total
}

// PurchaseTax sums the tax side of all purchase buckets.
func (l Liquidation) PurchaseTax() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.PurchaseBuckets {
		total = valueobject.RoundCents(total.Add(b.TaxTotal))
	}
	return total
}

// IsCredit reports whether the period closes with a VAT credit carried
// forward instead of an amount due.
func (l Liquidation) IsCredit() bool {
	return l.VatPayable.IsNegative()
}

// Aggregator computes periodic VAT liquidations from normalized documents.
// It holds only injected configuration and is safe for concurrent use.
type Aggregator struct {
	largeAmountThreshold decimal.Decimal
	logger               *zap.Logger
}

// NewAggregator creates an aggregator flagging liquidations above the given
// threshold. A nil logger disables warning logs.
func NewAggregator(largeAmountThreshold decimal.Decimal, logger *zap.Logger) *Aggregator {
	if largeAmountThreshold.LessThanOrEqual(decimal.Zero) {
		largeAmountThreshold = DefaultLargeAmountThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{largeAmountThreshold: largeAmountThreshold, logger: logger}
}

// Liquidate buckets the documents' tax lines by rate and direction and
// computes the net obligation for the period. Totals are rounded to two
// decimals at every accumulation step to match the upstream bookkeeping
// system. Documents without tax lines (payslips, receipts, transfers) are
// ignored; documents with an unresolved direction are excluded with a
// warning, since counting them on either side would corrupt the totals.
func (a *Aggregator) Liquidate(docs []document.CanonicalDocument, periodStr string, regime Regime) (Liquidation, error) {
	period, err := ParsePeriod(periodStr, regime)
	if err != nil {
		return Liquidation{}, err
	}

	var warnings []string
	sales := newBucketSet()
	purchases := newBucketSet()

	for _, doc := range docs {
		if len(doc.TaxLines) == 0 {
			continue
		}
		if !doc.IssueDate.IsZero() && !period.Contains(doc.IssueDate) {
			warnings = append(warnings, fmt.Sprintf("document %s dated %s falls outside period %s",
				doc.DocumentNumber, doc.IssueDate.Format("2006-01-02"), period))
		}

		var set *bucketSet
		switch doc.Direction {
		case document.DirectionSale:
			set = sales
		case document.DirectionPurchase:
			set = purchases
		default:
			warnings = append(warnings, fmt.Sprintf("document %s has unknown direction and was excluded", doc.DocumentNumber))
			a.logger.Warn("document excluded from liquidation",
				zap.String("document", doc.DocumentNumber),
				zap.String("reason", "unknown direction"))
			continue
		}

		for _, line := range doc.LinesByRate() {
			if line.TaxAmount.IsZero() && !line.TaxableAmount.IsZero() {
				warnings = append(warnings, fmt.Sprintf("document %s contributes no tax at rate %s despite taxable %s",
					doc.DocumentNumber, valueobject.RateKey(line.Rate), line.TaxableAmount))
			}
			set.add(line)
		}
	}

	salesBuckets := sales.sorted()
	purchaseBuckets := purchases.sorted()
	for _, b := range append(append([]VatBucket{}, salesBuckets...), purchaseBuckets...) {
		if b.TaxableTotal.IsNegative() || b.TaxTotal.IsNegative() {
			warnings = append(warnings, fmt.Sprintf("negative totals in rate %s bucket suggest corrupted input data",
				valueobject.RateKey(b.Rate)))
		}
	}

	liquidation := Liquidation{
		Period:          period,
		Regime:          regime,
		SalesBuckets:    salesBuckets,
		PurchaseBuckets: purchaseBuckets,
		DueDate:         period.DueDate(),
	}
	liquidation.VatPayable = valueobject.RoundCents(liquidation.SalesTax().Sub(liquidation.PurchaseTax()))

	if liquidation.VatPayable.Abs().GreaterThan(a.largeAmountThreshold) {
		warnings = append(warnings, fmt.Sprintf("liquidation magnitude %s exceeds threshold %s",
			liquidation.VatPayable.Abs(), a.largeAmountThreshold))
		a.logger.Warn("large liquidation amount",
			zap.String("period", period.String()),
			zap.String("vat_payable", liquidation.VatPayable.String()))
	}
	liquidation.Warnings = warnings
	return liquidation, nil
}

// bucketSet accumulates VatBuckets keyed by rate, rounding at each step.
type bucketSet struct {
	byRate map[string]*VatBucket
}

func newBucketSet() *bucketSet {
	return &bucketSet{byRate: make(map[string]*VatBucket)}
}

func (s *bucketSet) add(line document.TaxLine) {
	key := line.Rate.String()
	bucket, ok := s.byRate[key]
	if !ok {
		bucket = &VatBucket{Rate: line.Rate, TaxableTotal: decimal.Zero, TaxTotal: decimal.Zero}
		s.byRate[key] = bucket
	}
	bucket.TaxableTotal = valueobject.RoundCents(bucket.TaxableTotal.Add(valueobject.RoundCents(line.TaxableAmount)))
	bucket.TaxTotal = valueobject.RoundCents(bucket.TaxTotal.Add(valueobject.RoundCents(line.TaxAmount)))
	bucket.OperationCount++
}

func (s *bucketSet) sorted() []VatBucket {
	out := make([]VatBucket, 0, len(s.byRate))
	for _, b := range s.byRate {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate.LessThan(out[j].Rate) })
	return out
}
