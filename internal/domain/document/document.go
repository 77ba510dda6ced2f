package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind enumerates the fiscal document types the engine understands.
type Kind string

const (
	KindInvoice      Kind = "INVOICE"
	KindPayslip      Kind = "PAYSLIP"
	KindReceipt      Kind = "RECEIPT"
	KindBankTransfer Kind = "BANK_TRANSFER"
	KindGeneric      Kind = "GENERIC"
)

// IsValid checks if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindInvoice, KindPayslip, KindReceipt, KindBankTransfer, KindGeneric:
		return true
	}
	return false
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// Direction marks which side of the business a document sits on.
type Direction string

const (
	DirectionSale     Direction = "SALE"
	DirectionPurchase Direction = "PURCHASE"
	DirectionUnknown  Direction = "UNKNOWN"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	switch d {
	case DirectionSale, DirectionPurchase, DirectionUnknown:
		return true
	}
	return false
}

// String returns the string representation
func (d Direction) String() string {
	return string(d)
}

// Counterpart identifies the other party of a document.
type Counterpart struct {
	Name  string
	TaxID string // Codice Fiscale
	VATID string // Partita IVA
}

// TaxLine is one per-rate summary row of a document.
type TaxLine struct {
	Rate          decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
}

// PayrollBreakdown carries the payslip figures needed for posting.
// Present only on documents of KindPayslip.
type PayrollBreakdown struct {
	Gross          decimal.Decimal
	SocialSecurity decimal.Decimal
	IncomeTax      decimal.Decimal
	Net            decimal.Decimal
}

// CanonicalDocument is the normalized, immutable representation every
// downstream component consumes. A correction produces a new document,
// never an edit of an existing one.
type CanonicalDocument struct {
	ID             uuid.UUID
	Kind           Kind
	Direction      Direction
	Counterpart    Counterpart
	TaxLines       []TaxLine
	TotalAmount    decimal.Decimal
	DocumentNumber string
	IssueDate      time.Time
	Payroll        *PayrollBreakdown
	// Warnings lists soft issues found during normalization (substituted
	// identifiers, inferred direction). They never block processing.
	Warnings []string
}

// TaxableTotal sums the taxable amounts across all tax lines.
func (d CanonicalDocument) TaxableTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.TaxLines {
		total = total.Add(line.TaxableAmount)
	}
	return total
}

// TaxTotal sums the tax amounts across all tax lines.
func (d CanonicalDocument) TaxTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.TaxLines {
		total = total.Add(line.TaxAmount)
	}
	return total
}

// LinesByRate merges the document's tax lines into one line per rate,
// preserving first-seen rate order.
func (d CanonicalDocument) LinesByRate() []TaxLine {
	merged := make([]TaxLine, 0, len(d.TaxLines))
	index := make(map[string]int, len(d.TaxLines))
	for _, line := range d.TaxLines {
		key := line.Rate.String()
		if i, ok := index[key]; ok {
			merged[i].TaxableAmount = merged[i].TaxableAmount.Add(line.TaxableAmount)
			merged[i].TaxAmount = merged[i].TaxAmount.Add(line.TaxAmount)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// SharesTaxIdentifier reports whether two documents name the same party via
// VAT number or tax code.
func (d CanonicalDocument) SharesTaxIdentifier(other CanonicalDocument) bool {
	if d.Counterpart.VATID != "" && d.Counterpart.VATID != PlaceholderVATID &&
		d.Counterpart.VATID == other.Counterpart.VATID {
		return true
	}
	if d.Counterpart.TaxID != "" && d.Counterpart.TaxID != PlaceholderTaxID &&
		d.Counterpart.TaxID == other.Counterpart.TaxID {
		return true
	}
	return false
}
