package document

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared/valueobject"
)

// DefaultTotalTolerance is the maximum accepted gap between a document's
// declared total and the total recomputed from its tax lines.
var DefaultTotalTolerance = decimal.NewFromFloat(0.02)

// Normalizer converts parsed upstream documents into CanonicalDocuments,
// enforcing numeric consistency. It is stateless apart from injected
// configuration and safe for concurrent use.
type Normalizer struct {
	tolerance decimal.Decimal
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewNormalizer creates a normalizer with the given total-consistency
// tolerance. A nil logger disables warning logs.
func NewNormalizer(tolerance decimal.Decimal, logger *zap.Logger) *Normalizer {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = DefaultTotalTolerance
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		tolerance: tolerance,
		validate:  validator.New(),
		logger:    logger,
	}
}

// NormalizeInvoice maps an InvoiceInput into a canonical invoice document.
// It fails with TOTAL_MISMATCH when the declared total disagrees with the
// recomputed one beyond tolerance; identifier validation is non-blocking.
func (n *Normalizer) NormalizeInvoice(in InvoiceInput) (CanonicalDocument, error) {
	if err := n.validate.Struct(in); err != nil {
		return CanonicalDocument{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			"Invoice input failed validation", map[string]any{"cause": err.Error()})
	}

	lines := make([]TaxLine, 0, len(in.Lines))
	calculated := decimal.Zero
	for _, l := range in.Lines {
		line := TaxLine{
			Rate:          valueobject.FromFloat(l.Rate),
			TaxableAmount: valueobject.FromFloat(l.TaxableAmount),
			TaxAmount:     valueobject.FromFloat(l.TaxAmount),
		}
		lines = append(lines, line)
		calculated = calculated.Add(line.TaxableAmount).Add(line.TaxAmount)
	}

	declared := valueobject.FromFloat(in.DeclaredTotal)
	if !valueobject.WithinTolerance(calculated, declared, n.tolerance) {
		return CanonicalDocument{}, shared.NewDomainErrorWithDetails(shared.CodeTotalMismatch,
			fmt.Sprintf("Invoice %s total mismatch: declared %s, calculated %s", in.DocumentNumber, declared, calculated),
			map[string]any{
				"document_number": in.DocumentNumber,
				"declared":        declared.String(),
				"calculated":      calculated.String(),
				"delta":           calculated.Sub(declared).Abs().String(),
			})
	}

	direction, inferred := ClassifyDirection(in.Direction, in.SourceHint)
	var warnings []string
	if inferred {
		warnings = append(warnings, fmt.Sprintf("direction %s inferred from hint %q", direction, in.SourceHint))
	}

	// The counterpart is the buyer on a sale and the seller on a purchase.
	counterpart := Counterpart{Name: in.BuyerName, TaxID: in.BuyerTaxID, VATID: in.BuyerVATID}
	if direction == DirectionPurchase {
		counterpart = Counterpart{Name: in.SellerName, TaxID: in.SellerTaxID, VATID: in.SellerVATID}
	}
	counterpart, warnings = n.checkIdentifiers(counterpart, in.DocumentNumber, warnings)

	return CanonicalDocument{
		ID:             uuid.New(),
		Kind:           KindInvoice,
		Direction:      direction,
		Counterpart:    counterpart,
		TaxLines:       lines,
		TotalAmount:    declared,
		DocumentNumber: in.DocumentNumber,
		IssueDate:      in.IssueDate,
		Warnings:       warnings,
	}, nil
}

// NormalizePayslip maps a PayslipInput into a canonical payslip document.
// It fails with PAYROLL_MISMATCH when gross, withholdings and net do not
// reconcile beyond tolerance. The document total is the net pay, which is
// the amount a bank settlement will carry.
func (n *Normalizer) NormalizePayslip(in PayslipInput) (CanonicalDocument, error) {
	if err := n.validate.Struct(in); err != nil {
		return CanonicalDocument{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			"Payslip input failed validation", map[string]any{"cause": err.Error()})
	}

	gross := valueobject.FromFloat(in.Gross)
	social := valueobject.FromFloat(in.SocialSecurity)
	tax := valueobject.FromFloat(in.IncomeTax)
	net := valueobject.FromFloat(in.Net)

	residual := gross.Sub(social).Sub(tax).Sub(net)
	if residual.Abs().GreaterThan(n.tolerance) {
		return CanonicalDocument{}, shared.NewDomainErrorWithDetails(shared.CodePayrollMismatch,
			fmt.Sprintf("Payslip for %s does not reconcile: gross %s, withholdings %s, net %s", in.EmployeeName, gross, social.Add(tax), net),
			map[string]any{
				"gross":           gross.String(),
				"social_security": social.String(),
				"income_tax":      tax.String(),
				"net":             net.String(),
				"delta":           residual.Abs().String(),
			})
	}

	counterpart := Counterpart{Name: in.EmployeeName, TaxID: in.EmployeeTaxID}
	var warnings []string
	counterpart, warnings = n.checkIdentifiers(counterpart, in.DocumentNumber, warnings)

	return CanonicalDocument{
		ID:             uuid.New(),
		Kind:           KindPayslip,
		Direction:      DirectionPurchase,
		Counterpart:    counterpart,
		TotalAmount:    net,
		DocumentNumber: in.DocumentNumber,
		IssueDate:      in.PeriodDate,
		Payroll: &PayrollBreakdown{
			Gross:          gross,
			SocialSecurity: social,
			IncomeTax:      tax,
			Net:            net,
		},
		Warnings: warnings,
	}, nil
}

// NormalizeReceipt maps a ReceiptInput into a canonical receipt document.
func (n *Normalizer) NormalizeReceipt(in ReceiptInput) (CanonicalDocument, error) {
	if err := n.validate.Struct(in); err != nil {
		return CanonicalDocument{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			"Receipt input failed validation", map[string]any{"cause": err.Error()})
	}
	counterpart := Counterpart{Name: in.CounterpartName, TaxID: in.CounterpartTaxID, VATID: in.CounterpartVATID}
	counterpart, warnings := n.checkIdentifiers(counterpart, in.DocumentNumber, nil)
	return CanonicalDocument{
		ID:             uuid.New(),
		Kind:           KindReceipt,
		Direction:      DirectionUnknown,
		Counterpart:    counterpart,
		TotalAmount:    valueobject.FromFloat(in.Amount),
		DocumentNumber: in.DocumentNumber,
		IssueDate:      in.Date,
		Warnings:       warnings,
	}, nil
}

// NormalizeTransfer maps a TransferInput into a canonical bank-transfer
// document.
func (n *Normalizer) NormalizeTransfer(in TransferInput) (CanonicalDocument, error) {
	if err := n.validate.Struct(in); err != nil {
		return CanonicalDocument{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			"Transfer input failed validation", map[string]any{"cause": err.Error()})
	}
	counterpart := Counterpart{Name: in.CounterpartName, TaxID: in.CounterpartTaxID, VATID: in.CounterpartVATID}
	counterpart, warnings := n.checkIdentifiers(counterpart, in.Reference, nil)
	return CanonicalDocument{
		ID:             uuid.New(),
		Kind:           KindBankTransfer,
		Direction:      DirectionUnknown,
		Counterpart:    counterpart,
		TotalAmount:    valueobject.FromFloat(in.Amount),
		DocumentNumber: in.Reference,
		IssueDate:      in.Date,
		Warnings:       warnings,
	}, nil
}

// checkIdentifiers validates the counterpart's tax identifiers. Invalid
// values are replaced with documented placeholders and reported as warnings
// so that entry generation stays possible; empty values pass untouched.
func (n *Normalizer) checkIdentifiers(c Counterpart, ref string, warnings []string) (Counterpart, []string) {
	if c.VATID != "" && !ValidVATNumber(c.VATID) {
		n.logger.Warn("invalid VAT number, substituting placeholder",
			zap.String("document", ref), zap.String("vat_id", c.VATID))
		warnings = append(warnings, fmt.Sprintf("invalid VAT number %q replaced with placeholder", c.VATID))
		c.VATID = PlaceholderVATID
	}
	if c.TaxID != "" && !ValidTaxCode(c.TaxID) {
		n.logger.Warn("invalid tax code, substituting placeholder",
			zap.String("document", ref), zap.String("tax_id", c.TaxID))
		warnings = append(warnings, fmt.Sprintf("invalid tax code %q replaced with placeholder", c.TaxID))
		c.TaxID = PlaceholderTaxID
	}
	return c, warnings
}
