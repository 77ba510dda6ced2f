package ledgerops

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/document"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared/valueobject"
)

// DefaultBalanceTolerance is the maximum accepted debit/credit gap on a
// generated journal entry.
var DefaultBalanceTolerance = decimal.NewFromFloat(0.01)

// Posting keys the generator resolves through the caller-supplied
// AccountMap. Rate-specific keys carry the rate suffix, e.g. "revenue_22".
const (
	keyCustomer              = "customer"
	keySupplier              = "supplier"
	keyRevenueGoods          = "revenue_goods"
	keyRevenue               = "revenue"
	keyVATPayable            = "vat_payable"
	keyCostGoods             = "cost_goods"
	keyCost                  = "cost"
	keyVATDeductible         = "vat_deductible"
	keyLaborCost             = "labor_cost"
	keyEmployeePayable       = "employee_payable"
	keySocialSecurityPayable = "social_security_payable"
	keyTaxAuthorityPayable   = "tax_authority_payable"
	keyBank                  = "bank"
)

// Generator produces balanced journal entries from canonical documents.
// It holds only injected configuration and is safe for concurrent use.
type Generator struct {
	balanceTolerance decimal.Decimal
	logger           *zap.Logger
}

// NewGenerator creates a generator with the given balance tolerance.
// A nil logger disables logging.
func NewGenerator(balanceTolerance decimal.Decimal, logger *zap.Logger) *Generator {
	if balanceTolerance.LessThanOrEqual(decimal.Zero) {
		balanceTolerance = DefaultBalanceTolerance
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{balanceTolerance: balanceTolerance, logger: logger}
}

// Generate emits the journal entry for one canonical document. Generation
// is all-or-nothing: an unmapped account or an unbalanced result aborts the
// whole entry, never drops a line.
func (g *Generator) Generate(doc document.CanonicalDocument, accounts AccountMap) (JournalEntry, error) {
	var lines []LedgerLine
	var err error

	switch doc.Kind {
	case document.KindInvoice:
		switch doc.Direction {
		case document.DirectionSale:
			lines, err = g.saleInvoiceLines(doc, accounts)
		case document.DirectionPurchase:
			lines, err = g.purchaseInvoiceLines(doc, accounts)
		default:
			return JournalEntry{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
				fmt.Sprintf("Invoice %s has no resolved direction", doc.DocumentNumber),
				map[string]any{"document_number": doc.DocumentNumber, "direction": doc.Direction.String()})
		}
	case document.KindPayslip:
		lines, err = g.payslipLines(doc, accounts)
	default:
		return JournalEntry{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			fmt.Sprintf("Documents of kind %s are not posted to the ledger", doc.Kind),
			map[string]any{"kind": doc.Kind.String()})
	}
	if err != nil {
		return JournalEntry{}, err
	}

	return g.assemble(doc, lines)
}

// GeneratePayslipSettlement emits the two bank-settlement lines for a
// payslip (debit employee payable, credit cash). It runs only on explicit
// request, never as part of Generate.
func (g *Generator) GeneratePayslipSettlement(doc document.CanonicalDocument, accounts AccountMap) (JournalEntry, error) {
	if doc.Kind != document.KindPayslip || doc.Payroll == nil {
		return JournalEntry{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			"Settlement entries can only be generated for payslip documents",
			map[string]any{"kind": doc.Kind.String()})
	}
	payable, err := g.resolve(accounts, keyEmployeePayable)
	if err != nil {
		return JournalEntry{}, err
	}
	bank, err := g.resolve(accounts, keyBank)
	if err != nil {
		return JournalEntry{}, err
	}
	net := doc.Payroll.Net
	desc := fmt.Sprintf("Net pay settlement %s", doc.Counterpart.Name)
	lines := []LedgerLine{
		{AccountCode: payable, Debit: net, Description: desc, Date: doc.IssueDate},
		{AccountCode: bank, Credit: net, Description: desc, Date: doc.IssueDate},
	}
	return g.assemble(doc, lines)
}

func (g *Generator) saleInvoiceLines(doc document.CanonicalDocument, accounts AccountMap) ([]LedgerLine, error) {
	customer, err := g.resolve(accounts, keyCustomer)
	if err != nil {
		return nil, err
	}
	lines := []LedgerLine{{
		AccountCode: customer,
		Debit:       doc.TotalAmount,
		Description: fmt.Sprintf("Invoice %s %s", doc.DocumentNumber, doc.Counterpart.Name),
		Date:        doc.IssueDate,
	}}
	for _, bucket := range doc.LinesByRate() {
		rate := valueobject.RateKey(bucket.Rate)
		if !bucket.TaxableAmount.IsZero() {
			revenue, err := g.resolve(accounts, "revenue_"+rate, keyRevenueGoods, keyRevenue)
			if err != nil {
				return nil, err
			}
			lines = append(lines, LedgerLine{
				AccountCode: revenue,
				Credit:      bucket.TaxableAmount,
				Description: fmt.Sprintf("Revenue %s%% invoice %s", rate, doc.DocumentNumber),
				Date:        doc.IssueDate,
				VATRate:     bucket.Rate,
			})
		}
		if !bucket.TaxAmount.IsZero() {
			vat, err := g.resolve(accounts, "vat_"+rate, keyVATPayable)
			if err != nil {
				return nil, err
			}
			lines = append(lines, LedgerLine{
				AccountCode: vat,
				Credit:      bucket.TaxAmount,
				Description: fmt.Sprintf("VAT %s%% invoice %s", rate, doc.DocumentNumber),
				Date:        doc.IssueDate,
				VATRate:     bucket.Rate,
			})
		}
	}
	return lines, nil
}

func (g *Generator) purchaseInvoiceLines(doc document.CanonicalDocument, accounts AccountMap) ([]LedgerLine, error) {
	var lines []LedgerLine
	for _, bucket := range doc.LinesByRate() {
		rate := valueobject.RateKey(bucket.Rate)
		if !bucket.TaxableAmount.IsZero() {
			cost, err := g.resolve(accounts, "cost_"+rate, keyCostGoods, keyCost)
			if err != nil {
				return nil, err
			}
			lines = append(lines, LedgerLine{
				AccountCode: cost,
				Debit:       bucket.TaxableAmount,
				Description: fmt.Sprintf("Cost %s%% invoice %s", rate, doc.DocumentNumber),
				Date:        doc.IssueDate,
				VATRate:     bucket.Rate,
			})
		}
		if !bucket.TaxAmount.IsZero() {
			vat, err := g.resolve(accounts, "vat_credit_"+rate, keyVATDeductible)
			if err != nil {
				return nil, err
			}
			lines = append(lines, LedgerLine{
				AccountCode: vat,
				Debit:       bucket.TaxAmount,
				Description: fmt.Sprintf("VAT deductible %s%% invoice %s", rate, doc.DocumentNumber),
				Date:        doc.IssueDate,
				VATRate:     bucket.Rate,
			})
		}
	}
	supplier, err := g.resolve(accounts, keySupplier)
	if err != nil {
		return nil, err
	}
	lines = append(lines, LedgerLine{
		AccountCode: supplier,
		Credit:      doc.TotalAmount,
		Description: fmt.Sprintf("Invoice %s %s", doc.DocumentNumber, doc.Counterpart.Name),
		Date:        doc.IssueDate,
	})
	return lines, nil
}

func (g *Generator) payslipLines(doc document.CanonicalDocument, accounts AccountMap) ([]LedgerLine, error) {
	if doc.Payroll == nil {
		return nil, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			fmt.Sprintf("Payslip %s carries no payroll breakdown", doc.DocumentNumber),
			map[string]any{"document_number": doc.DocumentNumber})
	}
	p := doc.Payroll

	labor, err := g.resolve(accounts, keyLaborCost)
	if err != nil {
		return nil, err
	}
	payable, err := g.resolve(accounts, keyEmployeePayable)
	if err != nil {
		return nil, err
	}
	lines := []LedgerLine{
		{AccountCode: labor, Debit: p.Gross, Description: fmt.Sprintf("Gross pay %s", doc.Counterpart.Name), Date: doc.IssueDate},
		{AccountCode: payable, Credit: p.Net, Description: fmt.Sprintf("Net pay payable %s", doc.Counterpart.Name), Date: doc.IssueDate},
	}
	if p.SocialSecurity.GreaterThan(decimal.Zero) {
		social, err := g.resolve(accounts, keySocialSecurityPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, LedgerLine{
			AccountCode: social,
			Credit:      p.SocialSecurity,
			Description: fmt.Sprintf("Social security payable %s", doc.Counterpart.Name),
			Date:        doc.IssueDate,
		})
	}
	if p.IncomeTax.GreaterThan(decimal.Zero) {
		taxAuthority, err := g.resolve(accounts, keyTaxAuthorityPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, LedgerLine{
			AccountCode: taxAuthority,
			Credit:      p.IncomeTax,
			Description: fmt.Sprintf("Income tax payable %s", doc.Counterpart.Name),
			Date:        doc.IssueDate,
		})
	}
	return lines, nil
}

// resolve walks a fallback chain of posting keys through the account map.
// The returned error names the first key of the chain and lists every key
// tried, so the caller can see exactly what the map is missing.
func (g *Generator) resolve(accounts AccountMap, chain ...string) (string, error) {
	for _, key := range chain {
		if code, ok := accounts.Resolve(key); ok {
			return code, nil
		}
	}
	return "", shared.NewDomainErrorWithDetails(shared.CodeUnmappedAccount,
		fmt.Sprintf("No account mapped for key %q", chain[0]),
		map[string]any{"key": chain[0], "tried": chain})
}

// assemble verifies the balance invariant and seals the entry. A violation
// is a hard failure; no partial entry is ever returned.
func (g *Generator) assemble(doc document.CanonicalDocument, lines []LedgerLine) (JournalEntry, error) {
	entry := JournalEntry{
		ID:         uuid.New(),
		DocumentID: doc.ID,
		Date:       doc.IssueDate,
		Lines:      lines,
	}
	debit := entry.DebitTotal()
	credit := entry.CreditTotal()
	if delta := debit.Sub(credit).Abs(); delta.GreaterThan(g.balanceTolerance) {
		return JournalEntry{}, shared.NewDomainErrorWithDetails(shared.CodeBalanceError,
			fmt.Sprintf("Journal entry for %s does not balance: debit %s, credit %s", doc.DocumentNumber, debit, credit),
			map[string]any{
				"document_number": doc.DocumentNumber,
				"debit":           debit.String(),
				"credit":          credit.String(),
				"delta":           delta.String(),
			})
	}
	g.logger.Debug("journal entry generated",
		zap.String("document", doc.DocumentNumber),
		zap.Int("lines", len(lines)),
		zap.String("total", debit.String()))
	return entry, nil
}
