package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/document"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/ledgerops"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/reconciliation"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/vat"
	"github.com/Morrix76/taxpilot-en-sub000/internal/infrastructure/config"
)

func testService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{
		Engine:   config.EngineConfig{TotalTolerance: 0.02, BalanceTolerance: 0.01},
		Matching: config.MatchingConfig{AmountTolerance: 0.05, DateToleranceDays: 30},
		VAT:      config.VATConfig{LargeAmountThreshold: 50000},
	}
	return New(cfg, zap.NewNop())
}

func testAccounts() ledgerops.AccountMap {
	return ledgerops.AccountMap{
		"customer":                "CL001",
		"supplier":                "FO001",
		"revenue":                 "RIC01",
		"vat_payable":             "IVA01",
		"cost":                    "COS01",
		"vat_deductible":          "IVA02",
		"labor_cost":              "PER01",
		"employee_payable":        "PER02",
		"social_security_payable": "PER03",
		"tax_authority_payable":   "PER04",
		"bank":                    "BAN01",
	}
}

func saleInvoiceInput() document.InvoiceInput {
	return document.InvoiceInput{
		SellerName:     "Studio Rossi Srl",
		SellerVATID:    "01114601006",
		BuyerName:      "ACME Spa",
		BuyerVATID:     "12345678903",
		DocumentNumber: "2025/001",
		IssueDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Lines:          []document.TaxLineInput{{Rate: 22, TaxableAmount: 1000, TaxAmount: 220}},
		DeclaredTotal:  1220,
		Direction:      document.DirectionSale,
	}
}

func TestProcessInvoice(t *testing.T) {
	svc := testService(t)

	t.Run("sale invoice posts a balanced entry", func(t *testing.T) {
		out, err := svc.ProcessInvoice(saleInvoiceInput(), testAccounts())
		require.NoError(t, err)

		assert.Equal(t, document.KindInvoice, out.Document.Kind)
		assert.Equal(t, document.DirectionSale, out.Document.Direction)
		assert.True(t, out.Entry.DebitTotal().Equal(out.Entry.CreditTotal()))
		assert.True(t, out.Entry.DebitTotal().Equal(decimal.NewFromInt(1220)))
		assert.Nil(t, out.Settlement)
	})

	t.Run("normalization failure stops before posting", func(t *testing.T) {
		in := saleInvoiceInput()
		in.DeclaredTotal = 1250
		_, err := svc.ProcessInvoice(in, testAccounts())
		require.Error(t, err)
		assert.Equal(t, shared.CodeTotalMismatch, shared.CodeOf(err))
	})

	t.Run("missing account mapping surfaces the posting key", func(t *testing.T) {
		accounts := testAccounts()
		delete(accounts, "revenue")
		_, err := svc.ProcessInvoice(saleInvoiceInput(), accounts)
		require.Error(t, err)
		assert.Equal(t, shared.CodeUnmappedAccount, shared.CodeOf(err))
	})
}

func TestProcessPayslip(t *testing.T) {
	svc := testService(t)
	in := document.PayslipInput{
		EmployeeName:   "Mario Rossi",
		EmployeeTaxID:  "RSSMRA85T10A562S",
		DocumentNumber: "BP-2025-01",
		PeriodDate:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Gross:          2000,
		SocialSecurity: 180,
		IncomeTax:      300,
		Net:            1520,
	}

	t.Run("without settlement", func(t *testing.T) {
		out, err := svc.ProcessPayslip(in, testAccounts(), false)
		require.NoError(t, err)
		assert.Nil(t, out.Settlement)
		assert.True(t, out.Entry.DebitTotal().Equal(decimal.NewFromInt(2000)))
	})

	t.Run("with settlement", func(t *testing.T) {
		out, err := svc.ProcessPayslip(in, testAccounts(), true)
		require.NoError(t, err)
		require.NotNil(t, out.Settlement)
		assert.True(t, out.Settlement.DebitTotal().Equal(decimal.NewFromInt(1520)))
	})
}

func TestLiquidateAndReconcileFlow(t *testing.T) {
	svc := testService(t)
	accounts := testAccounts()

	invoice, err := svc.ProcessInvoice(saleInvoiceInput(), accounts)
	require.NoError(t, err)

	transfer, err := svc.NormalizeTransfer(document.TransferInput{
		CounterpartName: "ACME Spa",
		Reference:       "TRN-77",
		Date:            time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		Amount:          1220,
	})
	require.NoError(t, err)

	receipt, err := svc.NormalizeReceipt(document.ReceiptInput{
		CounterpartName: "ACME Spa",
		DocumentNumber:  "R-9",
		Date:            time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
		Amount:          1220,
	})
	require.NoError(t, err)

	t.Run("liquidation over the processed documents", func(t *testing.T) {
		l, err := svc.LiquidateVAT([]document.CanonicalDocument{invoice.Document}, "2025-01", vat.RegimeMonthly)
		require.NoError(t, err)
		assert.True(t, l.VatPayable.Equal(decimal.NewFromInt(220)))
		assert.Equal(t, time.Date(2025, 2, 16, 0, 0, 0, 0, time.UTC), l.DueDate)
	})

	t.Run("reconciliation finds the settlement pair", func(t *testing.T) {
		result, err := svc.Reconcile([]document.CanonicalDocument{invoice.Document, transfer})
		require.NoError(t, err)
		require.Len(t, result.Matches, 1)
		assert.GreaterOrEqual(t, result.Matches[0].Score, 70)
	})

	t.Run("cycle verification across both pools", func(t *testing.T) {
		report, err := svc.VerifyCycle(invoice.Document,
			[]document.CanonicalDocument{receipt},
			[]document.CanonicalDocument{transfer})
		require.NoError(t, err)
		assert.Equal(t, reconciliation.CycleComplete, report.Status)
	})
}
