package export

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/ledgerops"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/vat"
)

func TestLedgerCSV(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	entry := ledgerops.JournalEntry{
		ID:         uuid.New(),
		DocumentID: uuid.New(),
		Date:       date,
		Lines: []ledgerops.LedgerLine{
			{AccountCode: "CL001", Debit: decimal.NewFromFloat(1220), Description: "Fattura 2025/001", Date: date},
			{AccountCode: "RIC01", Credit: decimal.NewFromFloat(1000), Description: "Fattura 2025/001", Date: date},
			{AccountCode: "IVA01", Credit: decimal.NewFromFloat(220), Description: "Fattura 2025/001", Date: date, VATRate: decimal.NewFromInt(22)},
		},
	}

	out := LedgerCSV([]ledgerops.JournalEntry{entry})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "Data;ContoDare;ContoAvere;Importo;Descrizione;IVA", lines[0])
	assert.Equal(t, "15/01/2025;CL001;;1220,00;Fattura 2025/001;", lines[1])
	assert.Equal(t, "15/01/2025;;RIC01;1000,00;Fattura 2025/001;", lines[2])
	assert.Equal(t, "15/01/2025;;IVA01;220,00;Fattura 2025/001;22", lines[3])
}

func TestLedgerCSVNoEntries(t *testing.T) {
	out := LedgerCSV(nil)
	assert.Equal(t, LedgerHeader+"\n", out)
}

func TestLiquidationCSV(t *testing.T) {
	period, err := vat.ParsePeriod("2025-01", vat.RegimeMonthly)
	require.NoError(t, err)

	l := vat.Liquidation{
		Period: period,
		Regime: vat.RegimeMonthly,
		SalesBuckets: []vat.VatBucket{
			{Rate: decimal.NewFromInt(10), TaxableTotal: decimal.NewFromFloat(500), TaxTotal: decimal.NewFromFloat(50), OperationCount: 1},
			{Rate: decimal.NewFromInt(22), TaxableTotal: decimal.NewFromFloat(1000), TaxTotal: decimal.NewFromFloat(220), OperationCount: 2},
		},
		PurchaseBuckets: []vat.VatBucket{
			{Rate: decimal.NewFromInt(22), TaxableTotal: decimal.NewFromFloat(300), TaxTotal: decimal.NewFromFloat(66), OperationCount: 1},
		},
		VatPayable: decimal.NewFromFloat(204),
		DueDate:    time.Date(2025, 2, 16, 0, 0, 0, 0, time.UTC),
	}

	out := LiquidationCSV(l, time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC))

	assert.Contains(t, out, "LIQUIDAZIONE IVA;2025-01\n")
	assert.Contains(t, out, "Regime;Mensile\n")
	assert.Contains(t, out, "Generato;01/02/2025 09:30\n")
	assert.Contains(t, out, "IVA a debito;270,00\n")
	assert.Contains(t, out, "IVA a credito;66,00\n")
	assert.Contains(t, out, "IVA da versare;204,00\n")
	assert.NotContains(t, out, "Credito IVA")
	assert.Contains(t, out, "Scadenza;16/02/2025\n")
	assert.Contains(t, out, "VENDITE\nAliquota;Imponibile;Imposta;Operazioni\n10;500,00;50,00;1\n22;1000,00;220,00;2\n")
	assert.Contains(t, out, "ACQUISTI\nAliquota;Imponibile;Imposta;Operazioni\n22;300,00;66,00;1\n")
}

func TestLiquidationCSVCredit(t *testing.T) {
	period, err := vat.ParsePeriod("2025-Q1", vat.RegimeQuarterly)
	require.NoError(t, err)

	l := vat.Liquidation{
		Period:     period,
		Regime:     vat.RegimeQuarterly,
		VatPayable: decimal.NewFromFloat(-120.50),
		DueDate:    time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC),
	}

	out := LiquidationCSV(l, time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC))

	assert.Contains(t, out, "Regime;Trimestrale\n")
	assert.Contains(t, out, "Credito IVA;120,50\n")
	assert.NotContains(t, out, "IVA da versare")
}
