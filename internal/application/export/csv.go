// Package export renders engine outputs into the semicolon-separated CSV
// grammars expected by the downstream import tooling. The grammar is
// bit-exact: comma decimal separator, no quoting, no thousands grouping.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/ledgerops"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared/valueobject"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/vat"
)

// LedgerHeader is the fixed header row of the ledger export.
const LedgerHeader = "Data;ContoDare;ContoAvere;Importo;Descrizione;IVA"

const dateLayout = "02/01/2006"

// LedgerCSV renders journal entries into the ledger import grammar: one row
// per ledger line with only the non-zero side's account populated.
func LedgerCSV(entries []ledgerops.JournalEntry) string {
	var b strings.Builder
	b.WriteString(LedgerHeader)
	b.WriteByte('\n')
	for _, entry := range entries {
		for _, line := range entry.Lines {
			dare, avere := "", ""
			if line.IsDebit() {
				dare = line.AccountCode
			} else {
				avere = line.AccountCode
			}
			rate := ""
			if !line.VATRate.IsZero() {
				rate = valueobject.RateKey(line.VATRate)
			}
			b.WriteString(strings.Join([]string{
				line.Date.Format(dateLayout),
				dare,
				avere,
				formatAmount(line.Amount()),
				line.Description,
				rate,
			}, ";"))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// LiquidationCSV renders a VAT liquidation into the export grammar: a
// header block, a summary section, and per-rate breakdowns for sales and
// purchases.
func LiquidationCSV(l vat.Liquidation, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("LIQUIDAZIONE IVA;" + l.Period.String() + "\n")
	b.WriteString("Regime;" + l.Regime.Label() + "\n")
	b.WriteString("Generato;" + generatedAt.Format(dateLayout+" 15:04") + "\n")
	b.WriteByte('\n')

	b.WriteString("RIEPILOGO\n")
	b.WriteString("IVA a debito;" + formatAmount(l.SalesTax()) + "\n")
	b.WriteString("IVA a credito;" + formatAmount(l.PurchaseTax()) + "\n")
	if l.IsCredit() {
		b.WriteString("Credito IVA;" + formatAmount(l.VatPayable.Abs()) + "\n")
	} else {
		b.WriteString("IVA da versare;" + formatAmount(l.VatPayable) + "\n")
	}
	b.WriteString("Scadenza;" + l.DueDate.Format(dateLayout) + "\n")

	writeBuckets(&b, "VENDITE", l.SalesBuckets)
	writeBuckets(&b, "ACQUISTI", l.PurchaseBuckets)
	return b.String()
}

func writeBuckets(b *strings.Builder, section string, buckets []vat.VatBucket) {
	b.WriteByte('\n')
	b.WriteString(section + "\n")
	b.WriteString("Aliquota;Imponibile;Imposta;Operazioni\n")
	for _, bucket := range buckets {
		b.WriteString(valueobject.RateKey(bucket.Rate))
		b.WriteByte(';')
		b.WriteString(formatAmount(bucket.TaxableTotal))
		b.WriteByte(';')
		b.WriteString(formatAmount(bucket.TaxTotal))
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(bucket.OperationCount))
		b.WriteByte('\n')
	}
}

// formatAmount renders an amount with two decimals and a comma separator.
// encoding/csv is deliberately not used: its quoting rules would break the
// fixed grammar.
func formatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
