package ledgerops

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountMap is the caller-supplied chart-of-accounts lookup mapping posting
// keys to account codes. It is read-only for the duration of a generation
// call and is never owned by the engine.
type AccountMap map[string]string

// Resolve looks up a posting key, trying the exact key first and the
// lower-cased key second. No fuzzy or partial matching is performed.
func (m AccountMap) Resolve(key string) (string, bool) {
	if code, ok := m[key]; ok {
		return code, true
	}
	if code, ok := m[strings.ToLower(key)]; ok {
		return code, true
	}
	return "", false
}

// LedgerLine is one posting row of a journal entry. Exactly one of Debit
// and Credit is non-zero.
type LedgerLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
	Date        time.Time
	// VATRate is the tax rate the line belongs to, zero for lines not tied
	// to a rate bucket. Retained for the ledger export's IVA column.
	VATRate decimal.Decimal
}

// IsDebit reports whether the line posts on the debit side.
func (l LedgerLine) IsDebit() bool {
	return l.Debit.GreaterThan(decimal.Zero)
}

// Amount returns the line's non-zero side.
func (l LedgerLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// JournalEntry is the ordered, immutable set of ledger lines produced from
// one canonical document. It is only ever returned fully balanced.
type JournalEntry struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Date       time.Time
	Lines      []LedgerLine
}

// DebitTotal sums the debit side of all lines.
func (e JournalEntry) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// CreditTotal sums the credit side of all lines.
func (e JournalEntry) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}
