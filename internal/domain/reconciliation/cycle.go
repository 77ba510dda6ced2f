package reconciliation

import (
	"fmt"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/document"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared/valueobject"
)

// CycleStatus reports how much of the invoice, receipt, transfer settlement
// cycle could be verified.
type CycleStatus string

const (
	// CycleComplete: receipt and transfer found, and they match each other.
	CycleComplete CycleStatus = "complete"
	// CycleCompleteWithAnomalies: cycle found but the receipt and transfer
	// are inconsistent with each other.
	CycleCompleteWithAnomalies CycleStatus = "complete_with_anomalies"
	// CyclePartiallyComplete: only one of receipt and transfer was found.
	CyclePartiallyComplete CycleStatus = "partially_complete"
	// CycleIncomplete: neither receipt nor transfer was found.
	CycleIncomplete CycleStatus = "incomplete"
)

// String returns the string representation
func (s CycleStatus) String() string {
	return string(s)
}

// CycleReport is the outcome of verifying one invoice's settlement cycle.
type CycleReport struct {
	Invoice  document.CanonicalDocument
	Receipt  *document.CanonicalDocument
	Transfer *document.CanonicalDocument
	Status   CycleStatus
}

// VerifyCycle checks whether an invoice's settlement cycle is complete: it
// matches the invoice against the receipt pool, then against the transfer
// pool, and finally verifies that the found receipt and transfer are
// themselves a valid match to each other.
func (m *Matcher) VerifyCycle(invoice document.CanonicalDocument, receipts, transfers []document.CanonicalDocument) (CycleReport, error) {
	if invoice.Kind != document.KindInvoice {
		return CycleReport{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			fmt.Sprintf("Cycle verification starts from an invoice, got %s", invoice.Kind),
			map[string]any{"kind": invoice.Kind.String()})
	}
	if invoice.TotalAmount.IsZero() || invoice.IssueDate.IsZero() {
		return CycleReport{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			fmt.Sprintf("Invoice %s is missing the amount or date required for matching", invoice.DocumentNumber),
			map[string]any{"document_number": invoice.DocumentNumber})
	}

	report := CycleReport{Invoice: invoice}
	report.Receipt = m.bestMatch(invoice, receipts, document.KindReceipt)
	report.Transfer = m.bestMatch(invoice, transfers, document.KindBankTransfer)

	switch {
	case report.Receipt != nil && report.Transfer != nil:
		pair := m.scorePair(*report.Receipt, *report.Transfer)
		if pair.Tier == TierMatch {
			report.Status = CycleComplete
		} else {
			report.Status = CycleCompleteWithAnomalies
		}
	case report.Receipt != nil || report.Transfer != nil:
		report.Status = CyclePartiallyComplete
	default:
		report.Status = CycleIncomplete
	}
	return report, nil
}

// bestMatch scores the anchor against every pool document of the wanted
// kind whose amount falls within tolerance, and returns the highest-scoring
// one classified as a match. Ties keep the first-seen document.
func (m *Matcher) bestMatch(anchor document.CanonicalDocument, pool []document.CanonicalDocument, want document.Kind) *document.CanonicalDocument {
	var best *document.CanonicalDocument
	bestScore := -1
	for i := range pool {
		doc := pool[i]
		if doc.Kind != want {
			continue
		}
		if doc.TotalAmount.IsZero() || doc.IssueDate.IsZero() {
			continue
		}
		if !valueobject.WithinTolerance(doc.TotalAmount, anchor.TotalAmount, m.cfg.AmountTolerance) {
			continue
		}
		candidate := m.scorePair(anchor, doc)
		if candidate.Tier == TierMatch && candidate.Score > bestScore {
			best = &pool[i]
			bestScore = candidate.Score
		}
	}
	return best
}
