package document

import "strings"

// Substrings recognized by the direction heuristic. Matching "fattura"
// generically risks misclassifying purchase invoices as sales, which is why
// purchase markers are checked first; an explicit Direction from the
// upstream parser always wins over the heuristic.
var (
	purchaseMarkers = []string{"acquisto", "acquisti", "passiva", "fornitore", "ricevuta_fornitore", "busta", "paga", "cedolino"}
	saleMarkers     = []string{"vendita", "vendite", "emessa", "attiva", "cliente", "fattura"}
)

// ClassifyDirection resolves a document's direction. An explicit
// non-unknown direction is returned as-is with no warning. Otherwise the
// hint (filename or type label supplied by the caller) is scanned for known
// markers; the second return value is true when the result was inferred
// heuristically rather than declared.
func ClassifyDirection(explicit Direction, hint string) (Direction, bool) {
	if explicit == DirectionSale || explicit == DirectionPurchase {
		return explicit, false
	}
	h := strings.ToLower(hint)
	for _, m := range purchaseMarkers {
		if strings.Contains(h, m) {
			return DirectionPurchase, true
		}
	}
	for _, m := range saleMarkers {
		if strings.Contains(h, m) {
			return DirectionSale, true
		}
	}
	return DirectionUnknown, true
}
