package reconciliation

import (
	"fmt"

	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/document"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared"
	"github.com/Morrix76/taxpilot-en-sub000/internal/domain/shared/valueobject"
)

// Tier classifies a scored candidate pair.
type Tier string

const (
	TierMatch    Tier = "MATCH"
	TierPossible Tier = "POSSIBLE" // manual review
	TierAnomaly  Tier = "ANOMALY"
)

// IsValid checks if the tier is valid
func (t Tier) IsValid() bool {
	switch t {
	case TierMatch, TierPossible, TierAnomaly:
		return true
	}
	return false
}

// String returns the string representation
func (t Tier) String() string {
	return string(t)
}

// Independent signal contributions summed per candidate pair. Amount
// proximity is treated as already satisfied by grouping.
const (
	scoreAmount        = 40
	scoreDate          = 30
	scoreTaxIdentifier = 15
	scoreComplement    = 15

	matchThreshold    = 70
	possibleThreshold = 40
)

// Candidate is one scored pair of documents. Candidates are ephemeral and
// advisory: recomputed on demand, never a persisted source of truth.
type Candidate struct {
	DocA    document.CanonicalDocument
	DocB    document.CanonicalDocument
	Score   int
	Tier    Tier
	Reasons []string
}

// Orphan is a document whose amount has no peer within tolerance, together
// with the counterpart kinds that would complete it.
type Orphan struct {
	Doc            document.CanonicalDocument
	SuggestedKinds []document.Kind
}

// Result is the full outcome of a matching run. Absence of a match is a
// normal outcome, not an error.
type Result struct {
	Matches   []Candidate
	Possible  []Candidate
	Anomalies []Candidate
	Orphans   []Orphan
}

// complementaryPairs lists the allowed document-type pairings. Any other
// pairing caps the match possibility regardless of other signals.
var complementaryPairs = map[[2]document.Kind]bool{
	{document.KindInvoice, document.KindReceipt}:      true,
	{document.KindInvoice, document.KindBankTransfer}: true,
	{document.KindReceipt, document.KindBankTransfer}: true,
	{document.KindPayslip, document.KindBankTransfer}: true,
}

// Complementary reports whether two document kinds form an allowed pairing,
// in either order.
func Complementary(a, b document.Kind) bool {
	return complementaryPairs[[2]document.Kind{a, b}] || complementaryPairs[[2]document.Kind{b, a}]
}

// suggestedCounterparts maps an orphan's kind to the kinds of the missing
// counterpart documents.
var suggestedCounterparts = map[document.Kind][]document.Kind{
	document.KindInvoice:      {document.KindReceipt, document.KindBankTransfer},
	document.KindReceipt:      {document.KindInvoice, document.KindBankTransfer},
	document.KindBankTransfer: {document.KindInvoice, document.KindReceipt},
	document.KindPayslip:      {document.KindBankTransfer},
}

// Matcher cross-matches heterogeneous financial documents using scored
// candidate pairs. It holds only injected configuration and is safe for
// concurrent use.
type Matcher struct {
	cfg Config
}

// NewMatcher creates a matcher with the given tolerances; zero fields fall
// back to DefaultConfig.
func NewMatcher(cfg Config) *Matcher {
	return &Matcher{cfg: cfg.withDefaults()}
}

// Match partitions the documents into amount-similarity groups, scores every
// pair within each group, and classifies the candidates. Scoring a pair is
// deterministic: the same inputs always produce the same score and tier.
// The only hard errors are malformed inputs: fewer than two documents, or a
// document missing the amount or date that grouping depends on.
func (m *Matcher) Match(docs []document.CanonicalDocument) (Result, error) {
	if len(docs) < 2 {
		return Result{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
			"Matching requires at least two documents",
			map[string]any{"count": len(docs)})
	}
	for _, doc := range docs {
		if doc.TotalAmount.IsZero() || doc.IssueDate.IsZero() {
			return Result{}, shared.NewDomainErrorWithDetails(shared.CodeInvalidInput,
				fmt.Sprintf("Document %s is missing the amount or date required for grouping", doc.DocumentNumber),
				map[string]any{"document_number": doc.DocumentNumber})
		}
	}

	var result Result
	for _, group := range m.group(docs) {
		if len(group) == 1 {
			orphan := group[0]
			result.Orphans = append(result.Orphans, Orphan{
				Doc:            orphan,
				SuggestedKinds: suggestedCounterparts[orphan.Kind],
			})
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				candidate := m.scorePair(group[i], group[j])
				switch candidate.Tier {
				case TierMatch:
					result.Matches = append(result.Matches, candidate)
				case TierPossible:
					result.Possible = append(result.Possible, candidate)
				default:
					result.Anomalies = append(result.Anomalies, candidate)
				}
			}
		}
	}
	return result, nil
}

// group partitions documents into equivalence classes where every member's
// amount is within tolerance of the class's reference amount, which is the
// first-seen amount in that class.
func (m *Matcher) group(docs []document.CanonicalDocument) [][]document.CanonicalDocument {
	var groups [][]document.CanonicalDocument
	for _, doc := range docs {
		placed := false
		for gi := range groups {
			reference := groups[gi][0].TotalAmount
			if valueobject.WithinTolerance(doc.TotalAmount, reference, m.cfg.AmountTolerance) {
				groups[gi] = append(groups[gi], doc)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []document.CanonicalDocument{doc})
		}
	}
	return groups
}

// scorePair scores one ordered pair and classifies it. The date signal is a
// step function: full contribution within the tolerance window, nothing
// beyond twice the window, and nothing in between either; no partial credit
// is interpolated.
func (m *Matcher) scorePair(a, b document.CanonicalDocument) Candidate {
	score := scoreAmount
	reasons := []string{"amounts within tolerance"}

	dayDiff := daysBetween(a, b)
	tooFar := dayDiff > 2*m.cfg.DateToleranceDays
	switch {
	case dayDiff <= m.cfg.DateToleranceDays:
		score += scoreDate
		reasons = append(reasons, "dates within tolerance")
	case tooFar:
		reasons = append(reasons, "dates too far apart")
	}

	if a.SharesTaxIdentifier(b) {
		score += scoreTaxIdentifier
		reasons = append(reasons, "shared tax identifier")
	}

	complementary := Complementary(a.Kind, b.Kind)
	if complementary {
		score += scoreComplement
		reasons = append(reasons, "complementary types")
	} else {
		reasons = append(reasons, "types not complementary")
	}

	// A gap beyond twice the date tolerance disqualifies the pair outright,
	// whatever the other signals add up to.
	tier := TierAnomaly
	if !tooFar {
		switch {
		case score >= matchThreshold && complementary:
			tier = TierMatch
		case score >= possibleThreshold && score < matchThreshold:
			tier = TierPossible
		}
	}

	return Candidate{DocA: a, DocB: b, Score: score, Tier: tier, Reasons: reasons}
}

// daysBetween returns the absolute whole-day distance between two document
// dates.
func daysBetween(a, b document.CanonicalDocument) int {
	diff := a.IssueDate.Sub(b.IssueDate)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}
