package engine

import "github.com/kanjilab/jhs-scheduler/internal/domain"

// OutcomeKind is the three-way result contract: an engine run
// either fully succeeds, succeeds with soft violations remaining, or
// cannot satisfy a Critical invariant anywhere in the grid.
type OutcomeKind int

const (
	// OutcomeOk means every constraint -- Critical through Low -- holds.
	OutcomeOk OutcomeKind = iota
	// OutcomePartialSolution means the grid is complete (or as complete as
	// the pipeline/repair loop could make it) but High/Medium/Low
	// violations remain.
	OutcomePartialSolution
	// OutcomeUnsolvableCritical means at least one Critical invariant
	// could not be satisfied; Schedule may still be populated for
	// diagnostics but should not be treated as authoritative.
	OutcomeUnsolvableCritical
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOk:
		return "ok"
	case OutcomePartialSolution:
		return "partial_solution"
	case OutcomeUnsolvableCritical:
		return "unsolvable_critical"
	default:
		return "unknown"
	}
}

// Outcome is what Generate returns: the run identifier, the classification,
// the completed grid (always populated, even for UnsolvableCritical, so
// callers can inspect how far the run got), and every violation the final
// sweep found. Test-period violations are marked informational
// (Violation.InTestPeriod) rather than excluded.
type Outcome struct {
	RunID            string
	Kind             OutcomeKind
	Schedule         *domain.OutputGrid
	Violations       []domain.Violation
	RepairIterations int
}

// classify turns a final violation sweep into an OutcomeKind: any
// non-informational Critical violation is unsolvable; any other
// non-informational violation is a partial solution; otherwise ok.
func classify(violations []domain.Violation) OutcomeKind {
	sawSoft := false
	for _, v := range violations {
		if v.InTestPeriod {
			continue
		}
		if v.Severity == domain.Critical {
			return OutcomeUnsolvableCritical
		}
		sawSoft = true
	}
	if sawSoft {
		return OutcomePartialSolution
	}
	return OutcomeOk
}
