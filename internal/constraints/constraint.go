package constraints

import "github.com/kanjilab/jhs-scheduler/internal/domain"

// Constraint is the common interface every rule in groups A-F implements.
// CheckPoint is the cheap incremental test the placement pipeline calls
// before committing a tentative cell; Validate is the full sweep the repair
// loop and the final report run over a complete (or partial) schedule.
type Constraint interface {
	ID() domain.RuleID
	Priority() domain.Priority
	// CheckPoint reports whether placing assignment at slot would hold,
	// given the schedule/tracker state *before* the placement is made.
	CheckPoint(ctx *Context, slot domain.TimeSlot, assignment domain.Assignment) bool
	// Validate sweeps the full schedule and returns every violation this
	// constraint currently finds.
	Validate(ctx *Context) []domain.Violation
}

// Registry holds every registered Constraint, ordered Critical..Low, and
// implements the staged-relaxation point-check used by the placement
// pipeline: ignore Low, then Medium, never Critical/High.
type Registry struct {
	constraints []Constraint
}

// NewRegistry builds a registry from the six thematic groups, in priority
// order (Critical..Low within each group, groups interleaved only by their
// own declared priority so the first Critical/High failure always
// short-circuits CheckPoint before any Medium/Low rule runs).
func NewRegistry(cs ...Constraint) *Registry {
	r := &Registry{constraints: append([]Constraint{}, cs...)}
	r.sortByPriority()
	return r
}

func (r *Registry) sortByPriority() {
	// Stable insertion sort: the constraint lists are short (a few dozen at
	// most) and construction order within a priority tier is meaningful
	// (groups declared in registration order), so a full sort.Slice would be
	// overkill and could reorder same-priority ties unpredictably.
	for i := 1; i < len(r.constraints); i++ {
		j := i
		for j > 0 && r.constraints[j-1].Priority() > r.constraints[j].Priority() {
			r.constraints[j-1], r.constraints[j] = r.constraints[j], r.constraints[j-1]
			j--
		}
	}
}

// Add registers additional constraints and re-sorts.
func (r *Registry) Add(cs ...Constraint) {
	r.constraints = append(r.constraints, cs...)
	r.sortByPriority()
}

// All returns every registered constraint, Critical..Low.
func (r *Registry) All() []Constraint {
	return r.constraints
}

// CheckPoint runs every constraint's point-check in priority order, skipping
// any priority tier present in ignore (staged relaxation). It returns the
// first failing constraint, or nil if the placement holds under the current
// relaxation stage.
func (r *Registry) CheckPoint(ctx *Context, slot domain.TimeSlot, assignment domain.Assignment, ignore map[domain.Priority]bool) Constraint {
	for _, c := range r.constraints {
		if ignore != nil && ignore[c.Priority()] {
			continue
		}
		if !c.CheckPoint(ctx, slot, assignment) {
			return c
		}
	}
	return nil
}

// Validate runs every constraint's sweep and concatenates the violations, in
// registration (priority) order.
func (r *Registry) Validate(ctx *Context) []domain.Violation {
	var all []domain.Violation
	for _, c := range r.constraints {
		all = append(all, c.Validate(ctx)...)
	}
	return all
}

// Score computes the repair loop's weighted violation score: each
// Violation contributes its Priority's weight, except RuleDailyDuplicate and
// RuleStandardHours which use their own named weights. Violations inside a
// protected test period are informational only and do not contribute.
func Score(violations []domain.Violation) float64 {
	var total float64
	for _, v := range violations {
		if v.InTestPeriod {
			continue
		}
		switch v.Rule {
		case domain.RuleDailyDuplicate:
			total += domain.DailyDuplicateWeight
		case domain.RuleStandardHours:
			total += domain.StandardHoursShortWeight
		default:
			total += v.Severity.ViolationWeight()
		}
	}
	return total
}
