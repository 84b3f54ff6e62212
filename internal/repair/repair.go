// Package repair implements the hill-climbing optimizer: after the
// placement pipeline finishes, residual violations are reduced by proposing
// single-cell replacements and pair swaps and keeping only moves that
// strictly lower the weighted violation score, in the same scored,
// revertible local-search style as repairGaps/calculateGapPenalty.
package repair

import (
	"context"

	"go.uber.org/zap"

	"github.com/kanjilab/jhs-scheduler/internal/constraints"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/store"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
)

const defaultMaxIterations = 100

// Config configures one repair run.
type Config struct {
	Classes       []domain.ClassRef
	Roster        *domain.TeacherMapping
	MaxIterations int
}

// Result summarizes a completed repair run.
type Result struct {
	Iterations      int
	InitialScore    float64
	FinalScore      float64
	FinalViolations []domain.Violation
}

// Optimizer runs the hill-climbing loop over a Schedule/Tracker pair, scored
// by the constraint registry's weighted violations.
type Optimizer struct {
	Schedule *store.Schedule
	Tracker  *tracker.Tracker
	Registry *constraints.Registry
	Ctx      *constraints.Context
	Config   Config
	Logger   *zap.Logger
}

// New builds an Optimizer. A nil logger defaults to zap.NewNop().
func New(sched *store.Schedule, tr *tracker.Tracker, registry *constraints.Registry, cctx *constraints.Context, cfg Config, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.Classes == nil {
		cfg.Classes = domain.AllClasses()
	}
	return &Optimizer{Schedule: sched, Tracker: tr, Registry: registry, Ctx: cctx, Config: cfg, Logger: logger}
}

// Run executes the hill-climbing loop: each full sweep looks for the first
// improving move (in canonical scan order) and, finding one, commits it and
// starts a new sweep; it stops when a full sweep finds nothing improving or
// MaxIterations is reached. ctx is checked between sweeps, never mid-move.
func (o *Optimizer) Run(ctx context.Context) Result {
	current := o.score()
	result := Result{InitialScore: current, FinalScore: current}

	for iteration := 0; iteration < o.Config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			o.Logger.Warn("repair loop cancelled", zap.Error(err), zap.Int("iteration", iteration))
			break
		}
		move, newScore, found := o.findImprovingMove(current)
		if !found {
			o.Logger.Debug("repair loop converged", zap.Int("iteration", iteration), zap.Float64("score", current))
			break
		}
		move.commit()
		current = newScore
		result.Iterations = iteration + 1
		o.Logger.Debug("repair move accepted", zap.String("kind", move.kind), zap.Float64("score", current))
	}

	result.FinalScore = current
	result.FinalViolations = o.Registry.Validate(o.Ctx)
	return result
}

func (o *Optimizer) score() float64 {
	return constraints.Score(o.Registry.Validate(o.Ctx))
}

// candidateMove is a proposed mutation plus the closure that commits it to
// the live Schedule/Tracker once accepted. Trial application happens on a
// cloned Schedule/Tracker pair so rejected moves never touch live state.
type candidateMove struct {
	kind   string
	commit func()
}

// findImprovingMove sweeps Replace, then swap-within-class, then
// cross-class-swap candidates in canonical order and returns the first one
// that strictly lowers the score while preserving every invariant. Moves
// touching a test-period cell are skipped outright.
func (o *Optimizer) findImprovingMove(current float64) (candidateMove, float64, bool) {
	if move, score, ok := o.scanReplace(current); ok {
		return move, score, true
	}
	if move, score, ok := o.scanSwapWithinClass(current); ok {
		return move, score, true
	}
	if move, score, ok := o.scanCrossClassSwap(current); ok {
		return move, score, true
	}
	return candidateMove{}, current, false
}

func (o *Optimizer) isTestCell(slot domain.TimeSlot) bool {
	return o.Ctx.FollowUp.IsTestSlot(slot)
}

// contextFor builds a Context over an arbitrary (Schedule, Tracker) pair,
// reusing every other field from the optimizer's live Context. Used both to
// score the live state and to evaluate cloned trial states.
func (o *Optimizer) contextFor(sched *store.Schedule, tr *tracker.Tracker) *constraints.Context {
	return &constraints.Context{
		Schedule:               sched,
		Tracker:                tr,
		FollowUp:               o.Ctx.FollowUp,
		StandardHours:          o.Ctx.StandardHours,
		AcademicDailyCap:       o.Ctx.AcademicDailyCap,
		SkillDailyCap:          o.Ctx.SkillDailyCap,
		StandardHoursTolerance: o.Ctx.StandardHoursTolerance,
		PreferredBands:         o.Ctx.PreferredBands,
		GymSubject:             o.Ctx.GymSubject,
	}
}

// evaluate scores a (Schedule, Tracker) pair and reports whether it holds
// every Critical invariant (all enforced as Critical constraints).
func (o *Optimizer) evaluate(sched *store.Schedule, tr *tracker.Tracker) (score float64, invariantsHold bool) {
	violations := o.Registry.Validate(o.contextFor(sched, tr))
	invariantsHold = true
	for _, v := range violations {
		if v.Severity == domain.Critical {
			invariantsHold = false
			break
		}
	}
	return constraints.Score(violations), invariantsHold
}

// tryTrial clones the live Schedule/Tracker, applies mutate, and reports the
// resulting score and whether the mutation was structurally applicable and
// invariant-preserving. mutate returning false means the mutation itself
// could not be applied (e.g. a structural Assign error) and the trial is
// discarded outright.
func (o *Optimizer) tryTrial(mutate func(sched *store.Schedule, tr *tracker.Tracker) bool) (schedClone *store.Schedule, trClone *tracker.Tracker, score float64, ok bool) {
	schedClone = o.Schedule.Clone()
	trClone = o.Tracker.Clone()
	if !mutate(schedClone, trClone) {
		return nil, nil, 0, false
	}
	score, invariantsHold := o.evaluate(schedClone, trClone)
	return schedClone, trClone, score, invariantsHold
}
