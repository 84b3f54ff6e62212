// Package pipeline implements the placement pipeline: a sequence of
// idempotent phases that fill a Schedule from an input grid, a teacher
// roster, and follow-up directives, consulting the constraint system between
// every tentative placement.
package pipeline

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/kanjilab/jhs-scheduler/internal/constraints"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/store"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
)

// Config governs placement behavior, assembled once from engine.Config plus
// the per-run roster.
type Config struct {
	Classes []domain.ClassRef

	// Grade5Teachers designates, per subject code, the teacher who jointly
	// teaches all three 5-組 classes (Phase 2).
	Grade5Teachers map[string]domain.Teacher

	// JiritsuTeachers designates, per exchange ClassRef, the teacher who
	// runs that class's 自立 sessions (Phase 3).
	JiritsuTeachers map[domain.ClassRef]domain.Teacher
	// JiritsuWeeklyQuota is how many 自立 periods each exchange class needs
	// per week (typically 2).
	JiritsuWeeklyQuota int

	// PETeachers designates, per regular ClassRef, the teacher who runs
	// that class's PE (Phase 4). Exchange classes mirror their parent's PE
	// with the parent's designated teacher; Phase 4 places no PE for the
	// 5-組 classes.
	PETeachers map[domain.ClassRef]domain.Teacher

	// Roster resolves which teacher teaches a given (class, subject) for
	// every other subject (Phases 5, 6, 8), drawn from Input 2.
	Roster *domain.TeacherMapping

	// BacktrackDepth caps the 1-step backtracking recursion (default 3).
	BacktrackDepth int
}

// Pipeline wires the schedule, tracker, and constraint registry together and
// runs placement Phases 1-8 in order. Phase 9 (local optimization) is the
// hill-climbing repair loop, run separately by the engine once Run returns.
type Pipeline struct {
	Schedule *store.Schedule
	Tracker  *tracker.Tracker
	Registry *constraints.Registry
	Ctx      *constraints.Context
	Config   Config
	Logger   *zap.Logger
}

// New builds a Pipeline. logger may be nil, in which case a no-op logger is
// used, the same default-a-nil-*zap.Logger pattern used throughout this
// codebase.
func New(schedule *store.Schedule, tr *tracker.Tracker, registry *constraints.Registry, cctx *constraints.Context, cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BacktrackDepth <= 0 {
		cfg.BacktrackDepth = 3
	}
	if cfg.Classes == nil {
		cfg.Classes = domain.AllClasses()
	}
	return &Pipeline{Schedule: schedule, Tracker: tr, Registry: registry, Ctx: cctx, Config: cfg, Logger: logger}
}

// Run executes every phase in order, checking ctx between phases (never
// mid-mutation). It returns early with ctx.Err() if the context is
// cancelled between phases.
func (p *Pipeline) Run(ctx context.Context, input *domain.InputGrid) error {
	phases := []struct {
		name string
		fn   func(context.Context, *domain.InputGrid) error
	}{
		{"protect-initialize", p.phaseProtectAndInitialize},
		{"joint-grade5", p.phaseJointGrade5},
		{"exchange-jiritsu", p.phaseExchangeJiritsu},
		{"pe-distribution", p.phasePEDistribution},
		{"major-academics", p.phaseMajorAcademics},
		{"skill-subjects", p.phaseSkillSubjects},
		{"exchange-sync", p.phaseExchangeSync},
		{"empty-fill", p.phaseEmptyFill},
	}
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			p.Logger.Warn("pipeline cancelled between phases", zap.String("next_phase", phase.name), zap.Error(err))
			return err
		}
		p.Logger.Debug("pipeline phase starting", zap.String("phase", phase.name))
		if err := phase.fn(ctx, input); err != nil {
			p.Logger.Error("pipeline phase failed", zap.String("phase", phase.name), zap.Error(err))
			return err
		}
	}
	return nil
}

// sortedClasses returns Config.Classes in canonical order.
func (p *Pipeline) sortedClasses() []domain.ClassRef {
	classes := append([]domain.ClassRef{}, p.Config.Classes...)
	sort.Slice(classes, func(i, j int) bool { return classes[i].Less(classes[j]) })
	return classes
}

// teacherFor resolves the roster teacher for (class, subject), if any.
func (p *Pipeline) teacherFor(class domain.ClassRef, subject string) (domain.Teacher, bool) {
	if p.Config.Roster == nil {
		return domain.Teacher{}, false
	}
	return p.Config.Roster.TeacherFor(class, subject)
}

// remainingHours returns how many more periods (class, subject) still needs
// to meet its standard-hours target (zero if already met or untracked).
func (p *Pipeline) remainingHours(class domain.ClassRef, subject string) int {
	target, ok := p.Ctx.StandardHours.Get(class, subject)
	if !ok {
		return 0
	}
	placed := p.Schedule.CountSubjectPlaced(class, subject)
	if placed >= target {
		return 0
	}
	return target - placed
}

// tryPlace attempts to commit assignment at slot: it runs the full
// constraint registry's point check (honoring the given relaxation stage),
// and on success assigns in the schedule and registers the teacher in the
// tracker. It returns false (doing nothing) if the point check fails.
func (p *Pipeline) tryPlace(slot domain.TimeSlot, a domain.Assignment, ignore map[domain.Priority]bool) bool {
	if failed := p.Registry.CheckPoint(p.Ctx, slot, a, ignore); failed != nil {
		return false
	}
	joint := false
	if a.Teacher != nil {
		ok, isJoint := p.Tracker.CanAssign(*a.Teacher, slot, a.Class)
		if !ok {
			return false
		}
		joint = isJoint
	}
	if err := p.Schedule.Assign(slot, a); err != nil {
		return false
	}
	if a.Teacher != nil {
		p.Tracker.Register(*a.Teacher, slot, a.Class, joint)
		if p.Schedule.Grade5Sync && a.Class.IsGrade5() {
			for _, sibling := range domain.Grade5Siblings() {
				if sibling != a.Class {
					p.Tracker.Register(*a.Teacher, slot, sibling, true)
				}
			}
		}
	}
	return true
}

// removeAt clears (slot, class) from both the schedule and the tracker,
// returning the assignment that was there. Used by 1-step backtracking to
// displace a conflicting placement.
func (p *Pipeline) removeAt(slot domain.TimeSlot, class domain.ClassRef) (domain.Assignment, bool) {
	a, ok := p.Schedule.Get(slot, class)
	if !ok {
		return domain.Assignment{}, false
	}
	if err := p.Schedule.Remove(slot, class); err != nil {
		return domain.Assignment{}, false
	}
	if a.Teacher != nil {
		p.Tracker.Unregister(a.Teacher.ID, slot, class)
		if p.Schedule.Grade5Sync && class.IsGrade5() {
			for _, sibling := range domain.Grade5Siblings() {
				if sibling != class {
					p.Tracker.Unregister(a.Teacher.ID, slot, sibling)
				}
			}
		}
	}
	return a, true
}
