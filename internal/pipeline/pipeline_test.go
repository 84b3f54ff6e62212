package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kanjilab/jhs-scheduler/internal/constraints"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/store"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
)

func newTestPipeline(t *testing.T, classes []domain.ClassRef) (*Pipeline, *constraints.Context) {
	t.Helper()
	sched := store.New()
	tr := tracker.New(nil)
	cctx := &constraints.Context{
		Schedule:               sched,
		Tracker:                tr,
		FollowUp:               domain.NewFollowUp(),
		StandardHours:          domain.StandardHoursTable{},
		AcademicDailyCap:       2,
		SkillDailyCap:          1,
		StandardHoursTolerance: 1,
	}
	roster := domain.NewTeacherMapping()
	cfg := Config{
		Classes:            classes,
		Grade5Teachers:     map[string]domain.Teacher{},
		JiritsuTeachers:    map[domain.ClassRef]domain.Teacher{},
		JiritsuWeeklyQuota: 2,
		PETeachers:         map[domain.ClassRef]domain.Teacher{},
		Roster:             roster,
		BacktrackDepth:      3,
	}
	registry := constraints.DefaultRegistry()
	p := New(sched, tr, registry, cctx, cfg, nil)
	return p, cctx
}

func TestProtectPhaseLocksFixedAndTestCells(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	p, cctx := newTestPipeline(t, []domain.ClassRef{class})
	input := domain.NewInputGrid()
	mondaySixth := domain.TimeSlot{Day: domain.Monday, Period: 6}
	input.Set(class, mondaySixth, domain.CodeAbsence)
	testSlot := domain.TimeSlot{Day: domain.Tuesday, Period: 2}
	cctx.FollowUp.TestSlots[testSlot] = true
	input.Set(class, testSlot, domain.CodeTestPeriod)

	require.NoError(t, p.phaseProtectAndInitialize(context.Background(), input))
	require.True(t, p.Schedule.IsLocked(mondaySixth, class))
	require.True(t, p.Schedule.IsLocked(testSlot, class))
}

func TestProtectPhaseInjectsWeeklyDefaultsWhenInputIsSilent(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	p, _ := newTestPipeline(t, []domain.ClassRef{class})
	input := domain.NewInputGrid()

	require.NoError(t, p.phaseProtectAndInitialize(context.Background(), input))

	mondaySixth := domain.TimeSlot{Day: domain.Monday, Period: 6}
	a, ok := p.Schedule.Get(mondaySixth, class)
	require.True(t, ok)
	require.Equal(t, domain.CodeAbsence, a.Subject.Code)
	require.True(t, p.Schedule.IsLocked(mondaySixth, class))

	for _, day := range []domain.Day{domain.Tuesday, domain.Wednesday, domain.Friday} {
		slot := domain.TimeSlot{Day: day, Period: 6}
		a, ok := p.Schedule.Get(slot, class)
		require.True(t, ok)
		require.Equal(t, domain.CodeYT, a.Subject.Code)
		require.True(t, p.Schedule.IsLocked(slot, class))
	}

	thursdaySixth := domain.TimeSlot{Day: domain.Thursday, Period: 6}
	_, ok = p.Schedule.Get(thursdaySixth, class)
	require.False(t, ok)
}

func TestProtectPhaseRespectsInputOverrideOfWeeklyDefault(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	p, _ := newTestPipeline(t, []domain.ClassRef{class})
	input := domain.NewInputGrid()
	mondaySixth := domain.TimeSlot{Day: domain.Monday, Period: 6}
	input.Set(class, mondaySixth, domain.CodeMorals)

	require.NoError(t, p.phaseProtectAndInitialize(context.Background(), input))

	a, ok := p.Schedule.Get(mondaySixth, class)
	require.True(t, ok)
	require.Equal(t, domain.CodeMorals, a.Subject.Code)
}

func TestJointGrade5PlacesAllThreeSiblings(t *testing.T) {
	siblings := domain.Grade5Siblings()
	p, cctx := newTestPipeline(t, siblings)
	cctx.StandardHours.Set(siblings[0], domain.CodeMath, 4)
	teacher := domain.Teacher{ID: "t-math5", Name: "Grade5 Math"}
	p.Config.Grade5Teachers[domain.CodeMath] = teacher

	lockedSlot := domain.TimeSlot{Day: domain.Monday, Period: 6}
	require.NoError(t, p.Schedule.Assign(lockedSlot, domain.Assignment{Class: siblings[0], Subject: domain.LookupSubject(domain.CodeAbsence)}))
	require.NoError(t, p.Schedule.Lock(lockedSlot, siblings[0]))
	// Phase 1 leaves mirrored 5-組 assignment switched on for later phases.
	p.Schedule.Grade5Sync = true
	require.NoError(t, p.phaseJointGrade5(context.Background(), domain.NewInputGrid()))

	found := false
	for _, slot := range domain.AllSlots() {
		a0, ok0 := p.Schedule.Get(slot, siblings[0])
		a1, ok1 := p.Schedule.Get(slot, siblings[1])
		a2, ok2 := p.Schedule.Get(slot, siblings[2])
		if ok0 && ok1 && ok2 && a0.Subject.Code == domain.CodeMath && a1.Subject.Code == domain.CodeMath && a2.Subject.Code == domain.CodeMath {
			found = true
		}
	}
	require.True(t, found, "expected at least one slot with all three 5-組 siblings placed")
}

func TestPEDistributionMirrorsToExchangeChild(t *testing.T) {
	parent := domain.ClassRef{Grade: 1, Number: 1}
	child := domain.ClassRef{Grade: 1, Number: 6}
	p, cctx := newTestPipeline(t, []domain.ClassRef{parent, child})
	cctx.StandardHours.Set(parent, domain.CodePE, 3)
	teacher := domain.Teacher{ID: "t-pe", Name: "PE Teacher"}
	p.Config.PETeachers[parent] = teacher

	require.NoError(t, p.phasePEDistribution(context.Background(), domain.NewInputGrid()))

	pePlaced := false
	for _, slot := range domain.AllSlots() {
		parentAssignment, ok := p.Schedule.Get(slot, parent)
		if !ok || parentAssignment.Subject.Code != domain.CodePE {
			continue
		}
		childAssignment, ok := p.Schedule.Get(slot, child)
		require.True(t, ok, "expected exchange child to mirror parent's PE slot")
		require.Equal(t, domain.CodePE, childAssignment.Subject.Code)
		pePlaced = true
	}
	require.True(t, pePlaced)
}

func TestEmptyFillNeverTouchesLockedCells(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	p, _ := newTestPipeline(t, []domain.ClassRef{class})
	teacher := domain.Teacher{ID: "t-math", Name: "Math Teacher"}
	p.Config.Roster.Teachers[teacher.ID] = teacher
	p.Config.Roster.Entries = append(p.Config.Roster.Entries, domain.RosterEntry{Class: class, Subject: domain.CodeMath, TeacherID: teacher.ID})

	slot := domain.TimeSlot{Day: domain.Monday, Period: 1}
	require.NoError(t, p.Schedule.Assign(slot, domain.Assignment{Class: class, Subject: domain.LookupSubject(domain.CodeHomeroom)}))
	require.NoError(t, p.Schedule.Lock(slot, class))

	require.NoError(t, p.phaseEmptyFill(context.Background(), domain.NewInputGrid()))
	a, ok := p.Schedule.Get(slot, class)
	require.True(t, ok)
	require.Equal(t, domain.CodeHomeroom, a.Subject.Code)
}
