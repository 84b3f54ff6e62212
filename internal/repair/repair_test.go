package repair

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kanjilab/jhs-scheduler/internal/constraints"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/store"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
)

func newTestOptimizer(t *testing.T, classes []domain.ClassRef) (*Optimizer, *store.Schedule, *constraints.Context) {
	t.Helper()
	sched := store.New()
	tr := tracker.New(nil)
	roster := domain.NewTeacherMapping()
	cctx := &constraints.Context{
		Schedule:               sched,
		Tracker:                tr,
		FollowUp:               domain.NewFollowUp(),
		StandardHours:          domain.StandardHoursTable{},
		AcademicDailyCap:       2,
		SkillDailyCap:          1,
		StandardHoursTolerance: 1,
	}
	registry := constraints.DefaultRegistry()
	o := New(sched, tr, registry, cctx, Config{Classes: classes, Roster: roster}, nil)
	return o, sched, cctx
}

func TestRunConvergesWithNoViolations(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	o, _, _ := newTestOptimizer(t, []domain.ClassRef{class})

	result := o.Run(context.Background())
	require.Equal(t, 0, result.Iterations)
	require.Equal(t, float64(0), result.InitialScore)
	require.Equal(t, float64(0), result.FinalScore)
}

func TestRunNeverTouchesTestPeriodCell(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	o, sched, cctx := newTestOptimizer(t, []domain.ClassRef{class})

	teacherMath := domain.Teacher{ID: "t-math", Name: "Math Teacher"}
	teacherEnglish := domain.Teacher{ID: "t-eng", Name: "English Teacher"}
	o.Config.Roster.Teachers[teacherMath.ID] = teacherMath
	o.Config.Roster.Teachers[teacherEnglish.ID] = teacherEnglish
	o.Config.Roster.Entries = append(o.Config.Roster.Entries,
		domain.RosterEntry{Class: class, Subject: domain.CodeMath, TeacherID: teacherMath.ID},
		domain.RosterEntry{Class: class, Subject: domain.CodeEnglish, TeacherID: teacherEnglish.ID},
	)

	testSlot := domain.TimeSlot{Day: domain.Monday, Period: 1}
	cctx.FollowUp.TestSlots[testSlot] = true
	require.NoError(t, sched.Assign(testSlot, domain.Assignment{Class: class, Subject: domain.LookupSubject(domain.CodeTestPeriod)}))
	require.NoError(t, sched.Lock(testSlot, class))

	o.Run(context.Background())

	a, ok := sched.Get(testSlot, class)
	require.True(t, ok)
	require.Equal(t, domain.CodeTestPeriod, a.Subject.Code)
	require.True(t, sched.IsLocked(testSlot, class))
}

func TestScanReplaceRejectsWhenNoRosterAlternative(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	o, sched, _ := newTestOptimizer(t, []domain.ClassRef{class})
	teacher := domain.Teacher{ID: "t-math", Name: "Math Teacher"}
	o.Config.Roster.Teachers[teacher.ID] = teacher
	o.Config.Roster.Entries = append(o.Config.Roster.Entries, domain.RosterEntry{Class: class, Subject: domain.CodeMath, TeacherID: teacher.ID})

	slot := domain.TimeSlot{Day: domain.Monday, Period: 1}
	require.NoError(t, sched.Assign(slot, domain.Assignment{Class: class, Subject: domain.LookupSubject(domain.CodeMath), Teacher: &teacher}))

	_, _, found := o.scanReplace(o.score())
	require.False(t, found, "only one feasible subject exists so no replacement should improve the score")
}

func TestCrossClassSwapImprovesDailyDuplicateScore(t *testing.T) {
	classA := domain.ClassRef{Grade: 1, Number: 1}
	classB := domain.ClassRef{Grade: 1, Number: 2}
	o, sched, cctx := newTestOptimizer(t, []domain.ClassRef{classA, classB})
	cctx.AcademicDailyCap = 1

	mathTeacher := domain.Teacher{ID: "t-math", Name: "Math Teacher"}
	englishTeacher := domain.Teacher{ID: "t-eng", Name: "English Teacher"}

	slot := domain.TimeSlot{Day: domain.Monday, Period: 3}
	otherMathSlotA := domain.TimeSlot{Day: domain.Monday, Period: 1}

	// classA already has Math earlier on Monday; placing Math again at
	// `slot` creates a same-day duplicate. classB holds English at `slot`.
	// Swapping gives classA English (no duplicate) and classB Math.
	require.NoError(t, sched.Assign(otherMathSlotA, domain.Assignment{Class: classA, Subject: domain.LookupSubject(domain.CodeMath), Teacher: &mathTeacher}))
	require.NoError(t, sched.Assign(slot, domain.Assignment{Class: classA, Subject: domain.LookupSubject(domain.CodeMath), Teacher: &mathTeacher}))
	require.NoError(t, sched.Assign(slot, domain.Assignment{Class: classB, Subject: domain.LookupSubject(domain.CodeEnglish), Teacher: &englishTeacher}))

	before := o.score()
	move, after, found := o.scanCrossClassSwap(before)
	require.True(t, found)
	require.Less(t, after, before)
	move.commit()

	a, ok := sched.Get(slot, classA)
	require.True(t, ok)
	require.Equal(t, domain.CodeEnglish, a.Subject.Code)
	b, ok := sched.Get(slot, classB)
	require.True(t, ok)
	require.Equal(t, domain.CodeMath, b.Subject.Code)
}
