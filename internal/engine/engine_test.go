package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

func TestGenerateSingleClassAllSubjectsProducesACompleteGrid(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}

	roster := domain.NewTeacherMapping()
	teachers := map[string]domain.Teacher{
		domain.CodeJapanese: {ID: "t-jp", Name: "Japanese Teacher"},
		domain.CodeMath:     {ID: "t-math", Name: "Math Teacher"},
		domain.CodeEnglish:  {ID: "t-eng", Name: "English Teacher"},
		domain.CodeScience:  {ID: "t-sci", Name: "Science Teacher"},
		domain.CodeSocial:   {ID: "t-soc", Name: "Social Studies Teacher"},
	}
	for subject, teacher := range teachers {
		roster.Teachers[teacher.ID] = teacher
		roster.Entries = append(roster.Entries, domain.RosterEntry{Class: class, Subject: subject, TeacherID: teacher.ID})
	}

	hours := domain.StandardHoursTable{}
	for subject := range teachers {
		hours.Set(class, subject, 4)
	}

	cfg := Config{
		Classes:                []domain.ClassRef{class},
		AcademicDailyCap:       2,
		SkillDailyCap:          1,
		StandardHoursTolerance: 1,
		StandardHours:          hours,
		BacktrackDepth:         3,
		MaxRepairIterations:    100,
	}
	e := New(cfg, nil)

	outcome, err := e.Generate(context.Background(), domain.NewInputGrid(), roster, domain.NewFollowUp())
	require.NoError(t, err)
	require.NotEmpty(t, outcome.RunID)
	require.NotEqual(t, OutcomeUnsolvableCritical, outcome.Kind)

	filled := 0
	for _, slot := range domain.AllSlots() {
		if _, ok := outcome.Schedule.Get(class, slot); ok {
			filled++
		}
	}
	require.Equal(t, domain.PeriodsPerDay*len(domain.Days), filled, "every cell for the only class should end up filled")
}

func TestGenerateIsDeterministicAcrossRepeatedRuns(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	roster := domain.NewTeacherMapping()
	teacher := domain.Teacher{ID: "t-math", Name: "Math Teacher"}
	roster.Teachers[teacher.ID] = teacher
	roster.Entries = append(roster.Entries, domain.RosterEntry{Class: class, Subject: domain.CodeMath, TeacherID: teacher.ID})

	cfg := Config{
		Classes:                []domain.ClassRef{class},
		AcademicDailyCap:       2,
		SkillDailyCap:          1,
		StandardHoursTolerance: 1,
		StandardHours:          domain.StandardHoursTable{},
		BacktrackDepth:         3,
		MaxRepairIterations:    100,
	}

	run := func() *domain.OutputGrid {
		e := New(cfg, nil)
		outcome, err := e.Generate(context.Background(), domain.NewInputGrid(), roster, domain.NewFollowUp())
		require.NoError(t, err)
		return outcome.Schedule
	}

	first := run()
	second := run()
	for _, slot := range domain.AllSlots() {
		a, aok := first.Get(class, slot)
		b, bok := second.Get(class, slot)
		require.Equal(t, aok, bok)
		require.Equal(t, a, b)
	}
}
