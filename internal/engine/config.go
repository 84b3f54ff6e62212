// Package engine is the top-level facade (the generator's entry point):
// it wires the domain model, schedule store, teacher tracker, constraint
// registry, placement pipeline, and repair loop into one Generate call and
// reports the three-way outcome contract.
package engine

import (
	"github.com/kanjilab/jhs-scheduler/internal/constraints"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
)

// Config is the immutable, edge-constructed configuration for one
// Generate call, assembled by the caller from pkg/config.SchedulerConfig
// plus the school-specific teacher assignments that do not belong in
// environment variables.
type Config struct {
	Classes []domain.ClassRef

	Grade5Teachers     map[string]domain.Teacher
	JiritsuTeachers    map[domain.ClassRef]domain.Teacher
	JiritsuWeeklyQuota int
	PETeachers         map[domain.ClassRef]domain.Teacher

	GymSubject     string
	PreferredBands map[string]constraints.PreferredBand
	SlotCaps       []tracker.SlotCap

	AcademicDailyCap       int
	SkillDailyCap          int
	StandardHoursTolerance int
	StandardHours          domain.StandardHoursTable

	BacktrackDepth      int
	MaxRepairIterations int
}
