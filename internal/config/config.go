// Package config assembles an engine.Config from the viper/godotenv-backed
// pkg/config.Config plus the school's structural roster data -- the parts
// (which teacher covers the 5-組 joint class, which teacher runs each
// class's PE, the standard-hours table) that do not fit a flat
// environment-variable schema and so are supplied directly by the caller
// rather than parsed here, the same division pkg/config.Load's own
// "edge-constructed, immutable" doc comment describes for the values it
// does own.
package config

import (
	"fmt"

	"github.com/kanjilab/jhs-scheduler/internal/constraints"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/engine"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
	pkgconfig "github.com/kanjilab/jhs-scheduler/pkg/config"
)

// SchoolRoster is the school-specific structural wiring engine.Config needs
// beyond pkg/config.SchedulerConfig's scalar tuning knobs.
type SchoolRoster struct {
	Classes            []domain.ClassRef
	Grade5Teachers     map[string]domain.Teacher
	JiritsuTeachers    map[domain.ClassRef]domain.Teacher
	JiritsuWeeklyQuota int
	PETeachers         map[domain.ClassRef]domain.Teacher
	GymSubject         string
	PreferredBands     map[string]constraints.PreferredBand
	SlotCaps           []tracker.SlotCap
	StandardHours      domain.StandardHoursTable
}

// BuildEngineConfig merges a SchoolRoster with the scalar tuning values
// loaded by pkg/config.Load into an engine.Config ready for engine.New.
func BuildEngineConfig(cfg *pkgconfig.Config, roster SchoolRoster) (engine.Config, error) {
	if cfg == nil {
		return engine.Config{}, fmt.Errorf("config: nil pkg/config.Config")
	}
	if len(roster.Classes) == 0 {
		return engine.Config{}, fmt.Errorf("config: roster has no classes")
	}

	return engine.Config{
		Classes:                roster.Classes,
		Grade5Teachers:         roster.Grade5Teachers,
		JiritsuTeachers:        roster.JiritsuTeachers,
		JiritsuWeeklyQuota:     roster.JiritsuWeeklyQuota,
		PETeachers:             roster.PETeachers,
		GymSubject:             roster.GymSubject,
		PreferredBands:         roster.PreferredBands,
		SlotCaps:               roster.SlotCaps,
		AcademicDailyCap:       cfg.Scheduler.AcademicDailyCap,
		SkillDailyCap:          cfg.Scheduler.SkillDailyCap,
		StandardHoursTolerance: cfg.Scheduler.StandardHoursTolerance,
		StandardHours:          roster.StandardHours,
		BacktrackDepth:         cfg.Scheduler.BacktrackDepth,
		MaxRepairIterations:    cfg.Scheduler.MaxRepairIterations,
	}, nil
}
