package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
	pkgconfig "github.com/kanjilab/jhs-scheduler/pkg/config"
)

func TestBuildEngineConfigMergesScalarsAndRoster(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	cfg := &pkgconfig.Config{
		Scheduler: pkgconfig.SchedulerConfig{
			AcademicDailyCap:       2,
			SkillDailyCap:          1,
			StandardHoursTolerance: 1,
			BacktrackDepth:         3,
			MaxRepairIterations:    100,
		},
	}
	roster := SchoolRoster{
		Classes:       []domain.ClassRef{class},
		StandardHours: domain.StandardHoursTable{},
	}

	engineCfg, err := BuildEngineConfig(cfg, roster)
	require.NoError(t, err)
	require.Equal(t, []domain.ClassRef{class}, engineCfg.Classes)
	require.Equal(t, 2, engineCfg.AcademicDailyCap)
	require.Equal(t, 100, engineCfg.MaxRepairIterations)
}

func TestBuildEngineConfigRejectsEmptyRoster(t *testing.T) {
	_, err := BuildEngineConfig(&pkgconfig.Config{}, SchoolRoster{})
	require.Error(t, err)
}

func TestBuildEngineConfigRejectsNilConfig(t *testing.T) {
	_, err := BuildEngineConfig(nil, SchoolRoster{Classes: []domain.ClassRef{{Grade: 1, Number: 1}}})
	require.Error(t, err)
}
