package engine

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kanjilab/jhs-scheduler/internal/constraints"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/pipeline"
	"github.com/kanjilab/jhs-scheduler/internal/repair"
	"github.com/kanjilab/jhs-scheduler/internal/store"
	"github.com/kanjilab/jhs-scheduler/internal/tracker"
	pkgerrors "github.com/kanjilab/jhs-scheduler/pkg/errors"
)

// Engine owns one constraint registry and configuration and can run any
// number of independent Generate calls, each against its own fresh
// Schedule/Tracker pair: no external mutation while generation is in
// progress.
type Engine struct {
	Registry *constraints.Registry
	Config   Config
	Logger   *zap.Logger
}

// New builds an Engine. A nil logger defaults to zap.NewNop(), mirroring
// every other component in this lineage that threads a *zap.Logger by
// reference rather than reaching for a package-level one.
func New(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Registry: constraints.DefaultRegistry(), Config: cfg, Logger: logger}
}

// Generate runs one full pipeline-then-repair cycle against input, roster,
// and followUp, and classifies the result per the outcome contract. The
// returned error is non-nil only for infrastructure-level failures
// (context cancellation); an unsatisfiable Critical invariant is reported
// as OutcomeUnsolvableCritical, not a Go error.
func (e *Engine) Generate(ctx context.Context, input *domain.InputGrid, roster *domain.TeacherMapping, followUp *domain.FollowUpDirectives) (*Outcome, error) {
	runID := uuid.NewString()
	logger := e.Logger.With(zap.String("run_id", runID))

	sched := store.New()
	tr := tracker.New(e.Config.SlotCaps)
	cctx := &constraints.Context{
		Schedule:               sched,
		Tracker:                tr,
		FollowUp:               followUp,
		StandardHours:          e.Config.StandardHours,
		AcademicDailyCap:       e.Config.AcademicDailyCap,
		SkillDailyCap:          e.Config.SkillDailyCap,
		StandardHoursTolerance: e.Config.StandardHoursTolerance,
		PreferredBands:         e.Config.PreferredBands,
		GymSubject:             e.Config.GymSubject,
	}

	pipelineCfg := pipeline.Config{
		Classes:            e.Config.Classes,
		Grade5Teachers:     e.Config.Grade5Teachers,
		JiritsuTeachers:    e.Config.JiritsuTeachers,
		JiritsuWeeklyQuota: e.Config.JiritsuWeeklyQuota,
		PETeachers:         e.Config.PETeachers,
		Roster:             roster,
		BacktrackDepth:     e.Config.BacktrackDepth,
	}
	p := pipeline.New(sched, tr, e.Registry, cctx, pipelineCfg, logger)
	if err := p.Run(ctx, input); err != nil {
		logger.Error("placement pipeline aborted", zap.Error(err))
		return nil, pkgerrors.Wrap(err, "PIPELINE_ABORTED", 500, "placement pipeline aborted")
	}

	repairCfg := repair.Config{
		Classes:       e.Config.Classes,
		Roster:        roster,
		MaxIterations: e.Config.MaxRepairIterations,
	}
	optimizer := repair.New(sched, tr, e.Registry, cctx, repairCfg, logger)
	repairResult := optimizer.Run(ctx)

	outcome := &Outcome{
		RunID:            runID,
		Kind:             classify(repairResult.FinalViolations),
		Schedule:         e.exportGrid(sched),
		Violations:       repairResult.FinalViolations,
		RepairIterations: repairResult.Iterations,
	}

	switch outcome.Kind {
	case OutcomeUnsolvableCritical:
		logger.Warn("generation finished unsolvable", zap.Int("violations", len(outcome.Violations)))
	case OutcomePartialSolution:
		logger.Info("generation finished with residual soft violations", zap.Int("violations", len(outcome.Violations)))
	default:
		logger.Info("generation finished clean")
	}

	return outcome, nil
}

// exportGrid converts every committed cell into the output grid's shape.
func (e *Engine) exportGrid(sched *store.Schedule) *domain.OutputGrid {
	grid := domain.NewInputGrid()
	for _, record := range sched.AllFilled() {
		grid.Set(record.Class, record.Slot, record.Assignment.Subject.Code)
	}
	return grid
}
