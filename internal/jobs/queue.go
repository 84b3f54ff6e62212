// Package jobs runs schedule-generation requests asynchronously on the
// existing worker-pool queue (pkg/jobs.Queue), one goroutine per in-flight
// request, each against its own fresh engine.Engine.Generate call: the
// engine never shares a Schedule/Tracker instance across goroutines.
package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kanjilab/jhs-scheduler/internal/cache"
	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/engine"
	pkgjobs "github.com/kanjilab/jhs-scheduler/pkg/jobs"
)

const jobType = "schedule.generate"

// GenerationRequest is the payload carried by one queued generation job.
type GenerationRequest struct {
	RunID    string
	Input    *domain.InputGrid
	Roster   *domain.TeacherMapping
	FollowUp *domain.FollowUpDirectives
}

// GenerationQueue adapts pkg/jobs.Queue to run engine.Engine.Generate calls
// in the background and publish their outcome to a ResultCache for later
// polling.
type GenerationQueue struct {
	queue   *pkgjobs.Queue
	engine  *engine.Engine
	results *cache.ResultCache
	logger  *zap.Logger
}

// NewGenerationQueue builds a GenerationQueue. logger may be nil.
func NewGenerationQueue(e *engine.Engine, results *cache.ResultCache, cfg pkgjobs.QueueConfig, logger *zap.Logger) *GenerationQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Logger = logger
	gq := &GenerationQueue{engine: e, results: results, logger: logger}
	gq.queue = pkgjobs.NewQueue("schedule-generation", gq.handle, cfg)
	return gq
}

// Start begins worker consumption.
func (q *GenerationQueue) Start(ctx context.Context) { q.queue.Start(ctx) }

// Stop cancels workers and waits for them to exit.
func (q *GenerationQueue) Stop() { q.queue.Stop() }

// Submit enqueues a generation request, assigning a run ID if req.RunID is
// empty, and returns that run ID for later Poll calls.
func (q *GenerationQueue) Submit(req GenerationRequest) (string, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	job := pkgjobs.Job{ID: req.RunID, Type: jobType, Payload: req}
	if err := q.queue.Enqueue(job); err != nil {
		return "", err
	}
	return req.RunID, nil
}

// Poll reports the cached outcome for runID, if the job has completed.
func (q *GenerationQueue) Poll(ctx context.Context, runID string) (*engine.Outcome, bool, error) {
	return q.results.Get(ctx, cache.Key(runID))
}

func (q *GenerationQueue) handle(ctx context.Context, job pkgjobs.Job) error {
	req, ok := job.Payload.(GenerationRequest)
	if !ok {
		return fmt.Errorf("jobs: unexpected payload type %T for job %s", job.Payload, job.ID)
	}
	outcome, err := q.engine.Generate(ctx, req.Input, req.Roster, req.FollowUp)
	if err != nil {
		return err
	}
	outcome.RunID = req.RunID
	if err := q.results.Save(ctx, cache.Key(req.RunID), outcome); err != nil {
		q.logger.Error("failed to cache generation outcome", zap.String("run_id", req.RunID), zap.Error(err))
		return err
	}
	return nil
}
