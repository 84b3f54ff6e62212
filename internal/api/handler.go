// Package api exposes the scheduler as a thin three-route HTTP surface: a
// caller of the engine (via internal/jobs), not the engine, and using the
// same response.Envelope/pkg-errors conventions every handler in this
// lineage uses.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/engine"
	"github.com/kanjilab/jhs-scheduler/internal/jobs"
	"github.com/kanjilab/jhs-scheduler/internal/report"
	appErrors "github.com/kanjilab/jhs-scheduler/pkg/errors"
	"github.com/kanjilab/jhs-scheduler/pkg/response"
)

// generationService is the slice of *jobs.GenerationQueue this handler
// actually calls, narrowed so tests can substitute a fake.
type generationService interface {
	Submit(req jobs.GenerationRequest) (string, error)
	Poll(ctx context.Context, runID string) (*engine.Outcome, bool, error)
}

// gridRenderer is the slice of *report.CSVReport this handler calls.
type gridRenderer interface {
	SaveGrid(ctx context.Context, dst io.Writer, grid *domain.OutputGrid) error
}

// ScheduleHandler exposes schedule generation over HTTP.
type ScheduleHandler struct {
	queue    generationService
	csv      gridRenderer
	validate *validator.Validate
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(queue *jobs.GenerationQueue, csv *report.CSVReport) *ScheduleHandler {
	return &ScheduleHandler{queue: queue, csv: csv, validate: validator.New()}
}

// RegisterRoutes wires the three routes onto group.
func (h *ScheduleHandler) RegisterRoutes(group gin.IRouter) {
	group.POST("/schedules/generate", h.Generate)
	group.GET("/schedules/generate/:runID", h.Status)
	group.GET("/schedules/generate/:runID/report.csv", h.Report)
}

// Generate godoc
// @Summary Submit a schedule generation run
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body generateRequest true "Generation inputs"
// @Success 202 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	input, roster, followUp, err := req.toDomain()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	runID, err := h.queue.Submit(jobs.GenerationRequest{Input: input, Roster: roster, FollowUp: followUp})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to submit generation job"))
		return
	}
	response.JSON(c, http.StatusAccepted, generateAcceptedResponse{RunID: runID})
}

// Status godoc
// @Summary Poll the result of a submitted generation run
// @Tags Scheduler
// @Produce json
// @Param runID path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/generate/{runID} [get]
func (h *ScheduleHandler) Status(c *gin.Context) {
	outcome, found, err := h.lookup(c)
	if err != nil || !found {
		return
	}
	response.JSON(c, http.StatusOK, toOutcomeResponse(outcome))
}

// Report godoc
// @Summary Download a completed run's schedule as CSV
// @Tags Scheduler
// @Produce text/csv
// @Param runID path string true "Run ID"
// @Success 200 {file} file
// @Router /schedules/generate/{runID}/report.csv [get]
func (h *ScheduleHandler) Report(c *gin.Context) {
	outcome, found, err := h.lookup(c)
	if err != nil || !found {
		return
	}
	if outcome.Schedule == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrConflict, "run produced no schedule to render"))
		return
	}

	runID := c.Param("runID")
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", runID))
	if err := h.csv.SaveGrid(c.Request.Context(), c.Writer, outcome.Schedule); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to render report"))
	}
}

func (h *ScheduleHandler) lookup(c *gin.Context) (*engine.Outcome, bool, error) {
	runID := c.Param("runID")
	outcome, found, err := h.queue.Poll(c.Request.Context(), runID)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read run status"))
		return nil, false, err
	}
	if !found {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "run not found or still in progress"))
		return nil, false, nil
	}
	return outcome, true, nil
}

func toOutcomeResponse(outcome *engine.Outcome) outcomeResponse {
	return outcomeResponse{
		RunID:            outcome.RunID,
		Status:           outcome.Kind.String(),
		Schedule:         toCellDTOs(outcome.Schedule),
		Violations:       toViolationDTOs(outcome.Violations),
		RepairIterations: outcome.RepairIterations,
	}
}
