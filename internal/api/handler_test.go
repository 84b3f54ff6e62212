package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/engine"
	"github.com/kanjilab/jhs-scheduler/internal/jobs"
)

type fakeGenerationService struct {
	submitted jobs.GenerationRequest
	submitErr error
	runID     string

	outcome *engine.Outcome
	found   bool
	pollErr error
}

func (f *fakeGenerationService) Submit(req jobs.GenerationRequest) (string, error) {
	f.submitted = req
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.runID, nil
}

func (f *fakeGenerationService) Poll(ctx context.Context, runID string) (*engine.Outcome, bool, error) {
	return f.outcome, f.found, f.pollErr
}

type fakeGridRenderer struct{}

func (fakeGridRenderer) SaveGrid(ctx context.Context, dst io.Writer, grid *domain.OutputGrid) error {
	_, err := dst.Write([]byte("csv-body"))
	return err
}

const validGeneratePayload = `{
  "scopeId": "2026-1",
  "roster": {
    "teachers": [{"id": "t-math", "name": "Math Teacher"}],
    "entries": [{"grade": 1, "number": 1, "subject": "数", "teacherId": "t-math"}]
  }
}`

func TestGenerateAcceptsValidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeGenerationService{runID: "run-1"}
	h := &ScheduleHandler{queue: svc, csv: fakeGridRenderer{}, validate: validator.New()}

	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader([]byte(validGeneratePayload)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, svc.submitted.Roster.Entries, 1)
	require.Equal(t, domain.CodeMath, svc.submitted.Roster.Entries[0].Subject)
}

func TestGenerateRejectsMissingRoster(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &ScheduleHandler{queue: &fakeGenerationService{}, csv: fakeGridRenderer{}, validate: validator.New()}

	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader([]byte(`{"scopeId":"2026-1"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusReturnsNotFoundWhenRunUnknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &ScheduleHandler{queue: &fakeGenerationService{found: false}, csv: fakeGridRenderer{}, validate: validator.New()}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/schedules/generate/missing", nil)
	c.Params = gin.Params{{Key: "runID", Value: "missing"}}

	h.Status(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusReturnsOutcomeWhenFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	outcome := &engine.Outcome{RunID: "run-1", Kind: engine.OutcomeOk}
	h := &ScheduleHandler{queue: &fakeGenerationService{found: true, outcome: outcome}, csv: fakeGridRenderer{}, validate: validator.New()}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/schedules/generate/run-1", nil)
	c.Params = gin.Params{{Key: "runID", Value: "run-1"}}

	h.Status(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"status\":\"ok\"")
}

func TestReportWritesCSVBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	outcome := &engine.Outcome{RunID: "run-1", Kind: engine.OutcomeOk, Schedule: domain.NewInputGrid()}
	h := &ScheduleHandler{queue: &fakeGenerationService{found: true, outcome: outcome}, csv: fakeGridRenderer{}, validate: validator.New()}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/schedules/generate/run-1/report.csv", nil)
	c.Params = gin.Params{{Key: "runID", Value: "run-1"}}

	h.Report(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "csv-body", w.Body.String())
}
