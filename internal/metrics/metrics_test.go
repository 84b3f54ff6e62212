package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/engine"
)

func TestObserveRunIncrementsCounterByOutcome(t *testing.T) {
	m := NewSchedulerMetrics()
	m.ObserveRun(engine.OutcomeOk, 250*time.Millisecond, 7)

	count := testutil.ToFloat64(m.runsTotal.WithLabelValues(engine.OutcomeOk.String()))
	assert.Equal(t, float64(1), count)
}

func TestObserveViolationsTalliesBySeverity(t *testing.T) {
	m := NewSchedulerMetrics()
	m.ObserveViolations([]domain.Violation{
		{Severity: domain.Critical},
		{Severity: domain.Critical},
		{Severity: domain.Medium},
	})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.violationsBySeverity.WithLabelValues("critical")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.violationsBySeverity.WithLabelValues("medium")))
}

func TestNilMetricsMethodsAreNoOps(t *testing.T) {
	var m *SchedulerMetrics
	require.NotPanics(t, func() {
		m.ObserveRun(engine.OutcomeOk, time.Second, 1)
		m.ObserveViolations([]domain.Violation{{Severity: domain.Low}})
	})
	require.NotNil(t, m.Handler())
}
