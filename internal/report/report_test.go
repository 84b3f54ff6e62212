package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

func TestCSVReportSaveGridWritesHeaderAndRows(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	grid := domain.NewInputGrid()
	grid.Set(class, domain.TimeSlot{Day: domain.Monday, Period: 1}, domain.CodeMath)

	r := NewCSVReport([]domain.ClassRef{class})
	var buf bytes.Buffer
	require.NoError(t, r.SaveGrid(context.Background(), &buf, grid))

	out := buf.String()
	require.Contains(t, out, "class")
	require.Contains(t, out, "mon_1")
	require.Contains(t, out, domain.CodeMath)
}

func TestCSVReportSaveGridRejectsCancelledContext(t *testing.T) {
	r := NewCSVReport(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := r.SaveGrid(ctx, &buf, domain.NewInputGrid())
	require.Error(t, err)
}

func TestPDFReportRenderProducesNonEmptyDocument(t *testing.T) {
	class := domain.ClassRef{Grade: 1, Number: 1}
	grid := domain.NewInputGrid()
	grid.Set(class, domain.TimeSlot{Day: domain.Monday, Period: 1}, domain.CodeMath)

	r := NewPDFReport([]domain.ClassRef{class}, "Weekly Timetable")
	data, err := r.Render(grid)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
