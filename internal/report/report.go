// Package report renders a completed timetable grid to CSV and PDF,
// implementing the output-rendering half of scheduleio.ScheduleIO.
// Input parsing is out of scope; this package only ever writes.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
	"github.com/kanjilab/jhs-scheduler/internal/scheduleio"
	"github.com/kanjilab/jhs-scheduler/pkg/export"
)

// columnHeader names one (day, period) column, e.g. "mon_1".
func columnHeader(slot domain.TimeSlot) string {
	return fmt.Sprintf("%s_%d", strings.ToLower(slot.Day.String()), slot.Period)
}

// toDataset flattens a grid into pkg/export.Dataset shape: one row per
// class, one column per (day, period) slot plus a leading "class" column,
// in canonical order.
func toDataset(grid *domain.OutputGrid, classes []domain.ClassRef) export.Dataset {
	headers := make([]string, 0, 1+len(domain.Days)*domain.PeriodsPerDay)
	headers = append(headers, "class")
	slots := domain.AllSlots()
	for _, slot := range slots {
		headers = append(headers, columnHeader(slot))
	}

	rows := make([]map[string]string, 0, len(classes))
	for _, class := range classes {
		row := map[string]string{"class": class.String()}
		for _, slot := range slots {
			code, ok := grid.Get(class, slot)
			if ok {
				row[columnHeader(slot)] = code
			}
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// CSVReport implements scheduleio.ScheduleIO's SaveGrid half via
// pkg/export.CSVExporter.
type CSVReport struct {
	Classes  []domain.ClassRef
	exporter *export.CSVExporter
}

var _ scheduleio.ScheduleIO = (*CSVReport)(nil)

// NewCSVReport builds a CSVReport. classes nil defaults to domain.AllClasses().
func NewCSVReport(classes []domain.ClassRef) *CSVReport {
	if classes == nil {
		classes = domain.AllClasses()
	}
	return &CSVReport{Classes: classes, exporter: export.NewCSVExporter()}
}

// SaveGrid renders grid as CSV and writes it to dst.
func (r *CSVReport) SaveGrid(ctx context.Context, dst io.Writer, grid *domain.OutputGrid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := r.exporter.Render(toDataset(grid, r.Classes))
	if err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	_, err = dst.Write(data)
	return err
}

// LoadBaseTimetable, LoadTeacherMapping, and LoadFollowUp are out of scope
// for this repository: input parsing ships with the caller. These
// exist only so CSVReport satisfies scheduleio.ScheduleIO for the SaveGrid
// half it does implement.
func (r *CSVReport) LoadBaseTimetable(ctx context.Context, src io.Reader) (*domain.InputGrid, error) {
	return nil, fmt.Errorf("report: LoadBaseTimetable not implemented, input parsing is out of scope")
}

func (r *CSVReport) LoadTeacherMapping(ctx context.Context, src io.Reader) (*domain.TeacherMapping, error) {
	return nil, fmt.Errorf("report: LoadTeacherMapping not implemented, input parsing is out of scope")
}

func (r *CSVReport) LoadFollowUp(ctx context.Context, src io.Reader) (*domain.FollowUpDirectives, error) {
	return nil, fmt.Errorf("report: LoadFollowUp not implemented, input parsing is out of scope")
}

// PDFReport renders a grid to a printable PDF via pkg/export.PDFExporter.
// It is a standalone rendering path, not a ScheduleIO implementation,
// since the output contract only names the grid shape, not a page format.
type PDFReport struct {
	Classes  []domain.ClassRef
	Title    string
	exporter *export.PDFExporter
}

// NewPDFReport builds a PDFReport. classes nil defaults to domain.AllClasses().
func NewPDFReport(classes []domain.ClassRef, title string) *PDFReport {
	if classes == nil {
		classes = domain.AllClasses()
	}
	return &PDFReport{Classes: classes, Title: title, exporter: export.NewPDFExporter()}
}

// Render produces a PDF rendering of grid.
func (r *PDFReport) Render(grid *domain.OutputGrid) ([]byte, error) {
	return r.exporter.Render(toDataset(grid, r.Classes), r.Title)
}
