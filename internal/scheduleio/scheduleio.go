// Package scheduleio declares the external I/O boundary: reading the
// three inputs and writing the output grid. CSV/PDF parsing of the inputs
// is explicitly out of scope for this repository (it ships with the
// caller); only the contract and the output-rendering half
// (internal/report) live here.
package scheduleio

import (
	"context"
	"io"

	"github.com/kanjilab/jhs-scheduler/internal/domain"
)

// ScheduleIO is the external collaborator contract: load the three inputs,
// save the one output. No implementation of the Load* methods ships in this
// repository; SaveGrid is implemented by internal/report.
type ScheduleIO interface {
	LoadBaseTimetable(ctx context.Context, src io.Reader) (*domain.InputGrid, error)
	LoadTeacherMapping(ctx context.Context, src io.Reader) (*domain.TeacherMapping, error)
	LoadFollowUp(ctx context.Context, src io.Reader) (*domain.FollowUpDirectives, error)
	SaveGrid(ctx context.Context, dst io.Writer, grid *domain.OutputGrid) error
}
