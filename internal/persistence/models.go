package persistence

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RunRecordStatus mirrors engine.OutcomeKind as a stored lifecycle value.
type RunRecordStatus string

const (
	RunRecordStatusOk                 RunRecordStatus = "OK"
	RunRecordStatusPartialSolution    RunRecordStatus = "PARTIAL_SOLUTION"
	RunRecordStatusUnsolvableCritical RunRecordStatus = "UNSOLVABLE_CRITICAL"
)

// RunRecord persists one versioned generation run for a school scope (e.g.
// "2026-1" for a school year/term identifier), along with its violation
// report, the same shape as the SemesterSchedule/SemesterScheduleSlot pair
// this package is grounded on: a header row plus JSON detail rather than
// one row per violation, since violations are read back as a whole report,
// not queried individually.
type RunRecord struct {
	ID        string          `db:"id" json:"id"`
	ScopeID   string          `db:"scope_id" json:"scope_id"`
	RunID     string          `db:"run_id" json:"run_id"`
	Version   int             `db:"version" json:"version"`
	Status    RunRecordStatus `db:"status" json:"status"`
	Score     float64         `db:"score" json:"score"`
	Grid      types.JSONText  `db:"grid" json:"grid"`
	Report    types.JSONText  `db:"report" json:"report"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
