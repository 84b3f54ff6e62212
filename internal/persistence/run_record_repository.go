// Package persistence stores completed generation runs for later retrieval
// and audit, following the same sqlx/lib/pq versioned-repository shape as
// semester_schedule_repository.go. The engine itself never imports this
// package -- it is a downstream consumer that a caller wires in only when
// it wants durable history of past runs.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	// lib/pq registers the "postgres" driver used by callers that open the
	// *sqlx.DB passed into NewRunRecordRepository.
	_ "github.com/lib/pq"
)

// RunRecordRepository persists versioned run records.
type RunRecordRepository struct {
	db *sqlx.DB
}

// NewRunRecordRepository constructs repository.
func NewRunRecordRepository(db *sqlx.DB) *RunRecordRepository {
	return &RunRecordRepository{db: db}
}

func (r *RunRecordRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts a run record, assigning the next version for the
// scope (e.g. a school year/term identifier).
func (r *RunRecordRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, record *RunRecord) error {
	if record == nil {
		return fmt.Errorf("run record payload is nil")
	}
	if record.ScopeID == "" || record.RunID == "" {
		return fmt.Errorf("scope_id and run_id are required")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if len(record.Grid) == 0 {
		record.Grid = types.JSONText(`{}`)
	}
	if len(record.Report) == 0 {
		record.Report = types.JSONText(`[]`)
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM run_records WHERE scope_id = $1`
	if err := sqlx.GetContext(ctx, target, &record.Version, nextVersionQuery, record.ScopeID); err != nil {
		return fmt.Errorf("compute next run record version: %w", err)
	}

	const insertQuery = `
INSERT INTO run_records (id, scope_id, run_id, version, status, score, grid, report, created_at, updated_at)
VALUES (:id, :scope_id, :run_id, :version, :status, :score, :grid, :report, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, record); err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

// ListByScope returns every stored version for scopeID, newest first.
func (r *RunRecordRepository) ListByScope(ctx context.Context, scopeID string) ([]RunRecord, error) {
	const query = `SELECT id, scope_id, run_id, version, status, score, grid, report, created_at, updated_at
FROM run_records WHERE scope_id = $1 ORDER BY version DESC`
	var records []RunRecord
	if err := r.db.SelectContext(ctx, &records, query, scopeID); err != nil {
		return nil, fmt.Errorf("list run records: %w", err)
	}
	return records, nil
}

// FindByRunID loads the record for a specific engine run ID.
func (r *RunRecordRepository) FindByRunID(ctx context.Context, runID string) (*RunRecord, error) {
	const query = `SELECT id, scope_id, run_id, version, status, score, grid, report, created_at, updated_at
FROM run_records WHERE run_id = $1`
	var record RunRecord
	if err := r.db.GetContext(ctx, &record, query, runID); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateStatus updates the status of a stored run record.
func (r *RunRecordRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status RunRecordStatus) error {
	target := r.exec(exec)
	const query = `UPDATE run_records SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := target.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update run record status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("run record status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a stored run record.
func (r *RunRecordRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM run_records WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete run record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("run record rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
