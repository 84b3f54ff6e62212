package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunRecordRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRunRecordRepositoryCreateVersioned(t *testing.T) {
	db, mock, cleanup := newRunRecordRepoMock(t)
	defer cleanup()
	repo := NewRunRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) + 1 FROM run_records WHERE scope_id = $1")).
		WithArgs("2026-1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO run_records")).
		WithArgs(sqlmock.AnyArg(), "2026-1", "run-1", 3, string(RunRecordStatusOk), 0.0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &RunRecord{ScopeID: "2026-1", RunID: "run-1", Status: RunRecordStatusOk}
	err := repo.CreateVersioned(context.Background(), nil, record)
	require.NoError(t, err)
	assert.Equal(t, 3, record.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRecordRepositoryListByScope(t *testing.T) {
	db, mock, cleanup := newRunRecordRepoMock(t)
	defer cleanup()
	repo := NewRunRecordRepository(db)

	rows := sqlmock.NewRows([]string{"id", "scope_id", "run_id", "version", "status", "score", "grid", "report", "created_at", "updated_at"}).
		AddRow("rec-1", "2026-1", "run-1", 1, string(RunRecordStatusOk), 0.0, types.JSONText(`{}`), types.JSONText(`[]`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, scope_id, run_id, version, status, score, grid, report, created_at, updated_at\nFROM run_records WHERE scope_id = $1 ORDER BY version DESC")).
		WithArgs("2026-1").
		WillReturnRows(rows)

	list, err := repo.ListByScope(context.Background(), "2026-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRecordRepositoryFindByRunID(t *testing.T) {
	db, mock, cleanup := newRunRecordRepoMock(t)
	defer cleanup()
	repo := NewRunRecordRepository(db)

	rows := sqlmock.NewRows([]string{"id", "scope_id", "run_id", "version", "status", "score", "grid", "report", "created_at", "updated_at"}).
		AddRow("rec-1", "2026-1", "run-1", 1, string(RunRecordStatusOk), 0.0, types.JSONText(`{}`), types.JSONText(`[]`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, scope_id, run_id, version, status, score, grid, report, created_at, updated_at\nFROM run_records WHERE run_id = $1")).
		WithArgs("run-1").
		WillReturnRows(rows)

	record, err := repo.FindByRunID(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRecordRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRunRecordRepoMock(t)
	defer cleanup()
	repo := NewRunRecordRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE run_records SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(string(RunRecordStatusPartialSolution), sqlmock.AnyArg(), "rec-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdateStatus(context.Background(), nil, "rec-1", RunRecordStatusPartialSolution)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRecordRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRunRecordRepoMock(t)
	defer cleanup()
	repo := NewRunRecordRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM run_records WHERE id = $1")).
		WithArgs("rec-1").
		WillReturnResult(sqlmock.NewResult(1, 0))

	err := repo.Delete(context.Background(), "rec-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
