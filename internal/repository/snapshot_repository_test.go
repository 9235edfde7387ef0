package repository

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

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
)

func newSnapshotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSnapshotRepositoryCreateVersioned(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) + 1 FROM schedule_snapshots WHERE project_id = $1")).
		WithArgs("proj-1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_snapshots")).
		WithArgs(sqlmock.AnyArg(), "proj-1", "fp-abc", 3, string(models.ScheduleSnapshotStatusDraft), 2, 87.5, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	snapshot := &models.ScheduleSnapshot{
		ProjectID:   "proj-1",
		Fingerprint: "fp-abc",
		TotalDays:   2,
		Score:       87.5,
		Payload:     types.JSONText(`{"schedule":{}}`),
	}
	err := repo.CreateVersioned(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.Version)
	assert.NotEmpty(t, snapshot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryCreateVersionedRequiresProject(t *testing.T) {
	db, _, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	err := repo.CreateVersioned(context.Background(), &models.ScheduleSnapshot{})
	require.Error(t, err)
}

func TestSnapshotRepositoryListByProject(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	rows := sqlmock.NewRows([]string{"id", "project_id", "fingerprint", "version", "status", "total_days", "score", "payload", "created_at", "updated_at"}).
		AddRow("snap-2", "proj-1", "fp-2", 2, string(models.ScheduleSnapshotStatusDraft), 3, 91.0, types.JSONText(`{}`), time.Now(), time.Now()).
		AddRow("snap-1", "proj-1", "fp-1", 1, string(models.ScheduleSnapshotStatusConfirmed), 2, 80.0, types.JSONText(`{}`), time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, project_id, fingerprint, version").
		WithArgs("proj-1").
		WillReturnRows(rows)

	list, err := repo.ListByProject(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryFindByIDNoRows(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	mock.ExpectQuery("SELECT id, project_id, fingerprint, version").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSnapshotRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_snapshots WHERE id = $1")).
		WithArgs("snap-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "snap-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_snapshots WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
