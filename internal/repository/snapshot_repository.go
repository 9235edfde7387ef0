package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
)

// SnapshotRepository persists versioned schedule snapshots.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// CreateVersioned inserts a snapshot assigning the next version for the project.
func (r *SnapshotRepository) CreateVersioned(ctx context.Context, snapshot *models.ScheduleSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot payload is nil")
	}
	if snapshot.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	if snapshot.Status == "" {
		snapshot.Status = models.ScheduleSnapshotStatusDraft
	}
	if len(snapshot.Payload) == 0 {
		snapshot.Payload = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}
	snapshot.UpdatedAt = now

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM schedule_snapshots WHERE project_id = $1`
	if err := sqlx.GetContext(ctx, r.db, &snapshot.Version, nextVersionQuery, snapshot.ProjectID); err != nil {
		return fmt.Errorf("compute next schedule snapshot version: %w", err)
	}

	const insertQuery = `
INSERT INTO schedule_snapshots (id, project_id, fingerprint, version, status, total_days, score, payload, created_at, updated_at)
VALUES (:id, :project_id, :fingerprint, :version, :status, :total_days, :score, :payload, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, insertQuery, snapshot); err != nil {
		return fmt.Errorf("insert schedule snapshot: %w", err)
	}
	return nil
}

// ListByProject returns all snapshot versions for the project, newest first.
func (r *SnapshotRepository) ListByProject(ctx context.Context, projectID string) ([]models.ScheduleSnapshot, error) {
	const query = `SELECT id, project_id, fingerprint, version, status, total_days, score, payload, created_at, updated_at
FROM schedule_snapshots WHERE project_id = $1 ORDER BY version DESC`
	var snapshots []models.ScheduleSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, projectID); err != nil {
		return nil, fmt.Errorf("list schedule snapshots: %w", err)
	}
	return snapshots, nil
}

// FindByID loads a snapshot by its identifier.
func (r *SnapshotRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSnapshot, error) {
	const query = `SELECT id, project_id, fingerprint, version, status, total_days, score, payload, created_at, updated_at
FROM schedule_snapshots WHERE id = $1`
	var snapshot models.ScheduleSnapshot
	if err := r.db.GetContext(ctx, &snapshot, query, id); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Delete removes a stored snapshot version.
func (r *SnapshotRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedule_snapshots WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete schedule snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule snapshot rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
