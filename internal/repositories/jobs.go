package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"pricescout/internal/models"
)

// JobByID fetches a job with its source loaded.
func JobByID(ctx context.Context, db bun.IDB, id int64) (*models.ScrapeJob, error) {
	j := new(models.ScrapeJob)
	err := db.NewSelect().
		Model(j).
		Relation("Source").
		Where("j.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", id, models.ErrNotFound)
	}
	return j, err
}

// Jobs lists all jobs, newest first.
func Jobs(ctx context.Context, db bun.IDB) ([]*models.ScrapeJob, error) {
	var jobs []*models.ScrapeJob
	err := db.NewSelect().
		Model(&jobs).
		Relation("Source").
		Order("j.created_at DESC").
		Scan(ctx)
	return jobs, err
}

// JobsByStatus lists jobs in a given state, oldest first so pending
// work runs in creation order.
func JobsByStatus(ctx context.Context, db bun.IDB, status models.JobStatus) ([]*models.ScrapeJob, error) {
	var jobs []*models.ScrapeJob
	err := db.NewSelect().
		Model(&jobs).
		Where("j.status = ?", status).
		Order("j.created_at ASC").
		Scan(ctx)
	return jobs, err
}

// InsertJob persists a new job.
func InsertJob(ctx context.Context, db bun.IDB, j *models.ScrapeJob) error {
	_, err := db.NewInsert().Model(j).Exec(ctx)
	return err
}

// UpdateJobState persists a job's lifecycle fields.
func UpdateJobState(ctx context.Context, db bun.IDB, j *models.ScrapeJob) error {
	_, err := db.NewUpdate().
		Model(j).
		Column("status", "items_found", "error_message", "started_at", "completed_at").
		WherePK().
		Exec(ctx)
	return err
}
