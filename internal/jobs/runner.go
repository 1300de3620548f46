// Package jobs drives the scrape job lifecycle: create PENDING jobs,
// run them against the right scraper and record the outcome.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/uptrace/bun"

	"pricescout/internal/models"
	"pricescout/internal/repositories"
	"pricescout/internal/scrapers"
	"pricescout/internal/unify"
)

// Runner executes scrape jobs synchronously. Status transitions are
// persisted as they happen, so RUNNING and the terminal states are
// visible to concurrent readers mid-run.
type Runner struct {
	db       *bun.DB
	registry *scrapers.Registry
	unifier  *unify.Unifier
}

func NewRunner(db *bun.DB, registry *scrapers.Registry, unifier *unify.Unifier) *Runner {
	return &Runner{db: db, registry: registry, unifier: unifier}
}

// CreateJob persists a new PENDING job against an existing source.
func (r *Runner) CreateJob(ctx context.Context, sourceID int64, keyword, category string) (*models.ScrapeJob, error) {
	source, err := repositories.SourceByID(ctx, r.db, sourceID)
	if err != nil {
		return nil, err
	}

	job := &models.ScrapeJob{
		SourceID: source.ID,
		Keyword:  keyword,
		Category: category,
		Status:   models.JobPending,
	}
	if err := repositories.InsertJob(ctx, r.db, job); err != nil {
		return nil, err
	}
	job.Source = source
	return job, nil
}

// RunJob executes one PENDING job to completion. A job whose scraper
// cannot be resolved ends FAILED with the cause recorded; a scraper
// that cannot reach its site ends COMPLETED with zero items, because
// fetch failures are absorbed inside the scraper. Either way the job
// ends terminal with completed-at stamped.
func (r *Runner) RunJob(ctx context.Context, jobID int64) (*models.ScrapeJob, error) {
	job, err := repositories.JobByID(ctx, r.db, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != models.JobPending {
		return nil, fmt.Errorf("job %d has status %s: %w", jobID, job.Status, models.ErrInvalidJobState)
	}

	now := time.Now()
	job.Status = models.JobRunning
	job.StartedAt = &now
	if err := repositories.UpdateJobState(ctx, r.db, job); err != nil {
		return nil, err
	}

	scraper, err := r.registry.Get(job.Source.ScraperType)
	if err != nil {
		r.finishJob(ctx, job, 0, err)
		return job, nil
	}

	items := scraper.Scrape(ctx, job.Keyword, job.Category)
	saved := r.unifier.SaveResults(ctx, items, job.Source)
	log.Printf("job %d completed: %d items found, %d saved for keyword %q",
		job.ID, len(items), saved, job.Keyword)

	r.finishJob(ctx, job, len(items), nil)
	return job, nil
}

// finishJob stamps the terminal state and updates the source counters.
func (r *Runner) finishJob(ctx context.Context, job *models.ScrapeJob, itemsFound int, cause error) {
	done := time.Now()
	job.CompletedAt = &done
	job.ItemsFound = itemsFound

	if cause != nil {
		job.Status = models.JobFailed
		job.ErrorMessage = cause.Error()
		log.Printf("job %d failed for keyword %q: %v", job.ID, job.Keyword, cause)
	} else {
		job.Status = models.JobCompleted
	}

	if err := repositories.UpdateJobState(ctx, r.db, job); err != nil {
		log.Printf("persisting terminal state of job %d: %v", job.ID, err)
	}
	if err := repositories.RecordScrapeResult(ctx, r.db, job.Source, cause == nil); err != nil {
		log.Printf("recording scrape result for source %d: %v", job.SourceID, err)
	}
}

// RunPendingJobs runs every PENDING job in creation order. One job's
// failure does not stop the rest.
func (r *Runner) RunPendingJobs(ctx context.Context) {
	pending, err := repositories.JobsByStatus(ctx, r.db, models.JobPending)
	if err != nil {
		log.Printf("listing pending jobs: %v", err)
		return
	}
	log.Printf("scheduled scraping: %d pending job(s)", len(pending))

	for _, job := range pending {
		if _, err := r.RunJob(ctx, job.ID); err != nil {
			log.Printf("running job %d: %v", job.ID, err)
		}
	}
}

// JobByID fetches one job with its source.
func (r *Runner) JobByID(ctx context.Context, id int64) (*models.ScrapeJob, error) {
	return repositories.JobByID(ctx, r.db, id)
}

// Jobs lists all jobs, newest first.
func (r *Runner) Jobs(ctx context.Context) ([]*models.ScrapeJob, error) {
	return repositories.Jobs(ctx, r.db)
}
