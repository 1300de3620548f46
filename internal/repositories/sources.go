package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"pricescout/internal/models"
)

// SourceByID fetches a source by id.
func SourceByID(ctx context.Context, db bun.IDB, id int64) (*models.Source, error) {
	src := new(models.Source)
	err := db.NewSelect().
		Model(src).
		Where("src.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %d: %w", id, models.ErrNotFound)
	}
	return src, err
}

// SourceByScraperType fetches the source carrying a scraper tag.
func SourceByScraperType(ctx context.Context, db bun.IDB, t models.ScraperType) (*models.Source, error) {
	src := new(models.Source)
	err := db.NewSelect().
		Model(src).
		Where("src.scraper_type = ?", t).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source for %s: %w", t, models.ErrNotFound)
	}
	return src, err
}

// Sources lists all sources.
func Sources(ctx context.Context, db bun.IDB) ([]*models.Source, error) {
	var srcs []*models.Source
	err := db.NewSelect().
		Model(&srcs).
		Order("name ASC").
		Scan(ctx)
	return srcs, err
}

// EnsureSource inserts a source unless one with the same scraper tag
// already exists, and returns the stored row either way. Used at
// startup to seed a row per registered scraper.
func EnsureSource(ctx context.Context, db bun.IDB, src *models.Source) (*models.Source, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	_, err := db.NewInsert().
		Model(src).
		On("CONFLICT (scraper_type) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return SourceByScraperType(ctx, db, src.ScraperType)
}

// RecordScrapeResult updates the source's bookkeeping after a job run.
func RecordScrapeResult(ctx context.Context, db bun.IDB, src *models.Source, ok bool) error {
	now := time.Now()
	src.LastScrapedAt = &now
	if ok {
		src.SuccessfulScrapes++
	} else {
		src.FailedScrapes++
	}

	_, err := db.NewUpdate().
		Model(src).
		Column("last_scraped_at", "successful_scrapes", "failed_scrapes", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}
