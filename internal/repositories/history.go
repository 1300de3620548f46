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

// InsertHistory appends a price observation. History rows are never
// updated or deleted.
func InsertHistory(ctx context.Context, db bun.IDB, h *models.PriceHistory) error {
	_, err := db.NewInsert().Model(h).Exec(ctx)
	return err
}

// HistoryByListing lists a listing's observations newest first.
func HistoryByListing(ctx context.Context, db bun.IDB, listingID int64) ([]*models.PriceHistory, error) {
	var entries []*models.PriceHistory
	err := db.NewSelect().
		Model(&entries).
		Where("ph.listing_id = ?", listingID).
		Order("ph.scraped_at DESC").
		Scan(ctx)
	return entries, err
}

// OldestHistorySince fetches the oldest observation for a listing
// recorded at or after the cutoff. The anchor of price-change analytics.
func OldestHistorySince(ctx context.Context, db bun.IDB, listingID int64, since time.Time) (*models.PriceHistory, error) {
	h := new(models.PriceHistory)
	err := db.NewSelect().
		Model(h).
		Where("ph.listing_id = ?", listingID).
		Where("ph.scraped_at >= ?", since).
		Order("ph.scraped_at ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history for listing %d since %s: %w", listingID, since.Format(time.RFC3339), models.ErrNotFound)
	}
	return h, err
}

// TrendingRow is one product ranked by observation count.
type TrendingRow struct {
	ProductID   int64  `bun:"product_id"`
	ProductName string `bun:"product_name"`
	ScrapeCount int64  `bun:"scrape_count"`
}

// TrendingCounts ranks non-deleted products by how often they have been
// observed, descending.
func TrendingCounts(ctx context.Context, db bun.IDB, limit int) ([]TrendingRow, error) {
	var rows []TrendingRow
	err := db.NewSelect().
		Model((*models.PriceHistory)(nil)).
		ColumnExpr("ph.product_id AS product_id").
		ColumnExpr("p.name AS product_name").
		ColumnExpr("COUNT(*) AS scrape_count").
		Join("JOIN products AS p ON p.id = ph.product_id").
		Where("p.deleted_at IS NULL").
		GroupExpr("ph.product_id, p.name").
		OrderExpr("COUNT(*) DESC").
		Limit(limit).
		Scan(ctx, &rows)
	return rows, err
}
