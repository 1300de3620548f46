package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"pricescout/internal/models"
)

// ListingByURL fetches a listing by exact URL match.
func ListingByURL(ctx context.Context, db bun.IDB, url string) (*models.Listing, error) {
	l := new(models.Listing)
	err := db.NewSelect().
		Model(l).
		Where("l.url = ?", url).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing for %s: %w", url, models.ErrNotFound)
	}
	return l, err
}

// ListingByProductAndSource fetches the unique listing for a
// (product, source) pair.
func ListingByProductAndSource(ctx context.Context, db bun.IDB, productID, sourceID int64) (*models.Listing, error) {
	l := new(models.Listing)
	err := db.NewSelect().
		Model(l).
		Where("l.product_id = ?", productID).
		Where("l.source_id = ?", sourceID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing for product %d on source %d: %w", productID, sourceID, models.ErrNotFound)
	}
	return l, err
}

// ListingsByProduct lists all listings of a product with their sources
// loaded. Ordering by price happens in Go because prices are stored as
// decimals.
func ListingsByProduct(ctx context.Context, db bun.IDB, productID int64) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := db.NewSelect().
		Model(&listings).
		Relation("Source").
		Where("l.product_id = ?", productID).
		Scan(ctx)
	return listings, err
}

// PricedListings lists every listing that currently carries a price,
// with product and source loaded, for analytics sweeps.
func PricedListings(ctx context.Context, db bun.IDB) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := db.NewSelect().
		Model(&listings).
		Relation("Product").
		Relation("Source").
		Where("l.current_price IS NOT NULL").
		Scan(ctx)
	return listings, err
}

// InsertListing persists a new listing.
func InsertListing(ctx context.Context, db bun.IDB, l *models.Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	_, err := db.NewInsert().Model(l).Exec(ctx)
	return err
}

// UpdateListing persists the mutable scrape-state of a listing.
func UpdateListing(ctx context.Context, db bun.IDB, l *models.Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	_, err := db.NewUpdate().
		Model(l).
		Column("url", "current_price", "in_stock", "last_scraped_at", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}
