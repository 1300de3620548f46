// Package unify folds raw scraped items into the canonical catalog:
// products, per-source listings and the append-only price history.
package unify

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/uptrace/bun"

	"pricescout/internal/alerts"
	"pricescout/internal/models"
	"pricescout/internal/repositories"
	"pricescout/internal/scrapers"
)

// Unifier persists scrape results. Alert checking runs after each
// item's transaction commits, so a notification is never sent for a
// price that did not make it to disk.
type Unifier struct {
	db     *bun.DB
	alerts *alerts.Engine
}

func New(db *bun.DB, alertEngine *alerts.Engine) *Unifier {
	return &Unifier{db: db, alerts: alertEngine}
}

// SaveResults stores the given items against a source and returns how
// many were saved. Items without a URL or price are skipped. Each item
// runs in its own transaction: a failing item rolls back alone and the
// rest of the batch continues.
func (u *Unifier) SaveResults(ctx context.Context, items []scrapers.ScrapedItem, source *models.Source) int {
	saved := 0
	for _, item := range items {
		if item.URL == "" || !item.Price.Valid {
			continue
		}

		var productID int64
		err := u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			id, err := processItem(ctx, tx, item, source)
			productID = id
			return err
		})
		if err != nil {
			log.Printf("failed to process scraped item %q: %v", item.Name, err)
			continue
		}
		saved++

		if u.alerts != nil {
			if err := u.alerts.CheckAlerts(ctx, productID, item.Price.Decimal); err != nil {
				log.Printf("checking alerts for product %d: %v", productID, err)
			}
		}
	}

	log.Printf("saved %d/%d scraped items from %s", saved, len(items), source.Name)
	return saved
}

// processItem resolves the item's listing, refreshes its price state
// and appends a history row. Returns the product id for alerting.
func processItem(ctx context.Context, tx bun.IDB, item scrapers.ScrapedItem, source *models.Source) (int64, error) {
	listing, err := repositories.ListingByURL(ctx, tx, item.URL)
	if errors.Is(err, models.ErrNotFound) {
		listing, err = resolveListing(ctx, tx, item, source)
	}
	if err != nil {
		return 0, err
	}

	now := time.Now()
	listing.CurrentPrice = item.Price
	listing.InStock = item.InStock
	listing.LastScrapedAt = &now

	if listing.ID == 0 {
		err = repositories.InsertListing(ctx, tx, listing)
	} else {
		err = repositories.UpdateListing(ctx, tx, listing)
	}
	if err != nil {
		return 0, err
	}

	history := &models.PriceHistory{
		ListingID: listing.ID,
		ProductID: listing.ProductID,
		Price:     item.Price.Decimal,
		InStock:   item.InStock,
		ScrapedAt: now,
	}
	if err := repositories.InsertHistory(ctx, tx, history); err != nil {
		return 0, err
	}
	return listing.ProductID, nil
}

// resolveListing finds or builds the listing for an item whose URL is
// new. The product is matched by exact case-insensitive name, so the
// same item name on two sites shares one product row. If the
// (product, source) pair already has a listing, it is reused and its
// URL overwritten.
func resolveListing(ctx context.Context, tx bun.IDB, item scrapers.ScrapedItem, source *models.Source) (*models.Listing, error) {
	product, err := repositories.ProductByName(ctx, tx, item.Name)
	if errors.Is(err, models.ErrNotFound) {
		product = &models.Product{Name: item.Name, ImageURL: item.ImageURL}
		err = repositories.InsertProduct(ctx, tx, product)
	}
	if err != nil {
		return nil, err
	}

	listing, err := repositories.ListingByProductAndSource(ctx, tx, product.ID, source.ID)
	if err == nil {
		listing.URL = item.URL
		return listing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	return &models.Listing{
		ProductID: product.ID,
		SourceID:  source.ID,
		URL:       item.URL,
		Currency:  "EUR",
	}, nil
}
