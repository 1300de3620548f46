// Package analytics derives read-only views from the price history:
// biggest movers, most observed products and cross-source comparisons.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"pricescout/internal/models"
	"pricescout/internal/repositories"
)

// Engine answers analytics queries. It never writes.
type Engine struct {
	db *bun.DB
}

func NewEngine(db *bun.DB) *Engine {
	return &Engine{db: db}
}

// PriceChange describes how one listing's price moved over a window.
type PriceChange struct {
	ProductID        int64           `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ListingID        int64           `json:"listing_id"`
	SourceName       string          `json:"source_name"`
	URL              string          `json:"url"`
	PreviousPrice    decimal.Decimal `json:"previous_price"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	PriceChange      decimal.Decimal `json:"price_change"`
	ChangePercentage float64         `json:"change_percentage"`
}

// TrendingProduct is a product ranked by scrape activity.
type TrendingProduct struct {
	ProductID          int64               `json:"product_id"`
	ProductName        string              `json:"product_name"`
	ScrapeCount        int64               `json:"scrape_count"`
	LowestCurrentPrice decimal.NullDecimal `json:"lowest_current_price"`
}

// ListingPrice is one row of a cross-source comparison.
type ListingPrice struct {
	ListingID     int64               `json:"listing_id"`
	SourceName    string              `json:"source_name"`
	CurrentPrice  decimal.NullDecimal `json:"current_price"`
	InStock       bool                `json:"in_stock"`
	URL           string              `json:"url"`
	LastScrapedAt *time.Time          `json:"last_scraped_at,omitempty"`
}

// PriceComparison lists every source selling a product, cheapest first.
type PriceComparison struct {
	ProductID   int64          `json:"product_id"`
	ProductName string         `json:"product_name"`
	Listings    []ListingPrice `json:"listings"`
}

// TopPriceDrops returns the listings whose price fell the most over
// the last days, steepest drop first.
func (e *Engine) TopPriceDrops(ctx context.Context, days, limit int) ([]PriceChange, error) {
	changes, err := e.priceChanges(ctx, days)
	if err != nil {
		return nil, err
	}

	drops := changes[:0]
	for _, c := range changes {
		if c.PriceChange.IsNegative() {
			drops = append(drops, c)
		}
	}
	sort.Slice(drops, func(i, j int) bool {
		return drops[i].ChangePercentage < drops[j].ChangePercentage
	})
	if len(drops) > limit {
		drops = drops[:limit]
	}
	return drops, nil
}

// TopPriceIncreases returns the listings whose price rose the most
// over the last days, steepest rise first.
func (e *Engine) TopPriceIncreases(ctx context.Context, days, limit int) ([]PriceChange, error) {
	changes, err := e.priceChanges(ctx, days)
	if err != nil {
		return nil, err
	}

	rises := changes[:0]
	for _, c := range changes {
		if c.PriceChange.IsPositive() {
			rises = append(rises, c)
		}
	}
	sort.Slice(rises, func(i, j int) bool {
		return rises[i].ChangePercentage > rises[j].ChangePercentage
	})
	if len(rises) > limit {
		rises = rises[:limit]
	}
	return rises, nil
}

// priceChanges sweeps every priced listing and measures its move since
// the oldest observation inside the window. Listings without history
// in the window, or whose baseline price is zero, are skipped.
func (e *Engine) priceChanges(ctx context.Context, days int) ([]PriceChange, error) {
	listings, err := repositories.PricedListings(ctx, e.db)
	if err != nil {
		return nil, err
	}
	since := time.Now().AddDate(0, 0, -days)

	var changes []PriceChange
	for _, l := range listings {
		// The Product relation carries the soft-delete filter, so a
		// listing of a deleted product comes back without one.
		if l.Product == nil {
			continue
		}

		oldest, err := repositories.OldestHistorySince(ctx, e.db, l.ID, since)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if oldest.Price.IsZero() {
			continue
		}

		current := l.CurrentPrice.Decimal
		change := current.Sub(oldest.Price)
		pct, _ := change.DivRound(oldest.Price, 4).Mul(decimal.NewFromInt(100)).Float64()

		changes = append(changes, PriceChange{
			ProductID:        l.ProductID,
			ProductName:      l.Product.Name,
			ListingID:        l.ID,
			SourceName:       l.Source.Name,
			URL:              l.URL,
			PreviousPrice:    oldest.Price,
			CurrentPrice:     current,
			PriceChange:      change,
			ChangePercentage: pct,
		})
	}
	return changes, nil
}

// Trending ranks products by observation count and attaches the lowest
// price currently asked for each, null when no listing carries one.
func (e *Engine) Trending(ctx context.Context, limit int) ([]TrendingProduct, error) {
	rows, err := repositories.TrendingCounts(ctx, e.db, limit)
	if err != nil {
		return nil, err
	}

	trending := make([]TrendingProduct, 0, len(rows))
	for _, row := range rows {
		listings, err := repositories.ListingsByProduct(ctx, e.db, row.ProductID)
		if err != nil {
			return nil, err
		}

		var lowest decimal.NullDecimal
		for _, l := range listings {
			if !l.CurrentPrice.Valid {
				continue
			}
			if !lowest.Valid || l.CurrentPrice.Decimal.LessThan(lowest.Decimal) {
				lowest = l.CurrentPrice
			}
		}

		trending = append(trending, TrendingProduct{
			ProductID:          row.ProductID,
			ProductName:        row.ProductName,
			ScrapeCount:        row.ScrapeCount,
			LowestCurrentPrice: lowest,
		})
	}
	return trending, nil
}

// CompareProduct lists every source's offer for a product, cheapest
// first. Unpriced listings sort last.
func (e *Engine) CompareProduct(ctx context.Context, productID int64) (*PriceComparison, error) {
	listings, err := repositories.ListingsByProduct(ctx, e.db, productID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("no listings for product %d: %w", productID, models.ErrNotFound)
	}

	sort.Slice(listings, func(i, j int) bool {
		a, b := listings[i].CurrentPrice, listings[j].CurrentPrice
		if a.Valid != b.Valid {
			return a.Valid
		}
		if !a.Valid {
			return false
		}
		return a.Decimal.LessThan(b.Decimal)
	})

	product, err := repositories.ProductByID(ctx, e.db, productID)
	if err != nil {
		return nil, err
	}

	comparison := &PriceComparison{
		ProductID:   productID,
		ProductName: product.Name,
		Listings:    make([]ListingPrice, 0, len(listings)),
	}
	for _, l := range listings {
		name := ""
		if l.Source != nil {
			name = l.Source.Name
		}
		comparison.Listings = append(comparison.Listings, ListingPrice{
			ListingID:     l.ID,
			SourceName:    name,
			CurrentPrice:  l.CurrentPrice,
			InStock:       l.InStock,
			URL:           l.URL,
			LastScrapedAt: l.LastScrapedAt,
		})
	}
	return comparison, nil
}
