package scrapers

import (
	"context"

	"github.com/shopspring/decimal"

	"pricescout/internal/models"
)

// ScrapedItem is one raw parsed record from a fetch, prior to
// unification. A null price means the item could not be priced and is
// treated as out of stock downstream.
type ScrapedItem struct {
	Name     string              `json:"name"`
	Price    decimal.NullDecimal `json:"price"`
	URL      string              `json:"url"`
	ImageURL string              `json:"image_url,omitempty"`
	InStock  bool                `json:"in_stock"`
}

// SiteScraper fetches and parses one site's search results. Scrape
// never fails the caller: fetch errors are retried internally and then
// degrade to an empty result, and a malformed item drops only itself.
type SiteScraper interface {
	SiteName() string
	Type() models.ScraperType
	Scrape(ctx context.Context, keyword, category string) []ScrapedItem
}
