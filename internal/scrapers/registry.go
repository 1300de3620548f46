package scrapers

import (
	"fmt"

	"pricescout/internal/models"
)

// Registry maps scraper tags to scraper instances. It is built once at
// startup from the full set of available scrapers and never mutated
// afterwards.
type Registry struct {
	scrapers map[models.ScraperType]SiteScraper
}

// NewRegistry builds a registry from the given scrapers.
func NewRegistry(scrapers ...SiteScraper) *Registry {
	m := make(map[models.ScraperType]SiteScraper, len(scrapers))
	for _, s := range scrapers {
		m[s.Type()] = s
	}
	return &Registry{scrapers: m}
}

// Get resolves the scraper for a tag.
func (r *Registry) Get(t models.ScraperType) (SiteScraper, error) {
	s, ok := r.scrapers[t]
	if !ok {
		return nil, fmt.Errorf("scraper for type %s: %w", t, models.ErrNotFound)
	}
	return s, nil
}

// All returns every registered scraper.
func (r *Registry) All() []SiteScraper {
	out := make([]SiteScraper, 0, len(r.scrapers))
	for _, s := range r.scrapers {
		out = append(out, s)
	}
	return out
}
