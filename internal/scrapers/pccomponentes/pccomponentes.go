// Package pccomponentes reads the PCComponentes search API. Unlike the
// other sites there is no HTML involved, the endpoint returns JSON.
package pccomponentes

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pricescout/internal/models"
	"pricescout/internal/ratelimit"
	"pricescout/internal/scrapers"
)

const Site = "pccomponentes"

const (
	baseURL       = "https://www.pccomponentes.com"
	defaultAPIURL = baseURL + "/api/search"
	pageSize      = 24
)

type Scraper struct {
	// APIURL is overridable so tests can point at a local server.
	APIURL string

	client  *http.Client
	limiter ratelimit.Limiter
	retry   ratelimit.Config
}

func New(limiters *ratelimit.SourceLimiters) *Scraper {
	return &Scraper{
		APIURL:  defaultAPIURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: limiters.For(Site),
		retry:   limiters.Config(Site),
	}
}

func (s *Scraper) SiteName() string { return "PCComponentes" }

func (s *Scraper) Type() models.ScraperType { return models.ScraperPCComponentes }

func (s *Scraper) Scrape(ctx context.Context, keyword, category string) []scrapers.ScrapedItem {
	var items []scrapers.ScrapedItem

	err := scrapers.Retry(ctx, s.retry, "pccomponentes search", func() error {
		parsed, err := s.fetchProducts(ctx, keyword)
		if err != nil {
			return err
		}
		items = parsed
		return nil
	})
	if err != nil {
		log.Printf("scraping pccomponentes for %q: %v", keyword, err)
		return nil
	}
	return items
}

type searchResponse struct {
	Data []searchItem `json:"data"`
}

type searchItem struct {
	Name  string          `json:"name"`
	Price json.RawMessage `json:"price"`
	Slug  string          `json:"slug"`
	Photo string          `json:"photo"`
}

func (s *Scraper) fetchProducts(ctx context.Context, keyword string) ([]scrapers.ScrapedItem, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("perPage", strconv.Itoa(pageSize))
	params.Set("page", "1")
	searchURL := s.APIURL + "?" + params.Encode()

	log.Printf("scraping pccomponentes: %s", searchURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pccomponentes search returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding pccomponentes response: %w", err)
	}
	return parseItems(body.Data), nil
}

func parseItems(raw []searchItem) []scrapers.ScrapedItem {
	items := make([]scrapers.ScrapedItem, 0, len(raw))
	for _, it := range raw {
		if it.Name == "" {
			continue
		}

		price := scrapers.ParsePrice(rawString(it.Price))
		var itemURL string
		if it.Slug != "" {
			itemURL = baseURL + "/" + it.Slug
		}

		items = append(items, scrapers.ScrapedItem{
			Name:     it.Name,
			Price:    price,
			URL:      itemURL,
			ImageURL: it.Photo,
			InStock:  price.Valid,
		})
	}
	return items
}

// rawString flattens a price field that the API emits either as a
// number or as a quoted string with a comma decimal separator.
func rawString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	return strings.Trim(s, `"`)
}
