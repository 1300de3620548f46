// Package mediamarkt scrapes MediaMarkt ES search pages. The visible
// listing is rendered client side, but the server embeds a schema.org
// ItemList as JSON-LD, which carries everything we need.
package mediamarkt

import (
	"context"
	"encoding/json"
	"log"
	"net/url"

	"github.com/gocolly/colly/v2"
	"github.com/shopspring/decimal"

	"pricescout/internal/models"
	"pricescout/internal/ratelimit"
	"pricescout/internal/scrapers"
)

const Site = "mediamarkt"

const defaultSearchURL = "https://www.mediamarkt.es/es/search.html"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Scraper struct {
	// SearchURL is overridable so tests can point at a local server.
	SearchURL string

	limiter ratelimit.Limiter
	retry   ratelimit.Config
}

func New(limiters *ratelimit.SourceLimiters) *Scraper {
	return &Scraper{
		SearchURL: defaultSearchURL,
		limiter:   limiters.For(Site),
		retry:     limiters.Config(Site),
	}
}

func (s *Scraper) SiteName() string { return "MediaMarkt ES" }

func (s *Scraper) Type() models.ScraperType { return models.ScraperMediaMarkt }

func (s *Scraper) Scrape(ctx context.Context, keyword, category string) []scrapers.ScrapedItem {
	var items []scrapers.ScrapedItem

	err := scrapers.Retry(ctx, s.retry, "mediamarkt search", func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		items = items[:0]
		found := false

		c := colly.NewCollector(
			colly.UserAgent(userAgent),
			colly.AllowURLRevisit(),
		)
		c.OnRequest(func(r *colly.Request) {
			r.Headers.Set("Accept-Language", "es-ES,es;q=0.9")
			r.Headers.Set("Accept", "text/html,application/xhtml+xml")
		})
		c.OnHTML(`script[type="application/ld+json"]`, func(e *colly.HTMLElement) {
			if found {
				return
			}
			if parsed, ok := parseJSONLD([]byte(e.Text)); ok {
				items = parsed
				found = true
			}
		})

		searchURL := s.SearchURL + "?query=" + url.QueryEscape(keyword)
		log.Printf("scraping mediamarkt: %s", searchURL)
		if err := c.Visit(searchURL); err != nil {
			return err
		}
		c.Wait()

		if !found {
			log.Printf("no ItemList JSON-LD found in mediamarkt response")
		}
		return nil
	})
	if err != nil {
		log.Printf("scraping mediamarkt for %q: %v", keyword, err)
		return nil
	}
	return items
}

// ldProduct is one schema.org Product inside the ItemList. The list
// can wrap each entry as ListItem{item: Product}, so both shapes are
// accepted.
type ldProduct struct {
	Type  string     `json:"@type"`
	Name  string     `json:"name"`
	URL   string     `json:"url"`
	Image string     `json:"image"`
	Item  *ldProduct `json:"item"`

	Offers struct {
		Price flexNumber `json:"price"`
	} `json:"offers"`
}

// flexNumber accepts a JSON-LD price written either as a number or as
// a quoted string; both appear in the wild.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexNumber(n.String())
	return nil
}

type ldItemList struct {
	Type     string      `json:"@type"`
	Elements []ldProduct `json:"itemListElement"`
}

// parseJSONLD decodes one JSON-LD script body. The payload is either a
// single object or an array of objects; only an ItemList counts.
func parseJSONLD(data []byte) ([]scrapers.ScrapedItem, bool) {
	var list ldItemList
	if err := json.Unmarshal(data, &list); err == nil && list.Type == "ItemList" {
		return parseItemList(list), true
	}

	var lists []ldItemList
	if err := json.Unmarshal(data, &lists); err == nil {
		for _, l := range lists {
			if l.Type == "ItemList" {
				return parseItemList(l), true
			}
		}
	}
	return nil, false
}

func parseItemList(list ldItemList) []scrapers.ScrapedItem {
	items := make([]scrapers.ScrapedItem, 0, len(list.Elements))
	for _, el := range list.Elements {
		product := el
		if el.Item != nil {
			product = *el.Item
		}
		if product.Name == "" {
			continue
		}

		price := parsePrice(product.Offers.Price)
		items = append(items, scrapers.ScrapedItem{
			Name:     product.Name,
			Price:    price,
			URL:      product.URL,
			ImageURL: product.Image,
			InStock:  price.Valid,
		})
	}
	return items
}

func parsePrice(n flexNumber) decimal.NullDecimal {
	if n == "" {
		return decimal.NullDecimal{}
	}
	p, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: p, Valid: true}
}
