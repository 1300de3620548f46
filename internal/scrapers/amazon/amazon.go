// Package amazon scrapes Amazon ES search result pages. The markup is
// server rendered, so a plain HTTP fetch plus HTML parsing is enough.
package amazon

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"pricescout/internal/models"
	"pricescout/internal/ratelimit"
	"pricescout/internal/scrapers"
)

const Site = "amazon"

const defaultBaseURL = "https://www.amazon.es"

// Amazon serves different markup per browser fingerprint and blocks
// repeat identical agents quickly, so each fetch picks one at random.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

type Scraper struct {
	// BaseURL is overridable so tests can point at a local server.
	BaseURL string

	client  *http.Client
	limiter ratelimit.Limiter
	retry   ratelimit.Config
}

func New(limiters *ratelimit.SourceLimiters) *Scraper {
	return &Scraper{
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: limiters.For(Site),
		retry:   limiters.Config(Site),
	}
}

func (s *Scraper) SiteName() string { return "Amazon ES" }

func (s *Scraper) Type() models.ScraperType { return models.ScraperAmazon }

func (s *Scraper) Scrape(ctx context.Context, keyword, category string) []scrapers.ScrapedItem {
	var items []scrapers.ScrapedItem

	err := scrapers.Retry(ctx, s.retry, "amazon search", func() error {
		doc, err := s.fetchSearchPage(ctx, keyword)
		if err != nil {
			return err
		}
		items = s.parseSearchResults(doc)
		return nil
	})
	if err != nil {
		log.Printf("scraping amazon for %q: %v", keyword, err)
		return nil
	}
	return items
}

func (s *Scraper) fetchSearchPage(ctx context.Context, keyword string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	searchURL := s.BaseURL + "/s?k=" + url.QueryEscape(keyword)
	log.Printf("scraping amazon: %s", searchURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amazon search returned status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func (s *Scraper) parseSearchResults(doc *goquery.Document) []scrapers.ScrapedItem {
	var items []scrapers.ScrapedItem

	doc.Find("[data-component-type=s-search-result]").Each(func(_ int, sel *goquery.Selection) {
		if item, ok := s.parseItem(sel); ok {
			items = append(items, item)
		}
	})
	return items
}

func (s *Scraper) parseItem(sel *goquery.Selection) (scrapers.ScrapedItem, bool) {
	name := extractName(sel)
	if name == "" {
		return scrapers.ScrapedItem{}, false
	}

	price := extractPrice(sel)
	img, _ := sel.Find(".s-image").Attr("src")

	return scrapers.ScrapedItem{
		Name:     name,
		Price:    price,
		URL:      s.extractURL(sel),
		ImageURL: img,
		InStock:  price.Valid,
	}, true
}

func extractName(sel *goquery.Selection) string {
	title := sel.Find("h2 a span").First()
	if title.Length() == 0 {
		title = sel.Find("h2 span").First()
	}
	return strings.TrimSpace(title.Text())
}

func extractPrice(sel *goquery.Selection) decimal.NullDecimal {
	// Primary: the structured whole/fraction pair.
	whole := sel.Find(".a-price .a-price-whole").First()
	if whole.Length() > 0 {
		w := strings.NewReplacer(".", "", ",", "").Replace(strings.TrimSpace(ownText(whole)))
		frac := strings.TrimSpace(sel.Find(".a-price .a-price-fraction").First().Text())
		if frac == "" {
			frac = "00"
		}
		if w != "" {
			if p, err := decimal.NewFromString(w + "." + frac); err == nil {
				return decimal.NullDecimal{Decimal: p, Valid: true}
			}
		}
	}

	// Fallback: the accessibility span, present even when the visible
	// layout varies. Spanish format, "549,00 €".
	offscreen := sel.Find(".a-price .a-offscreen").First()
	if offscreen.Length() > 0 {
		return scrapers.ParsePrice(offscreen.Text())
	}

	return decimal.NullDecimal{}
}

func (s *Scraper) extractURL(sel *goquery.Selection) string {
	// Old structure: <h2><a href>. New structure: <a href><h2>.
	link := sel.Find("h2 a").First()
	if link.Length() == 0 {
		link = sel.Find("a:has(h2)").First()
	}

	href, ok := link.Attr("href")
	if !ok {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		return s.BaseURL + href
	}
	return href
}

// ownText returns the element's direct text, excluding child elements.
// The a-price-whole node nests the decimal separator in a child span
// that must not leak into the integer part.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}
