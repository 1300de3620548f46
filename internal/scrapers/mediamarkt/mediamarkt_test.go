package mediamarkt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"pricescout/internal/models"
	"pricescout/internal/ratelimit"
)

// searchFixture embeds an ItemList the way the search page does: one
// JSON-LD script among others, with entries wrapped as ListItem{item}.
// The second product has no offer, the third entry is a bare Product
// without the ListItem wrapper.
const searchFixture = `<html><head>
<script type="application/ld+json">{"@type":"Organization","name":"MediaMarkt"}</script>
<script type="application/ld+json">
{
  "@type": "ItemList",
  "itemListElement": [
    {
      "@type": "ListItem",
      "position": 1,
      "item": {
        "@type": "Product",
        "name": "PlayStation 5 Slim Standard",
        "url": "https://www.mediamarkt.es/es/product/ps5-slim",
        "image": "https://assets.mmsrg.com/ps5.jpg",
        "offers": {"@type": "Offer", "price": "499.00", "priceCurrency": "EUR"}
      }
    },
    {
      "@type": "ListItem",
      "position": 2,
      "item": {
        "@type": "Product",
        "name": "PlayStation 5 Pro",
        "url": "https://www.mediamarkt.es/es/product/ps5-pro"
      }
    },
    {
      "@type": "Product",
      "name": "Mando DualSense",
      "url": "https://www.mediamarkt.es/es/product/dualsense",
      "offers": {"price": 59.99}
    }
  ]
}
</script>
</head><body></body></html>`

func newTestScraper(t *testing.T, searchURL string) *Scraper {
	t.Helper()
	s := New(ratelimit.NewSourceLimiters(ratelimit.SourceConfigs{}))
	s.SearchURL = searchURL
	return s
}

func TestScraperIdentity(t *testing.T) {
	s := newTestScraper(t, defaultSearchURL)
	if s.SiteName() != "MediaMarkt ES" {
		t.Errorf("SiteName() = %q", s.SiteName())
	}
	if s.Type() != models.ScraperMediaMarkt {
		t.Errorf("Type() = %q", s.Type())
	}
}

func TestScrapeParsesItemList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "playstation 5" {
			t.Errorf("search query = %q, want %q", got, "playstation 5")
		}
		w.Write([]byte(searchFixture))
	}))
	defer srv.Close()

	items := newTestScraper(t, srv.URL).Scrape(context.Background(), "playstation 5", "")
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	first := items[0]
	if first.Name != "PlayStation 5 Slim Standard" {
		t.Errorf("first item name = %q", first.Name)
	}
	if want := decimal.RequireFromString("499.00"); !first.Price.Valid || !first.Price.Decimal.Equal(want) {
		t.Errorf("first item price = %+v, want %s", first.Price, want)
	}
	if first.URL != "https://www.mediamarkt.es/es/product/ps5-slim" {
		t.Errorf("first item url = %q", first.URL)
	}
	if first.ImageURL != "https://assets.mmsrg.com/ps5.jpg" {
		t.Errorf("first item image = %q", first.ImageURL)
	}

	second := items[1]
	if second.Price.Valid {
		t.Errorf("offerless item has price %s", second.Price.Decimal)
	}
	if second.InStock {
		t.Error("offerless item should be out of stock")
	}

	third := items[2]
	if third.Name != "Mando DualSense" {
		t.Errorf("unwrapped item name = %q", third.Name)
	}
	if want := decimal.RequireFromString("59.99"); !third.Price.Valid || !third.Price.Decimal.Equal(want) {
		t.Errorf("unwrapped item price = %+v, want %s", third.Price, want)
	}
}

func TestScrapeNoItemList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><script type="application/ld+json">{"@type":"WebSite"}</script></head><body></body></html>`))
	}))
	defer srv.Close()

	if items := newTestScraper(t, srv.URL).Scrape(context.Background(), "nothing", ""); len(items) != 0 {
		t.Fatalf("got %d items without an ItemList", len(items))
	}
}

func TestParseJSONLDTopLevelArray(t *testing.T) {
	payload := `[
		{"@type": "BreadcrumbList"},
		{"@type": "ItemList", "itemListElement": [
			{"@type": "Product", "name": "Xbox Series X", "url": "https://www.mediamarkt.es/x", "offers": {"price": "549.99"}}
		]}
	]`

	items, ok := parseJSONLD([]byte(payload))
	if !ok {
		t.Fatal("array payload with an ItemList not recognised")
	}
	if len(items) != 1 || items[0].Name != "Xbox Series X" {
		t.Fatalf("got %+v", items)
	}
	if want := decimal.RequireFromString("549.99"); !items[0].Price.Decimal.Equal(want) {
		t.Errorf("price = %s, want %s", items[0].Price.Decimal, want)
	}
}

func TestParseJSONLDMalformed(t *testing.T) {
	if _, ok := parseJSONLD([]byte("{not json")); ok {
		t.Fatal("malformed JSON-LD accepted")
	}
}
