package unify

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"pricescout/internal/database"
	"pricescout/internal/migrations"
	"pricescout/internal/models"
	"pricescout/internal/repositories"
	"pricescout/internal/scrapers"
)

func testDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

func testSource(t *testing.T, db *bun.DB, typ models.ScraperType) *models.Source {
	t.Helper()
	src, err := repositories.EnsureSource(context.Background(), db, &models.Source{
		Name:        string(typ),
		BaseURL:     "https://example.com",
		ScraperType: typ,
		Status:      models.SourceActive,
	})
	if err != nil {
		t.Fatalf("seeding source: %v", err)
	}
	return src
}

func item(name, url, price string) scrapers.ScrapedItem {
	it := scrapers.ScrapedItem{Name: name, URL: url}
	if price != "" {
		it.Price = decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true}
		it.InStock = true
	}
	return it
}

func TestSaveResultsCreatesProductListingAndHistory(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	src := testSource(t, db, models.ScraperAmazon)
	u := New(db, nil)

	saved := u.SaveResults(ctx, []scrapers.ScrapedItem{
		item("RTX 4070 SUPER", "https://example.com/dp/1", "599.99"),
	}, src)
	if saved != 1 {
		t.Fatalf("saved = %d, want 1", saved)
	}

	product, err := repositories.ProductByName(ctx, db, "rtx 4070 super")
	if err != nil {
		t.Fatalf("case-insensitive product lookup: %v", err)
	}

	listing, err := repositories.ListingByURL(ctx, db, "https://example.com/dp/1")
	if err != nil {
		t.Fatalf("listing lookup: %v", err)
	}
	if listing.ProductID != product.ID {
		t.Errorf("listing product = %d, want %d", listing.ProductID, product.ID)
	}
	if !listing.CurrentPrice.Decimal.Equal(decimal.RequireFromString("599.99")) {
		t.Errorf("listing price = %s", listing.CurrentPrice.Decimal)
	}
	if !listing.InStock || listing.LastScrapedAt == nil {
		t.Errorf("listing state = %+v", listing)
	}

	history, err := repositories.HistoryByListing(ctx, db, listing.ID)
	if err != nil || len(history) != 1 {
		t.Fatalf("history rows = %d (%v), want 1", len(history), err)
	}
	if history[0].ProductID != product.ID {
		t.Errorf("history product = %d, want %d", history[0].ProductID, product.ID)
	}
}

func TestSaveResultsReusesListingByURL(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	src := testSource(t, db, models.ScraperAmazon)
	u := New(db, nil)

	u.SaveResults(ctx, []scrapers.ScrapedItem{item("RTX 4070", "https://example.com/dp/1", "599.99")}, src)
	u.SaveResults(ctx, []scrapers.ScrapedItem{item("RTX 4070", "https://example.com/dp/1", "579.00")}, src)

	count, err := db.NewSelect().Model((*models.Listing)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("counting listings: %v", err)
	}
	if count != 1 {
		t.Fatalf("listings = %d, want 1 (same URL must update in place)", count)
	}

	listing, err := repositories.ListingByURL(ctx, db, "https://example.com/dp/1")
	if err != nil {
		t.Fatal(err)
	}
	if !listing.CurrentPrice.Decimal.Equal(decimal.RequireFromString("579.00")) {
		t.Errorf("price after second scrape = %s, want 579.00", listing.CurrentPrice.Decimal)
	}

	history, err := repositories.HistoryByListing(ctx, db, listing.ID)
	if err != nil || len(history) != 2 {
		t.Fatalf("history rows = %d (%v), want 2", len(history), err)
	}
}

func TestSaveResultsUnifiesAcrossSources(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	amazon := testSource(t, db, models.ScraperAmazon)
	mediamarkt := testSource(t, db, models.ScraperMediaMarkt)
	u := New(db, nil)

	u.SaveResults(ctx, []scrapers.ScrapedItem{item("ASUS TUF RTX 4070", "https://amazon.example/dp/1", "649.00")}, amazon)
	u.SaveResults(ctx, []scrapers.ScrapedItem{item("asus tuf rtx 4070", "https://mediamarkt.example/p/2", "639.00")}, mediamarkt)

	products, err := db.NewSelect().Model((*models.Product)(nil)).Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if products != 1 {
		t.Fatalf("products = %d, want 1 (same name must unify)", products)
	}

	product, err := repositories.ProductByName(ctx, db, "ASUS TUF RTX 4070")
	if err != nil {
		t.Fatal(err)
	}
	listings, err := repositories.ListingsByProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2 (one per source)", len(listings))
	}
}

func TestSaveResultsOverwritesURLForSamePair(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	src := testSource(t, db, models.ScraperAmazon)
	u := New(db, nil)

	u.SaveResults(ctx, []scrapers.ScrapedItem{item("RTX 4070", "https://example.com/dp/old", "599.99")}, src)
	u.SaveResults(ctx, []scrapers.ScrapedItem{item("RTX 4070", "https://example.com/dp/new", "589.99")}, src)

	count, err := db.NewSelect().Model((*models.Listing)(nil)).Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("listings = %d, want 1 (pair is unique, URL rotates)", count)
	}

	listing, err := repositories.ListingByURL(ctx, db, "https://example.com/dp/new")
	if err != nil {
		t.Fatalf("listing should carry the new URL: %v", err)
	}
	if !listing.CurrentPrice.Decimal.Equal(decimal.RequireFromString("589.99")) {
		t.Errorf("price = %s", listing.CurrentPrice.Decimal)
	}
}

func TestSaveResultsSkipsUnusableItems(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	src := testSource(t, db, models.ScraperAmazon)
	u := New(db, nil)

	saved := u.SaveResults(ctx, []scrapers.ScrapedItem{
		item("No URL", "", "10.00"),
		item("No price", "https://example.com/dp/2", ""),
	}, src)
	if saved != 0 {
		t.Fatalf("saved = %d, want 0", saved)
	}

	products, err := db.NewSelect().Model((*models.Product)(nil)).Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if products != 0 {
		t.Fatalf("products = %d, want 0", products)
	}
}

func TestSaveResultsIsolatesFailingItem(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	src := testSource(t, db, models.ScraperAmazon)
	u := New(db, nil)

	// Poison one specific item at the storage layer so its whole
	// transaction rolls back while its neighbours commit.
	_, err := db.ExecContext(ctx, `
		CREATE TRIGGER poison BEFORE INSERT ON products
		WHEN NEW.name = 'Poison'
		BEGIN SELECT RAISE(ABORT, 'poisoned'); END`)
	if err != nil {
		t.Fatalf("creating trigger: %v", err)
	}

	saved := u.SaveResults(ctx, []scrapers.ScrapedItem{
		item("Before", "https://example.com/dp/1", "10.00"),
		item("Poison", "https://example.com/dp/2", "20.00"),
		item("After", "https://example.com/dp/3", "30.00"),
	}, src)
	if saved != 2 {
		t.Fatalf("saved = %d, want 2", saved)
	}

	if _, err := repositories.ListingByURL(ctx, db, "https://example.com/dp/1"); err != nil {
		t.Errorf("item before the failure missing: %v", err)
	}
	if _, err := repositories.ListingByURL(ctx, db, "https://example.com/dp/3"); err != nil {
		t.Errorf("item after the failure missing: %v", err)
	}
	if _, err := repositories.ListingByURL(ctx, db, "https://example.com/dp/2"); err == nil {
		t.Error("poisoned item was persisted")
	}

	histories, err := db.NewSelect().Model((*models.PriceHistory)(nil)).Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if histories != 2 {
		t.Fatalf("history rows = %d, want 2 (poisoned item fully rolled back)", histories)
	}
}
