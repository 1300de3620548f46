package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_listings_url ON listings(url)",
			"CREATE INDEX IF NOT EXISTS idx_listings_product ON listings(product_id)",
			"CREATE INDEX IF NOT EXISTS idx_history_listing_scraped ON price_history(listing_id, scraped_at)",
			"CREATE INDEX IF NOT EXISTS idx_history_product ON price_history(product_id)",
			"CREATE INDEX IF NOT EXISTS idx_alerts_product_status ON price_alerts(product_id, status)",
			"CREATE INDEX IF NOT EXISTS idx_alerts_email ON price_alerts(user_email)",
			"CREATE INDEX IF NOT EXISTS idx_jobs_status ON scrape_jobs(status)",
			"CREATE INDEX IF NOT EXISTS idx_jobs_source ON scrape_jobs(source_id)",
			"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name COLLATE NOCASE)",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"DROP INDEX IF EXISTS idx_listings_url",
			"DROP INDEX IF EXISTS idx_listings_product",
			"DROP INDEX IF EXISTS idx_history_listing_scraped",
			"DROP INDEX IF EXISTS idx_history_product",
			"DROP INDEX IF EXISTS idx_alerts_product_status",
			"DROP INDEX IF EXISTS idx_alerts_email",
			"DROP INDEX IF EXISTS idx_jobs_status",
			"DROP INDEX IF EXISTS idx_jobs_source",
			"DROP INDEX IF EXISTS idx_products_name",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	})
}
