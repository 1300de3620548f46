package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"pricescout/internal/models"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		modelsList := []interface{}{
			(*models.Source)(nil),
			(*models.Product)(nil),
			(*models.Listing)(nil),
			(*models.PriceHistory)(nil),
			(*models.PriceAlert)(nil),
			(*models.ScrapeJob)(nil),
		}

		for _, model := range modelsList {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		modelsList := []interface{}{
			(*models.ScrapeJob)(nil),
			(*models.PriceAlert)(nil),
			(*models.PriceHistory)(nil),
			(*models.Listing)(nil),
			(*models.Product)(nil),
			(*models.Source)(nil),
		}

		for _, model := range modelsList {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	})
}
