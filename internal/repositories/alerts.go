package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"pricescout/internal/models"
)

// AlertByID fetches an alert by id.
func AlertByID(ctx context.Context, db bun.IDB, id int64) (*models.PriceAlert, error) {
	a := new(models.PriceAlert)
	err := db.NewSelect().
		Model(a).
		Where("pa.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("alert %d: %w", id, models.ErrNotFound)
	}
	return a, err
}

// ActiveAlertsByProduct lists a product's ACTIVE alerts with the
// product loaded for notification text.
func ActiveAlertsByProduct(ctx context.Context, db bun.IDB, productID int64) ([]*models.PriceAlert, error) {
	var alerts []*models.PriceAlert
	err := db.NewSelect().
		Model(&alerts).
		Relation("Product").
		Where("pa.product_id = ?", productID).
		Where("pa.status = ?", models.AlertActive).
		Scan(ctx)
	return alerts, err
}

// ActiveAlertsByUser lists a user's ACTIVE alerts.
func ActiveAlertsByUser(ctx context.Context, db bun.IDB, email string) ([]*models.PriceAlert, error) {
	var alerts []*models.PriceAlert
	err := db.NewSelect().
		Model(&alerts).
		Relation("Product").
		Where("pa.user_email = ?", email).
		Where("pa.status = ?", models.AlertActive).
		Order("pa.created_at DESC").
		Scan(ctx)
	return alerts, err
}

// InsertAlert persists a new alert.
func InsertAlert(ctx context.Context, db bun.IDB, a *models.PriceAlert) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := db.NewInsert().Model(a).Exec(ctx)
	return err
}

// MarkAlertTriggered persists the TRIGGERED transition.
func MarkAlertTriggered(ctx context.Context, db bun.IDB, a *models.PriceAlert) error {
	_, err := db.NewUpdate().
		Model(a).
		Column("status", "triggered_at").
		WherePK().
		Exec(ctx)
	return err
}

// DeleteAlert removes an alert.
func DeleteAlert(ctx context.Context, db bun.IDB, id int64) error {
	res, err := db.NewDelete().
		Model((*models.PriceAlert)(nil)).
		Where("pa.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("alert %d: %w", id, models.ErrNotFound)
	}
	return nil
}
