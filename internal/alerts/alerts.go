// Package alerts manages standing price alerts and triggers them as
// new prices come in.
package alerts

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"pricescout/internal/models"
	"pricescout/internal/repositories"
)

// Notifier delivers a triggered alert to its user.
type Notifier interface {
	Notify(alert *models.PriceAlert, current decimal.Decimal)
}

// LogNotifier writes triggered alerts to the process log. Stands in
// for a real delivery channel (email, webhook).
type LogNotifier struct{}

func (LogNotifier) Notify(alert *models.PriceAlert, current decimal.Decimal) {
	name := ""
	if alert.Product != nil {
		name = alert.Product.Name
	}
	log.Printf("PRICE ALERT: %q is now %s EUR (target %s EUR), notifying %s",
		name, current, alert.TargetPrice, alert.UserEmail)
}

// Engine checks and manages price alerts.
type Engine struct {
	db       *bun.DB
	notifier Notifier
}

func NewEngine(db *bun.DB, notifier Notifier) *Engine {
	return &Engine{db: db, notifier: notifier}
}

// CheckAlerts fires every ACTIVE alert on the product that the current
// price satisfies. Each triggered alert flips to TRIGGERED exactly
// once and is notified exactly once; alerts above the price are left
// untouched.
func (e *Engine) CheckAlerts(ctx context.Context, productID int64, current decimal.Decimal) error {
	active, err := repositories.ActiveAlertsByProduct(ctx, e.db, productID)
	if err != nil {
		return fmt.Errorf("loading alerts for product %d: %w", productID, err)
	}

	for _, alert := range active {
		if !alert.ShouldTrigger(current) {
			continue
		}
		now := time.Now()
		alert.Status = models.AlertTriggered
		alert.TriggeredAt = &now
		if err := repositories.MarkAlertTriggered(ctx, e.db, alert); err != nil {
			return fmt.Errorf("triggering alert %d: %w", alert.ID, err)
		}
		e.notifier.Notify(alert, current)
		log.Printf("alert %d triggered for product %d at %s", alert.ID, productID, current)
	}
	return nil
}

// CreateAlert registers a new ACTIVE alert. The product must exist.
func (e *Engine) CreateAlert(ctx context.Context, productID int64, email string, target decimal.Decimal) (*models.PriceAlert, error) {
	if _, err := repositories.ProductByID(ctx, e.db, productID); err != nil {
		return nil, err
	}

	alert := &models.PriceAlert{
		ProductID:   productID,
		UserEmail:   email,
		TargetPrice: target,
		Status:      models.AlertActive,
	}
	if err := alert.Validate(); err != nil {
		return nil, err
	}
	if err := repositories.InsertAlert(ctx, e.db, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// UserAlerts lists a user's ACTIVE alerts.
func (e *Engine) UserAlerts(ctx context.Context, email string) ([]*models.PriceAlert, error) {
	return repositories.ActiveAlertsByUser(ctx, e.db, email)
}

// DeleteAlert removes an alert by id.
func (e *Engine) DeleteAlert(ctx context.Context, id int64) error {
	return repositories.DeleteAlert(ctx, e.db, id)
}
