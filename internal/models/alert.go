package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PriceAlert is a user's standing request to be notified when a
// product's price falls to or below a target.
type PriceAlert struct {
	bun.BaseModel `bun:"table:price_alerts,alias:pa"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	ProductID   int64           `bun:"product_id,notnull" json:"product_id"`
	UserEmail   string          `bun:"user_email,notnull" json:"user_email"`
	TargetPrice decimal.Decimal `bun:"target_price,notnull,type:decimal(10,2)" json:"target_price"`
	Status      AlertStatus     `bun:"status,notnull" json:"status"`
	TriggeredAt *time.Time      `bun:"triggered_at" json:"triggered_at,omitempty"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}

// Validate checks that required alert fields are present.
func (a *PriceAlert) Validate() error {
	if a.ProductID == 0 {
		return errors.New("product reference is required")
	}
	if a.UserEmail == "" {
		return errors.New("user email is required")
	}
	if a.TargetPrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("target price must be positive")
	}
	return nil
}

// ShouldTrigger reports whether the given price satisfies the alert.
func (a *PriceAlert) ShouldTrigger(current decimal.Decimal) bool {
	return a.Status == AlertActive && current.LessThanOrEqual(a.TargetPrice)
}
