package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Listing is one (product, source) pairing: where and how a product is
// sold on a single site. At most one listing exists per pair.
type Listing struct {
	bun.BaseModel `bun:"table:listings,alias:l"`

	ID            int64               `bun:"id,pk,autoincrement" json:"id"`
	ProductID     int64               `bun:"product_id,notnull,unique:listing_product_source" json:"product_id"`
	SourceID      int64               `bun:"source_id,notnull,unique:listing_product_source" json:"source_id"`
	ExternalID    string              `bun:"external_id" json:"external_id,omitempty"`
	URL           string              `bun:"url,notnull" json:"url"`
	CurrentPrice  decimal.NullDecimal `bun:"current_price,type:decimal(10,2)" json:"current_price"`
	Currency      string              `bun:"currency,notnull,default:'EUR'" json:"currency"`
	InStock       bool                `bun:"in_stock,notnull,default:false" json:"in_stock"`
	LastScrapedAt *time.Time          `bun:"last_scraped_at" json:"last_scraped_at,omitempty"`
	CreatedAt     time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
	Source  *Source  `bun:"rel:belongs-to,join:source_id=id" json:"source,omitempty"`
}

// BeforeUpdate updates the timestamp on modifications.
func (l *Listing) BeforeUpdate(ctx context.Context, query *bun.UpdateQuery) error {
	l.UpdatedAt = time.Now()
	return nil
}

// Validate checks that required listing fields are present.
func (l *Listing) Validate() error {
	if l.ProductID == 0 {
		return errors.New("product reference is required")
	}
	if l.SourceID == 0 {
		return errors.New("source reference is required")
	}
	if l.URL == "" {
		return errors.New("listing URL is required")
	}
	return nil
}

// HasPrice reports whether the listing currently carries a price.
func (l *Listing) HasPrice() bool {
	return l.CurrentPrice.Valid
}
