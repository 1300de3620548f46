package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PriceHistory is an immutable price observation. One row is appended
// per successful scrape of a listing; rows are never updated or deleted.
type PriceHistory struct {
	bun.BaseModel `bun:"table:price_history,alias:ph"`

	ID        int64           `bun:"id,pk,autoincrement" json:"id"`
	ListingID int64           `bun:"listing_id,notnull" json:"listing_id"`
	ProductID int64           `bun:"product_id,notnull" json:"product_id"`
	Price     decimal.Decimal `bun:"price,notnull,type:decimal(10,2)" json:"price"`
	InStock   bool            `bun:"in_stock,notnull,default:false" json:"in_stock"`
	ScrapedAt time.Time       `bun:"scraped_at,notnull" json:"scraped_at"`

	Listing *Listing `bun:"rel:belongs-to,join:listing_id=id" json:"-"`
	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"-"`
}
