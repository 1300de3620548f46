package models

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Product is a canonical item unified across sources. Rows are
// soft-deleted: bun stamps deleted_at and filters them from selects.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Category  string    `bun:"category" json:"category,omitempty"`
	ImageURL  string    `bun:"image_url" json:"image_url,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`

	Listings []*Listing `bun:"rel:has-many,join:id=product_id" json:"listings,omitempty"`
}

// BeforeUpdate updates the timestamp on modifications.
func (p *Product) BeforeUpdate(ctx context.Context, query *bun.UpdateQuery) error {
	p.UpdatedAt = time.Now()
	return nil
}

// Validate checks that required product fields are present.
func (p *Product) Validate() error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	return nil
}
