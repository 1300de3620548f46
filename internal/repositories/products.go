package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"pricescout/internal/models"
)

// ProductByID fetches a non-deleted product by id.
func ProductByID(ctx context.Context, db bun.IDB, id int64) (*models.Product, error) {
	p := new(models.Product)
	err := db.NewSelect().
		Model(p).
		Where("p.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	return p, err
}

// ProductByName resolves a product by exact case-insensitive name match
// among non-deleted products. This is the cross-source identity key: the
// same item name on two sites maps to one canonical product.
func ProductByName(ctx context.Context, db bun.IDB, name string) (*models.Product, error) {
	p := new(models.Product)
	err := db.NewSelect().
		Model(p).
		Where("lower(p.name) = lower(?)", name).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product named %q: %w", name, models.ErrNotFound)
	}
	return p, err
}

// InsertProduct persists a new product.
func InsertProduct(ctx context.Context, db bun.IDB, p *models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := db.NewInsert().Model(p).Exec(ctx)
	return err
}

// UpdateProduct persists edits to name, category and image.
func UpdateProduct(ctx context.Context, db bun.IDB, p *models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := db.NewUpdate().
		Model(p).
		Column("name", "category", "image_url", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

// SoftDeleteProduct marks a product deleted; the row is retained.
func SoftDeleteProduct(ctx context.Context, db bun.IDB, id int64) error {
	res, err := db.NewDelete().
		Model((*models.Product)(nil)).
		Where("p.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// ProductFilter narrows SearchProducts. Zero values mean "no filter".
type ProductFilter struct {
	Keyword  string
	Category string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
}

// SearchProducts lists non-deleted products matching the filter,
// mirroring the catalog search the API layer exposes.
func SearchProducts(ctx context.Context, db bun.IDB, f ProductFilter) ([]*models.Product, error) {
	var products []*models.Product
	q := db.NewSelect().Model(&products)

	if f.Keyword != "" {
		q = q.Where("lower(p.name) LIKE lower(?)", "%"+f.Keyword+"%")
	}
	if f.Category != "" {
		q = q.Where("p.category = ?", f.Category)
	}
	if f.MinPrice.Valid || f.MaxPrice.Valid {
		q = q.Distinct().Join("JOIN listings AS l ON l.product_id = p.id")
		if f.MinPrice.Valid {
			q = q.Where("l.current_price >= ?", f.MinPrice.Decimal)
		}
		if f.MaxPrice.Valid {
			q = q.Where("l.current_price <= ?", f.MaxPrice.Decimal)
		}
	}

	err := q.Order("p.name ASC").Scan(ctx)
	return products, err
}
