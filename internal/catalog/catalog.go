// Package catalog exposes the product catalog operations that sit on
// top of unification: manual CRUD and filtered search.
package catalog

import (
	"context"

	"github.com/uptrace/bun"

	"pricescout/internal/models"
	"pricescout/internal/repositories"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// Create adds a product by hand, ahead of any scrape.
func (s *Service) Create(ctx context.Context, name, category, imageURL string) (*models.Product, error) {
	p := &models.Product{
		Name:     name,
		Category: category,
		ImageURL: imageURL,
	}
	if err := repositories.InsertProduct(ctx, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get fetches a product by id. Soft-deleted products are not found.
func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {
	return repositories.ProductByID(ctx, s.db, id)
}

// Search lists products matching the filter. An empty filter lists
// everything that is not deleted.
func (s *Service) Search(ctx context.Context, f repositories.ProductFilter) ([]*models.Product, error) {
	return repositories.SearchProducts(ctx, s.db, f)
}

// Update rewrites a product's editable fields.
func (s *Service) Update(ctx context.Context, id int64, name, category, imageURL string) (*models.Product, error) {
	p, err := repositories.ProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.Category = category
	p.ImageURL = imageURL
	if err := repositories.UpdateProduct(ctx, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete soft-deletes a product. Its listings and history stay.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return repositories.SoftDeleteProduct(ctx, s.db, id)
}
