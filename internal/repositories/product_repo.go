package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List applies the filter, sort and pagination stages and returns the
	// matching page with each product's category attached.
	List(ctx context.Context, filter *models.ProductFilter) (*models.ProductPage, error)
	// GetByID returns one product with its category, or ErrNotFound.
	GetByID(ctx context.Context, id uint) (*models.Product, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	// Exists reports whether a category with the given id is present.
	Exists(ctx context.Context, id int) (bool, error)
}
