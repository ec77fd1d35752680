package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List runs the filter stages, counts the filtered set, then fetches the
// requested page with categories joined in. Two queries per call: one
// count and one joined page select, never a fetch per row.
func (r *GORMProductRepository) List(ctx context.Context, filter *models.ProductFilter) (*models.ProductPage, error) {
	filtered := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(
			SearchName(filter.Query),
			PriceRange(filter.PriceFrom, filter.PriceTo),
			ByCategory(filter.CategoryID),
			InStockIs(filter.InStock),
			MinRating(filter.RatingFrom),
		)

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	page, perPage := filter.Page(), filter.PerPage()

	var products []models.Product
	err := filtered.Session(&gorm.Session{}).
		Joins("Category").
		Scopes(SortedBy(filter.Sort), Paginate(page, perPage)).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return models.NewProductPage(products, page, perPage, total), nil
}

// GetByID retrieves a single product with its category attached.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Joins("Category").
		First(&product, "products.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}
