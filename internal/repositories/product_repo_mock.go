package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"catalog/internal/models"
)

// MemoryCatalogRepository is an in-memory implementation of both
// ProductRepository and CategoryRepository. It applies the same filter,
// sort and pagination stages as the GORM repository, so service tests can
// exercise the whole listing contract without a database.
type MemoryCatalogRepository struct {
	mu         sync.RWMutex
	products   map[uint]models.Product
	categories map[uint]models.Category
	nextID     uint
}

// NewMemoryCatalogRepository creates an empty in-memory catalog.
func NewMemoryCatalogRepository() *MemoryCatalogRepository {
	return &MemoryCatalogRepository{
		products:   make(map[uint]models.Product),
		categories: make(map[uint]models.Category),
		nextID:     1,
	}
}

// AddCategory stores a category, assigning an id when missing.
func (r *MemoryCatalogRepository) AddCategory(category models.Category) models.Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == 0 {
		category.ID = r.nextID
		r.nextID++
	}
	r.categories[category.ID] = category
	return category
}

// AddProduct stores a product, assigning a monotonic id when missing.
func (r *MemoryCatalogRepository) AddProduct(product models.Product) models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	}
	product.Category = nil
	r.products[product.ID] = product
	return product
}

// List applies the filter stages in memory, mirroring the query pipeline.
func (r *MemoryCatalogRepository) List(ctx context.Context, filter *models.ProductFilter) (*models.ProductPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if !r.matches(p, filter) {
			continue
		}
		matched = append(matched, r.withCategory(p))
	}

	sortProducts(matched, filter.Sort)

	total := int64(len(matched))
	page, perPage := filter.Page(), filter.PerPage()

	start := (page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}

	return models.NewProductPage(matched[start:end], page, perPage, total), nil
}

// GetByID returns a product with its category, or ErrNotFound.
func (r *MemoryCatalogRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	product = r.withCategory(product)
	return &product, nil
}

// Exists reports whether a category with the given id is present.
func (r *MemoryCatalogRepository) Exists(ctx context.Context, id int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 0 {
		return false, nil
	}
	_, ok := r.categories[uint(id)]
	return ok, nil
}

func (r *MemoryCatalogRepository) withCategory(p models.Product) models.Product {
	if category, ok := r.categories[p.CategoryID]; ok {
		c := category
		p.Category = &c
	}
	return p
}

func (r *MemoryCatalogRepository) matches(p models.Product, f *models.ProductFilter) bool {
	if f.Query != "" {
		name := strings.ToLower(p.Name)
		for _, token := range strings.Fields(strings.ToLower(f.Query)) {
			if !strings.Contains(name, token) {
				return false
			}
		}
	}
	if f.PriceFrom != nil && p.Price < *f.PriceFrom {
		return false
	}
	if f.PriceTo != nil && p.Price > *f.PriceTo {
		return false
	}
	if f.CategoryID != nil && *f.CategoryID > 0 && p.CategoryID != uint(*f.CategoryID) {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.RatingFrom != nil && p.Rating < *f.RatingFrom {
		return false
	}
	return true
}

func sortProducts(products []models.Product, key string) {
	switch key {
	case models.SortPriceAsc:
		sort.Slice(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case models.SortPriceDesc:
		sort.Slice(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case models.SortRatingDesc:
		sort.Slice(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	case models.SortNewest:
		sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	default:
		sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	}
}
