package services

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// ErrProductNotFound is returned when a product lookup does not resolve,
// including lookups with a non-numeric identifier.
var ErrProductNotFound = errors.New("product not found")

// EventPublisher publishes catalog events to the message broker.
type EventPublisher interface {
	PublishProductViewed(product *models.Product) error
}

// ProductService handles the catalog browsing logic: filter validation,
// the listing query pipeline, and single-product lookups.
type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	validate   *validator.Validate
	events     EventPublisher // optional, nil disables eventing
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(products repositories.ProductRepository, categories repositories.CategoryRepository, events EventPublisher) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		validate:   newFilterValidator(),
		events:     events,
	}
}

// ListProducts validates the raw query parameters into a filter and runs
// the listing pipeline. Validation fails fast: no product query executes
// until the filter is fully valid. An empty page is a successful outcome.
func (s *ProductService) ListProducts(ctx context.Context, raw map[string]string) (*models.ProductPage, error) {
	filter, err := s.BuildFilter(ctx, raw)
	if err != nil {
		return nil, err
	}
	return s.products.List(ctx, filter)
}

// GetProductByID fetches one product with its category. Identifiers are
// received raw from the URL; anything that does not parse as a positive
// integer resolves to ErrProductNotFound rather than a format error.
func (s *ProductService) GetProductByID(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrProductNotFound
	}

	product, err := s.products.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.publishViewed(product)
	return product, nil
}

// publishViewed emits a product_viewed event off the request path. Broker
// failures are logged and never surfaced to the client.
func (s *ProductService) publishViewed(product *models.Product) {
	if s.events == nil {
		return
	}
	p := *product
	go func() {
		if err := s.events.PublishProductViewed(&p); err != nil {
			log.Printf("Failed to publish product_viewed event for product %d: %v", p.ID, err)
		}
	}()
}
