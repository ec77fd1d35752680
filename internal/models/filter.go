package models

import "math"

// Sort options accepted by the catalog listing.
const (
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRatingDesc = "rating_desc"
	SortNewest     = "newest"
)

// Default pagination applied when the caller omits page/per_page.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// ProductFilter is the validated query intent for a catalog listing.
// All fields are independent optional constraints combined conjunctively;
// nil means "not given". Built once per request and not mutated afterwards.
type ProductFilter struct {
	Query      string   `query:"q" validate:"max=255"`
	PriceFrom  *float64 `query:"price_from" validate:"omitempty,gte=0"`
	PriceTo    *float64 `query:"price_to" validate:"omitempty,gte=0"`
	CategoryID *int     `query:"category_id"`
	InStock    *bool    `query:"in_stock"`
	RatingFrom *float64 `query:"rating_from" validate:"omitempty,gte=0,lte=5"`
	Sort       string   `query:"sort" validate:"omitempty,oneof=price_asc price_desc rating_desc newest"`
	PageNum    *int     `query:"page" validate:"omitempty,gte=1"`
	PerPageNum *int     `query:"per_page" validate:"omitempty,gte=1,lte=100"`
}

// Page returns the requested 1-indexed page, defaulting when absent.
func (f *ProductFilter) Page() int {
	if f.PageNum == nil {
		return DefaultPage
	}
	return *f.PageNum
}

// PerPage returns the requested page size, defaulting when absent.
func (f *ProductFilter) PerPage() int {
	if f.PerPageNum == nil {
		return DefaultPerPage
	}
	return *f.PerPageNum
}

// ProductPage is the pagination envelope returned by the listing endpoint.
type ProductPage struct {
	Data        []Product `json:"data"`
	CurrentPage int       `json:"current_page"`
	LastPage    int       `json:"last_page"`
	PerPage     int       `json:"per_page"`
	Total       int64     `json:"total"`
}

// NewProductPage shapes a filtered result set into the envelope. Total is
// the count of the whole filtered set, not the slice length.
func NewProductPage(products []Product, page, perPage int, total int64) *ProductPage {
	if products == nil {
		products = []Product{}
	}
	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage < 1 {
		lastPage = 1
	}
	return &ProductPage{
		Data:        products,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
}
