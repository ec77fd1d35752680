package repositories

import (
	"strings"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// Query scopes for the product listing. Each scope is a no-op when its
// parameter is absent, so they can be composed unconditionally in a fixed
// sequence. Column names are qualified because the page query joins
// categories.

// SearchName matches the product name against the search text. On
// PostgreSQL this is a full-text match backed by the GIN index; other
// dialects fall back to requiring every token to match, which keeps the
// stage tokenized rather than a raw substring scan.
func SearchName(q string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q == "" {
			return db
		}
		if db.Dialector.Name() == "postgres" {
			return db.Where("to_tsvector('simple', products.name) @@ plainto_tsquery('simple', ?)", q)
		}
		for _, token := range strings.Fields(q) {
			db = db.Where("products.name LIKE ?", "%"+token+"%")
		}
		return db
	}
}

// PriceRange keeps products with price >= from and price <= to, each bound
// applied only when given.
func PriceRange(from, to *float64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("products.price >= ?", *from)
		}
		if to != nil {
			db = db.Where("products.price <= ?", *to)
		}
		return db
	}
}

// ByCategory keeps products of the given category when it is given and
// positive.
func ByCategory(categoryID *int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if categoryID != nil && *categoryID > 0 {
			db = db.Where("products.category_id = ?", *categoryID)
		}
		return db
	}
}

// InStockIs filters on the stock flag when it was explicitly present.
func InStockIs(inStock *bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if inStock != nil {
			db = db.Where("products.in_stock = ?", *inStock)
		}
		return db
	}
}

// MinRating keeps products rated at or above the floor when given.
func MinRating(rating *float64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if rating != nil {
			db = db.Where("products.rating >= ?", *rating)
		}
		return db
	}
}

// SortedBy applies exactly one ordering. Unrecognized or empty sort keys
// fall back to identifier ascending, the stable default.
func SortedBy(sort string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch sort {
		case models.SortPriceAsc:
			return db.Order("products.price ASC")
		case models.SortPriceDesc:
			return db.Order("products.price DESC")
		case models.SortRatingDesc:
			return db.Order("products.rating DESC")
		case models.SortNewest:
			return db.Order("products.created_at DESC")
		default:
			return db.Order("products.id ASC")
		}
	}
}

// Paginate slices the result into 1-indexed windows of perPage records.
func Paginate(page, perPage int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(perPage).Offset((page - 1) * perPage)
	}
}
