package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"catalog/internal/models"
)

// ValidationError reports query parameters that failed validation. Fields
// maps each parameter name to the message catalog keys of its violations;
// the HTTP layer renders the keys in the request locale.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func (e *ValidationError) add(field, key string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], key)
}

// newFilterValidator configures the validator to report fields by their
// query parameter name rather than the Go field name.
func newFilterValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// truthy coerces boolean-ish query values: "1", "true", "on" and "yes"
// (case-insensitive) are true, anything else is false. Matches the
// historical behavior where e.g. in_stock=banana filters for false instead
// of failing validation.
func truthy(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// BuildFilter turns the raw query map into a validated ProductFilter.
//
// The boolean coercion of in_stock runs first, before any validation, so a
// malformed value silently becomes false rather than erroring. Each
// remaining field is parsed independently; parse failures and range
// violations are collected per field, and the category existence check (the
// only validation rule touching the data store) runs when a category id was
// parsed. Any violation yields a *ValidationError with every collected key.
func (s *ProductService) BuildFilter(ctx context.Context, raw map[string]string) (*models.ProductFilter, error) {
	filter := &models.ProductFilter{}
	verr := &ValidationError{}

	present := func(name string) (string, bool) {
		value, ok := raw[name]
		return value, ok && value != ""
	}

	// Coercion precedes validation. See truthy.
	if value, ok := present("in_stock"); ok {
		coerced := truthy(value)
		filter.InStock = &coerced
	}

	if value, ok := present("q"); ok {
		filter.Query = value
	}
	if value, ok := present("price_from"); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err != nil {
			verr.add("price_from", "validation.price_from.numeric")
		} else {
			filter.PriceFrom = &parsed
		}
	}
	if value, ok := present("price_to"); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err != nil {
			verr.add("price_to", "validation.price_to.numeric")
		} else {
			filter.PriceTo = &parsed
		}
	}
	if value, ok := present("category_id"); ok {
		if parsed, err := strconv.Atoi(value); err != nil {
			verr.add("category_id", "validation.category_id.integer")
		} else {
			filter.CategoryID = &parsed
		}
	}
	if value, ok := present("rating_from"); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err != nil {
			verr.add("rating_from", "validation.rating_from.numeric")
		} else {
			filter.RatingFrom = &parsed
		}
	}
	if value, ok := present("sort"); ok {
		filter.Sort = value
	}
	if value, ok := present("page"); ok {
		if parsed, err := strconv.Atoi(value); err != nil {
			verr.add("page", "validation.page.integer")
		} else {
			filter.PageNum = &parsed
		}
	}
	if value, ok := present("per_page"); ok {
		if parsed, err := strconv.Atoi(value); err != nil {
			verr.add("per_page", "validation.per_page.integer")
		} else {
			filter.PerPageNum = &parsed
		}
	}

	if err := s.validate.Struct(filter); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("failed to validate filter: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), fieldRuleKey(fe))
		}
	}

	if filter.CategoryID != nil {
		exists, err := s.categories.Exists(ctx, *filter.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
		if !exists {
			verr.add("category_id", "validation.category_id.exists")
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return filter, nil
}

// fieldRuleKey maps a validator tag failure to its message catalog key.
func fieldRuleKey(fe validator.FieldError) string {
	rule := fe.Tag()
	switch rule {
	case "gte":
		rule = "min"
	case "lte":
		rule = "max"
	case "oneof":
		rule = "in"
	}
	return "validation." + fe.Field() + "." + rule
}
