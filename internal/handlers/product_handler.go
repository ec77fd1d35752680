package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/middleware"
	"catalog/internal/services"
	"catalog/pkg/i18n"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
}

// HandleListProducts returns a filtered, sorted, paginated product page.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page, err := h.service.ListProducts(c.UserContext(), c.Queries())
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			locale := middleware.Locale(c)
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": i18n.T(locale, "validation.failed"),
				"errors":  localizeFieldErrors(locale, verr.Fields),
			})
		}
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}
	return c.JSON(page)
}

// HandleGetProduct returns a single product with its category. A
// non-numeric identifier is answered as not found, not as a bad request.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			locale := middleware.Locale(c)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": i18n.T(locale, "validation.product.not_found"),
				"errors": fiber.Map{
					"id": []string{i18n.T(locale, "validation.product.not_found_by_id")},
				},
			})
		}
		log.Printf("Error getting product %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
		})
	}
	return c.JSON(fiber.Map{
		"data": product,
	})
}

// localizeFieldErrors renders the collected message keys in the request
// locale, keeping the field keys themselves locale-independent.
func localizeFieldErrors(locale string, fields map[string][]string) map[string][]string {
	localized := make(map[string][]string, len(fields))
	for field, keys := range fields {
		messages := make([]string, 0, len(keys))
		for _, key := range keys {
			messages = append(messages, i18n.T(locale, key))
		}
		localized[field] = messages
	}
	return localized
}
