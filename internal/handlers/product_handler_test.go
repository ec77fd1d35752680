package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// setupApp builds the API over an in-memory SQLite database unique to the
// calling test.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productService := services.NewProductService(productRepo, categoryRepo, nil)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New()
	app.Use(middleware.SetLocale())
	api := app.Group("/api")
	productHandler.RegisterRoutes(api)

	return app, db
}

func createCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

func createProduct(t *testing.T, db *gorm.DB, p models.Product) models.Product {
	t.Helper()
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return p
}

func getJSON(t *testing.T, app *fiber.App, url string, headers ...map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		t.Fatalf("failed to decode response %s: %v", bodyBytes, err)
	}
	return resp.StatusCode, body
}

func dataList(t *testing.T, body map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := body["data"].([]interface{})
	if !ok {
		t.Fatalf("response has no data list: %v", body)
	}
	list := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		list = append(list, item.(map[string]interface{}))
	}
	return list
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestIndexReturnsPaginatedProductsList(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Смартфоны")
	for i := 0; i < 15; i++ {
		createProduct(t, db, models.Product{Name: fmt.Sprintf("Product %02d", i), Price: float64(100 + i), CategoryID: category.ID})
	}

	status, body := getJSON(t, app, "/api/products")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "data")
	assert.EqualValues(t, 1, body["current_page"])
	assert.EqualValues(t, 10, body["per_page"])
	assert.EqualValues(t, 15, body["total"])
	assert.EqualValues(t, 2, body["last_page"])
	assert.Len(t, dataList(t, body), 10)
}

func TestIndexIncludesCategoryRelationship(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Ноутбуки")
	createProduct(t, db, models.Product{Name: "MacBook Pro", Price: 2500, CategoryID: category.ID})

	status, body := getJSON(t, app, "/api/products")

	assert.Equal(t, http.StatusOK, status)
	products := dataList(t, body)
	if assert.Len(t, products, 1) {
		nested, ok := products[0]["category"].(map[string]interface{})
		if assert.True(t, ok, "product has no nested category") {
			assert.EqualValues(t, category.ID, nested["id"])
			assert.Equal(t, "Ноутбуки", nested["name"])
		}
	}
}

func TestIndexFiltersByPriceRange(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Ноутбуки")
	createProduct(t, db, models.Product{Name: "A", Price: 100, CategoryID: category.ID})
	createProduct(t, db, models.Product{Name: "B", Price: 500, CategoryID: category.ID})
	createProduct(t, db, models.Product{Name: "C", Price: 1000, CategoryID: category.ID})

	status, body := getJSON(t, app, "/api/products?price_from=200&price_to=800")

	assert.Equal(t, http.StatusOK, status)
	for _, p := range dataList(t, body) {
		assert.GreaterOrEqual(t, p["price"].(float64), 200.0)
		assert.LessOrEqual(t, p["price"].(float64), 800.0)
	}
	assert.EqualValues(t, 1, body["total"])
}

func TestIndexFiltersByCategory(t *testing.T) {
	app, db := setupApp(t)
	laptops := createCategory(t, db, "Ноутбуки")
	phones := createCategory(t, db, "Смартфоны")
	for i := 0; i < 3; i++ {
		createProduct(t, db, models.Product{Name: fmt.Sprintf("Laptop %d", i), Price: 1000, CategoryID: laptops.ID})
	}
	for i := 0; i < 2; i++ {
		createProduct(t, db, models.Product{Name: fmt.Sprintf("Phone %d", i), Price: 500, CategoryID: phones.ID})
	}

	status, body := getJSON(t, app, fmt.Sprintf("/api/products?category_id=%d", laptops.ID))

	assert.Equal(t, http.StatusOK, status)
	products := dataList(t, body)
	assert.Len(t, products, 3)
	for _, p := range products {
		assert.EqualValues(t, laptops.ID, p["category_id"])
	}
}

func TestIndexFiltersByInStock(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Телевизоры")
	for i := 0; i < 3; i++ {
		createProduct(t, db, models.Product{Name: fmt.Sprintf("In %d", i), Price: 100, CategoryID: category.ID, InStock: true})
	}
	for i := 0; i < 2; i++ {
		createProduct(t, db, models.Product{Name: fmt.Sprintf("Out %d", i), Price: 100, CategoryID: category.ID, InStock: false})
	}

	status, body := getJSON(t, app, "/api/products?in_stock=true")

	assert.Equal(t, http.StatusOK, status)
	products := dataList(t, body)
	assert.Len(t, products, 3)
	for _, p := range products {
		assert.Equal(t, true, p["in_stock"])
	}
}

// A non-truthy in_stock value coerces to false before validation instead
// of erroring, so in_stock=banana lists out-of-stock products.
func TestIndexCoercesInvalidInStockToFalse(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Телевизоры")
	createProduct(t, db, models.Product{Name: "In", Price: 100, CategoryID: category.ID, InStock: true})
	createProduct(t, db, models.Product{Name: "Out", Price: 100, CategoryID: category.ID, InStock: false})

	status, body := getJSON(t, app, "/api/products?in_stock=banana")

	assert.Equal(t, http.StatusOK, status)
	products := dataList(t, body)
	if assert.Len(t, products, 1) {
		assert.Equal(t, false, products[0]["in_stock"])
	}
}

func TestIndexFiltersByMinRating(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Наушники")
	createProduct(t, db, models.Product{Name: "A", Price: 100, CategoryID: category.ID, Rating: 2.5})
	createProduct(t, db, models.Product{Name: "B", Price: 100, CategoryID: category.ID, Rating: 4.5})
	createProduct(t, db, models.Product{Name: "C", Price: 100, CategoryID: category.ID, Rating: 3.0})

	status, body := getJSON(t, app, "/api/products?rating_from=3.5")

	assert.Equal(t, http.StatusOK, status)
	for _, p := range dataList(t, body) {
		assert.GreaterOrEqual(t, p["rating"].(float64), 3.5)
	}
	assert.EqualValues(t, 1, body["total"])
}

func TestIndexSortsByPrice(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Ноутбуки")
	createProduct(t, db, models.Product{Name: "A", Price: 500, CategoryID: category.ID})
	createProduct(t, db, models.Product{Name: "B", Price: 100, CategoryID: category.ID})
	createProduct(t, db, models.Product{Name: "C", Price: 300, CategoryID: category.ID})

	status, body := getJSON(t, app, "/api/products?sort=price_asc")
	assert.Equal(t, http.StatusOK, status)
	prices := []float64{}
	for _, p := range dataList(t, body) {
		prices = append(prices, p["price"].(float64))
	}
	assert.Equal(t, []float64{100, 300, 500}, prices)

	status, body = getJSON(t, app, "/api/products?sort=price_desc")
	assert.Equal(t, http.StatusOK, status)
	prices = prices[:0]
	for _, p := range dataList(t, body) {
		prices = append(prices, p["price"].(float64))
	}
	assert.Equal(t, []float64{500, 300, 100}, prices)
}

func TestIndexSortsByRatingDescending(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Наушники")
	createProduct(t, db, models.Product{Name: "A", Price: 100, CategoryID: category.ID, Rating: 3.0})
	createProduct(t, db, models.Product{Name: "B", Price: 100, CategoryID: category.ID, Rating: 5.0})
	createProduct(t, db, models.Product{Name: "C", Price: 100, CategoryID: category.ID, Rating: 4.0})

	status, body := getJSON(t, app, "/api/products?sort=rating_desc")

	assert.Equal(t, http.StatusOK, status)
	ratings := []float64{}
	for _, p := range dataList(t, body) {
		ratings = append(ratings, p["rating"].(float64))
	}
	assert.Equal(t, []float64{5.0, 4.0, 3.0}, ratings)
}

func TestIndexSortsByNewest(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Фотоаппараты")
	createProduct(t, db, models.Product{Name: "Old", Price: 100, CategoryID: category.ID, CreatedAt: time.Now().Add(-48 * time.Hour)})
	newest := createProduct(t, db, models.Product{Name: "New", Price: 100, CategoryID: category.ID, CreatedAt: time.Now()})

	status, body := getJSON(t, app, "/api/products?sort=newest")

	assert.Equal(t, http.StatusOK, status)
	products := dataList(t, body)
	if assert.NotEmpty(t, products) {
		assert.EqualValues(t, newest.ID, products[0]["id"])
	}
}

func TestIndexValidationFailures(t *testing.T) {
	cases := []struct {
		name  string
		query string
		field string
	}{
		{"price_from not numeric", "price_from=invalid", "price_from"},
		{"price_to not numeric", "price_to=invalid", "price_to"},
		{"nonexistent category", "category_id=99999", "category_id"},
		{"rating_from above max", "rating_from=10", "rating_from"},
		{"invalid sort", "sort=invalid_sort", "sort"},
		{"per_page above max", "per_page=200", "per_page"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := setupApp(t)

			status, body := getJSON(t, app, "/api/products?"+tc.query)

			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.Contains(t, body, "message")
			errs, ok := body["errors"].(map[string]interface{})
			if assert.True(t, ok, "response has no errors map") {
				assert.Contains(t, errs, tc.field)
				messages := errs[tc.field].([]interface{})
				assert.NotEmpty(t, messages)
			}
		})
	}
}

func TestIndexRespectsPerPageParameter(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Ноутбуки")
	for i := 0; i < 25; i++ {
		createProduct(t, db, models.Product{Name: fmt.Sprintf("Product %02d", i), Price: float64(i), CategoryID: category.ID})
	}

	status, body := getJSON(t, app, "/api/products?per_page=5")

	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, body["per_page"])
	assert.EqualValues(t, 25, body["total"])
	assert.Len(t, dataList(t, body), 5)
}

func TestShowReturnsSingleProduct(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Смартфоны")
	product := createProduct(t, db, models.Product{Name: "iPhone 14 Pro", Price: 999.99, CategoryID: category.ID, InStock: true, Rating: 4.8})

	status, body := getJSON(t, app, fmt.Sprintf("/api/products/%d", product.ID))

	assert.Equal(t, http.StatusOK, status)
	data, ok := body["data"].(map[string]interface{})
	if assert.True(t, ok, "response has no data object") {
		assert.EqualValues(t, product.ID, data["id"])
		assert.Equal(t, "iPhone 14 Pro", data["name"])
		assert.Equal(t, 999.99, data["price"])
		assert.EqualValues(t, category.ID, data["category_id"])
		assert.Equal(t, true, data["in_stock"])
		assert.Equal(t, 4.8, data["rating"])
		assert.Contains(t, data, "created_at")
		assert.Contains(t, data, "updated_at")

		nested, ok := data["category"].(map[string]interface{})
		if assert.True(t, ok, "product has no nested category") {
			assert.EqualValues(t, category.ID, nested["id"])
			assert.Equal(t, "Смартфоны", nested["name"])
		}
	}
}

func TestShowReturns404ForNonexistentProduct(t *testing.T) {
	app, _ := setupApp(t)

	status, body := getJSON(t, app, "/api/products/99999")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Товар не найден", body["message"])
	errs, ok := body["errors"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Contains(t, errs, "id")
	}
}

// A non-numeric identifier is answered as 404, not as a format error.
func TestShowNonNumericIDIs404(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := getJSON(t, app, "/api/products/invalid")

	assert.Equal(t, http.StatusNotFound, status)
}

func TestMessagesFollowAcceptLanguage(t *testing.T) {
	app, _ := setupApp(t)

	// Default locale without a header
	status, body := getJSON(t, app, "/api/products/99999")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Товар не найден", body["message"])

	// Supported alternate locale
	status, body = getJSON(t, app, "/api/products/99999", map[string]string{"Accept-Language": "en"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["message"])

	// Region-qualified tags do not match; default applies
	status, body = getJSON(t, app, "/api/products/99999", map[string]string{"Accept-Language": "en-US"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Товар не найден", body["message"])

	// Validation messages localize the same way, field keys stay stable
	status, body = getJSON(t, app, "/api/products?sort=invalid_sort", map[string]string{"Accept-Language": "en"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Validation failed", body["message"])
	errs := body["errors"].(map[string]interface{})
	messages := errs["sort"].([]interface{})
	assert.Contains(t, messages, "The selected sort option is invalid")
}

func TestRoundTripCreateAndFetch(t *testing.T) {
	app, db := setupApp(t)
	category := createCategory(t, db, "Фотоаппараты")
	created := createProduct(t, db, models.Product{Name: "Canon EOS R6", Price: 1799.99, CategoryID: category.ID, InStock: true, Rating: 4.8})

	status, body := getJSON(t, app, fmt.Sprintf("/api/products/%d", created.ID))

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, created.ID, data["id"])
	assert.Equal(t, created.Name, data["name"])
	assert.Equal(t, created.Price, data["price"])
	assert.EqualValues(t, created.CategoryID, data["category_id"])
	nested := data["category"].(map[string]interface{})
	assert.Equal(t, category.Name, nested["name"])
}
