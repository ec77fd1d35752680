package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

// App bundles the running pieces so main and the tests can wire and tear
// them down the same way.
type App struct {
	Fiber  *fiber.App
	DB     *gorm.DB
	Events *rabbitmq.Client
}

// NewApp builds the application from viper configuration: database,
// migrations, optional seed data, optional RabbitMQ eventing, and the HTTP
// surface.
func NewApp() (*App, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	if viper.GetBool("SEED_DATA") {
		if err := seedCatalog(db); err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	// Eventing is optional; without a broker URL the API runs standalone.
	var mqClient *rabbitmq.Client
	var events services.EventPublisher
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		events = mqClient
	}

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productService := services.NewProductService(productRepo, categoryRepo, events)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New()

	app.Use(logger.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	app.Use(middleware.SetLocale())

	api := app.Group("/api")
	productHandler.RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return &App{Fiber: app, DB: db, Events: mqClient}, nil
}

// Close releases the app's external resources.
func (a *App) Close() {
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
}

func openDatabase() (*gorm.DB, error) {
	driver := viper.GetString("DATABASE_DRIVER")
	dsn := viper.GetString("DATABASE_DSN")

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// The name search uses a full-text index on PostgreSQL. SQLite gets the
	// tokenized fallback in the search scope instead.
	if db.Dialector.Name() == "postgres" {
		err := db.Exec(
			"CREATE INDEX IF NOT EXISTS idx_products_name_fulltext ON products USING gin (to_tsvector('simple', name))",
		).Error
		if err != nil {
			return fmt.Errorf("failed to create full-text index: %w", err)
		}
	}
	return nil
}

// seedCatalog loads the demo catalog when the tables are still empty.
func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Смартфоны"},
		{Name: "Ноутбуки"},
		{Name: "Телевизоры"},
		{Name: "Наушники"},
		{Name: "Фотоаппараты"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []models.Product{
		{Name: "iPhone 14 Pro", Price: 99999.99, CategoryID: categories[0].ID, InStock: true, Rating: 4.8},
		{Name: "Samsung Galaxy S23", Price: 79999.99, CategoryID: categories[0].ID, InStock: true, Rating: 4.7},
		{Name: "Xiaomi Redmi Note 12", Price: 19999.99, CategoryID: categories[0].ID, InStock: false, Rating: 4.2},
		{Name: "MacBook Pro 16\"", Price: 249999.99, CategoryID: categories[1].ID, InStock: true, Rating: 4.9},
		{Name: "ASUS ROG Strix G15", Price: 149999.99, CategoryID: categories[1].ID, InStock: true, Rating: 4.5},
		{Name: "Lenovo IdeaPad 3", Price: 39999.99, CategoryID: categories[1].ID, InStock: true, Rating: 4.0},
		{Name: "Samsung QLED 4K 55\"", Price: 89999.99, CategoryID: categories[2].ID, InStock: true, Rating: 4.6},
		{Name: "LG OLED 65\"", Price: 129999.99, CategoryID: categories[2].ID, InStock: false, Rating: 4.8},
		{Name: "Apple AirPods Pro", Price: 24999.99, CategoryID: categories[3].ID, InStock: true, Rating: 4.7},
		{Name: "Sony WH-1000XM5", Price: 34999.99, CategoryID: categories[3].ID, InStock: true, Rating: 4.9},
		{Name: "Canon EOS R6", Price: 179999.99, CategoryID: categories[4].ID, InStock: true, Rating: 4.8},
		{Name: "Sony Alpha 7 III", Price: 159999.99, CategoryID: categories[4].ID, InStock: true, Rating: 4.7},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d categories and %d products", len(categories), len(products))
	return nil
}

func main() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=catalog port=5432 sslmode=disable")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SEED_DATA", false)
	viper.AutomaticEnv()

	app, err := NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer app.Close()

	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
