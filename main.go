package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"drogaria/internal/config"
	"drogaria/internal/handlers"
	"drogaria/internal/middleware"
	"drogaria/internal/models"
	"drogaria/internal/repositories"
	"drogaria/internal/services"
	"drogaria/pkg/rabbitmq"
	"drogaria/pkg/viacep"
)

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(cfg.DatabaseDSN), &gorm.Config{})
	}
}

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.ProductImage{},
		&models.Customer{},
		&models.StaffUser{},
		&models.Order{},
		&models.Counter{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Order events (optional) ---
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	imageRepo := repositories.NewGORMProductImageRepository(db)
	customerRepo := repositories.NewGORMCustomerRepository(db)
	staffRepo := repositories.NewGORMStaffRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	sequenceRepo := repositories.NewGORMSequenceRepository(db)

	// --- Services ---
	cepClient := viacep.NewHTTPClient(cfg.ViaCEPBaseURL)
	catalogService := services.NewCatalogService(productRepo, imageRepo, sequenceRepo, cfg.UploadDir)
	customerService := services.NewCustomerService(customerRepo, cepClient)
	staffService := services.NewStaffService(staffRepo, sequenceRepo)
	checkoutService := services.NewCheckoutService(productRepo, customerRepo, orderRepo, sequenceRepo, mqClient)
	orderService := services.NewOrderService(orderRepo, mqClient)

	if err := staffService.EnsureSeedUsers(); err != nil {
		log.Fatalf("Failed to seed staff users: %v", err)
	}

	// --- Sessions ---
	sessionStore := middleware.NewSessionStore(cfg.SessionExpiry)

	// --- Handlers ---
	storeHandler := handlers.NewStoreHandler(catalogService, sessionStore)
	customerHandler := handlers.NewCustomerHandler(customerService, orderService, cepClient, sessionStore)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, customerService, orderService, sessionStore)
	backofficeHandler := handlers.NewBackofficeHandler(staffService, orderService, sessionStore)
	productHandler := handlers.NewProductHandler(catalogService, staffService, sessionStore)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	app.Static("/images/produtos", cfg.UploadDir)

	storeHandler.RegisterRoutes(app)
	customerHandler.RegisterRoutes(app)
	checkoutHandler.RegisterRoutes(app)
	backofficeHandler.RegisterRoutes(app)
	productHandler.RegisterRoutes(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/loja", fiber.StatusSeeOther)
	})

	// --- Start HTTP server ---
	log.Printf("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
