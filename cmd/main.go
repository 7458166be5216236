package main

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/arcvault/arcvault/config"
	"github.com/arcvault/arcvault/internal/api/v1/middleware"
	"github.com/arcvault/arcvault/internal/db"
	"github.com/arcvault/arcvault/internal/db/repos"
	"github.com/arcvault/arcvault/internal/events"
	"github.com/arcvault/arcvault/internal/logger"
	"github.com/arcvault/arcvault/internal/orchestrator"
	"github.com/arcvault/arcvault/internal/services"
	"github.com/arcvault/arcvault/internal/storage"
	"github.com/arcvault/arcvault/pkg/api/v1/handlers"
	"github.com/arcvault/arcvault/pkg/api/v1/routes"
)

func main() {
	logger.Initialize()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.New(db.Options{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	storages, err := storage.LoadStorages(cfg.StoragesFile)
	if err != nil {
		logger.Fatalf("Failed to load storage locations: %v", err)
	}
	registry := storage.NewRegistry(storages)

	ctx := context.Background()
	dispatcher, err := orchestrator.NewDispatcher(ctx, cfg.RedisURL, cfg.DispatchMaxRetry)
	if err != nil {
		logger.Fatalf("Failed to connect to the job orchestrator: %v", err)
	}

	// Start the job lifecycle event loop
	events.Start(ctx)

	// Create repositories
	jobRepo := repos.NewJobRepository(database)
	orgRepo := repos.NewOrgRepository(database)
	crawlFileRepo := repos.NewCrawlFileRepository(database)
	profileFileRepo := repos.NewProfileFileRepository(database)

	// Create services and handlers
	jobService := services.NewBackgroundJobService(
		jobRepo,
		orgRepo,
		registry,
		dispatcher,
		crawlFileRepo,
		profileFileRepo,
	)
	jobHandler := handlers.NewJobHandler(jobService)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app, jobHandler)

	logger.Infof("🚀 Starting API server on port %s", cfg.Port)
	logger.Fatal(app.Listen(":" + cfg.Port))
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
