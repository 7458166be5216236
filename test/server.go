package test

import (
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/arcvault/arcvault/internal/api/v1/middleware"
	"github.com/arcvault/arcvault/internal/db/models"
	"github.com/arcvault/arcvault/internal/services"
	"github.com/arcvault/arcvault/internal/storage"
	"github.com/arcvault/arcvault/pkg/api/v1/client"
	"github.com/arcvault/arcvault/pkg/api/v1/handlers"
	"github.com/arcvault/arcvault/pkg/api/v1/routes"
)

// testClientTimeout is the timeout for test API client requests
const testClientTimeout = 5 * time.Second

// SetupServer configures the test suite with a real API server
func SetupServer(suite *Suite) {
	// Create Fiber app with default config
	suite.App = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	// Add logger
	suite.App.Use(middleware.Logger())

	// Storage locations replica targets resolve against
	suite.Registry = storage.NewRegistry([]models.S3Storage{
		{
			Name:             "default",
			EndpointURL:      "https://s3.example.com/bucket/",
			IsDefaultPrimary: true,
		},
		{
			Name:             "backup",
			EndpointURL:      "https://backup.example.com/replicas/",
			IsDefaultReplica: true,
		},
	})

	// Create services
	jobService := services.NewBackgroundJobService(
		suite.JobRepo,
		suite.OrgRepo,
		suite.Registry,
		suite.Dispatcher,
		suite.CrawlFileRepo,
		suite.ProfileFileRepo,
	)

	// Create handlers
	jobHandler := handlers.NewJobHandler(jobService)

	// Register routes
	routes.RegisterRoutes(suite.App, jobHandler)

	// Create test server using adaptor to convert Fiber app to http.Handler
	suite.Server = httptest.NewServer(adaptor.FiberApp(suite.App))

	// Create API client with test configuration
	client, err := client.NewClient(&client.Options{
		BaseURL: suite.Server.URL,
		Timeout: testClientTimeout,
	})
	suite.Require().NoError(err, "Failed to create API client")
	suite.APIClient = client

	// Update cleanup to close server
	originalCleanup := suite.cleanup
	suite.cleanup = func() {
		if suite.Server != nil {
			suite.Server.Close()
		}
		if originalCleanup != nil {
			originalCleanup()
		}
	}
}
