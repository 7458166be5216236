// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/arcvault/arcvault/pkg/api/v1/handlers"
)

/*

To keep this file organized, routes should be organized in the following way:

1. Smallest scope first.
2. For similar scopes, put the endpoints in alphabetical order.
3. Order routes in GET, POST, PUT, DELETE order.
	a. Within this ordering, param urls (ie /:id) should go last, otherwise fiber will interpret the route slug as that param.
	b. After param considerations, order alphabetically.
4. For clarity, naming should match the action (i.e. GetJob, CompleteJob)

*/

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Background job routes
	GetJob           = "GetJob"
	ListJobs         = "ListJobs"
	CompleteJob      = "CompleteJob"
	DeleteReplicaJob = "DeleteReplicaJob"
	ReplicateJob     = "ReplicateJob"
)

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the order they are registered.
// For example, if we register GetJob before the static job routes, "replicate" will get interpreted as a job ID.
func RegisterRoutes(
	app *fiber.App,
	jobHandler *handlers.JobHandler,
) {
	// API v1 routes
	v1 := app.Group(APIv1Prefix)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	// Background job endpoints, scoped to an org
	jobs := v1.Group("/orgs/:orgid/jobs")
	jobs.Get("/", jobHandler.ListJobs).Name(ListJobs)
	jobs.Post("/delete-replica", jobHandler.DeleteReplicaJob).Name(DeleteReplicaJob)
	jobs.Post("/replicate", jobHandler.ReplicateJob).Name(ReplicateJob)
	jobs.Get("/:id", jobHandler.GetJob).Name(GetJob)
	jobs.Post("/:id/complete", jobHandler.CompleteJob).Name(CompleteJob)
}

// initRouteCache initializes the route cache by creating a mock app and extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		// Create a mock app
		app := fiber.New()

		// Create an empty handler for route registration
		mockJobHandler := &handlers.JobHandler{}

		RegisterRoutes(app, mockJobHandler)

		// Extract routes from the app
		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()

	// Initialize cache if needed
	if routeCache == nil {
		routeCacheMu.RUnlock()
		initRouteCache()
		routeCacheMu.RLock()
	}

	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, value)
	}

	// Remove trailing slash if it's a base endpoint with no parameters
	if strings.HasSuffix(route, "/") && !strings.Contains(route, ":") {
		route = strings.TrimSuffix(route, "/")
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// Health check route helper

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Background job route helpers

// GetJobURL returns the URL for getting a background job by ID
func GetJobURL(orgID, jobID string) string {
	return BuildURL(GetJob, map[string]string{"orgid": orgID, "id": jobID}, nil)
}

// ListJobsURL returns the URL for listing an org's background jobs
func ListJobsURL(orgID string, queryParams url.Values) string {
	return BuildURL(ListJobs, map[string]string{"orgid": orgID}, queryParams)
}

// CompleteJobURL returns the URL for the job completion callback
func CompleteJobURL(orgID, jobID string) string {
	return BuildURL(CompleteJob, map[string]string{"orgid": orgID, "id": jobID}, nil)
}

// DeleteReplicaJobURL returns the URL for dispatching a replica delete job
func DeleteReplicaJobURL(orgID string) string {
	return BuildURL(DeleteReplicaJob, map[string]string{"orgid": orgID}, nil)
}

// ReplicateJobURL returns the URL for dispatching replication jobs
func ReplicateJobURL(orgID string) string {
	return BuildURL(ReplicateJob, map[string]string{"orgid": orgID}, nil)
}
