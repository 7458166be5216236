package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcvault/arcvault/pkg/api/v1/handlers"
)

func TestHealthCheckRoute(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, &handlers.JobHandler{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestGetRoute(t *testing.T) {
	assert.Equal(t, "/health", GetRoute(HealthCheck))
	assert.Equal(t, "/api/v1/orgs/:orgid/jobs/:id", GetRoute(GetJob))
	assert.Equal(t, "/api/v1/orgs/:orgid/jobs/:id/complete", GetRoute(CompleteJob))
	assert.Equal(t, "", GetRoute("NoSuchRoute"))
}

func TestBuildURL(t *testing.T) {
	orgID := "6dcdae0d-2ef4-45e4-9a43-a8f8e7a48a2a"

	t.Run("unknown route", func(t *testing.T) {
		assert.Equal(t, "", BuildURL("NoSuchRoute", nil, nil))
	})

	t.Run("params are substituted", func(t *testing.T) {
		got := GetJobURL(orgID, "job-1")
		assert.Equal(t, "/api/v1/orgs/"+orgID+"/jobs/job-1", got)
	})

	t.Run("base endpoint trailing slash is trimmed", func(t *testing.T) {
		got := ListJobsURL(orgID, nil)
		assert.Equal(t, "/api/v1/orgs/"+orgID+"/jobs", got)
	})

	t.Run("query parameters are encoded", func(t *testing.T) {
		queryParams := url.Values{}
		queryParams.Set("page", "2")
		queryParams.Set("jobType", "replicate")

		got := ListJobsURL(orgID, queryParams)
		assert.Equal(t, "/api/v1/orgs/"+orgID+"/jobs?jobType=replicate&page=2", got)
	})

	t.Run("static job routes", func(t *testing.T) {
		assert.Equal(t, "/api/v1/orgs/"+orgID+"/jobs/replicate", ReplicateJobURL(orgID))
		assert.Equal(t, "/api/v1/orgs/"+orgID+"/jobs/delete-replica", DeleteReplicaJobURL(orgID))
		assert.Equal(t, "/api/v1/orgs/"+orgID+"/jobs/job-1/complete", CompleteJobURL(orgID, "job-1"))
	})
}
