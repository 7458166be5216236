// Package client provides the API client for interacting with the arcvault API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/arcvault/arcvault/internal/db/models"
	"github.com/arcvault/arcvault/internal/types"
	"github.com/arcvault/arcvault/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Background job endpoints
	GetJob(ctx context.Context, orgID, jobID string) (models.BackgroundJob, error)
	ListJobs(ctx context.Context, orgID string, opts *models.ListOptions) (types.PaginatedResponse[models.BackgroundJob], error)
	ReplicateJob(ctx context.Context, orgID string, req types.ReplicateJobRequest) (types.ReplicationStartedResponse, error)
	CompleteJob(ctx context.Context, orgID, jobID string, req types.CompleteJobRequest) error
	DeleteReplicaJob(ctx context.Context, orgID string, req types.DeleteReplicaJobRequest) error
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	_, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	// Resolve the endpoint URL
	fullURL := c.baseURL + endpoint

	// Create a new agent based on the HTTP method
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	// Set common headers
	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	// Add body if provided
	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and processes the response
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	// Execute the request
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	// Check for non-success status codes
	if statusCode < 200 || statusCode >= 300 {
		// If we can't decode the error response, return an error with the raw body as the message
		return &fiber.Error{
			Code:    statusCode,
			Message: string(body),
		}
	}

	// Decode the response body if a target is provided
	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// listQueryValues converts list options to the query parameters the API
// expects. The sort direction only travels with an explicit sort field.
func listQueryValues(opts *models.ListOptions) url.Values {
	queryParams := url.Values{}
	if opts == nil {
		return queryParams
	}

	if opts.PageSize > 0 {
		queryParams.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Page > 0 {
		queryParams.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Success != nil {
		queryParams.Set("success", strconv.FormatBool(*opts.Success))
	}
	if opts.JobType != "" {
		queryParams.Set("jobType", opts.JobType.String())
	}
	if opts.SortBy != "" {
		queryParams.Set("sortBy", opts.SortBy)
		queryParams.Set("sortDirection", strconv.Itoa(opts.SortDirection))
	}

	return queryParams
}

// Health check implementation

// HealthCheck checks the health of the API
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	endpoint := routes.HealthCheckURL()
	var response map[string]string
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return map[string]string{}, err
	}
	return response, nil
}

// Background job methods implementation

// GetJob retrieves a background job by ID
func (c *APIClient) GetJob(ctx context.Context, orgID, jobID string) (models.BackgroundJob, error) {
	endpoint := routes.GetJobURL(orgID, jobID)
	var response models.BackgroundJob
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return models.BackgroundJob{}, err
	}
	return response, nil
}

// ListJobs retrieves a page of an org's background jobs
func (c *APIClient) ListJobs(ctx context.Context, orgID string, opts *models.ListOptions) (types.PaginatedResponse[models.BackgroundJob], error) {
	endpoint := routes.ListJobsURL(orgID, listQueryValues(opts))
	var response types.PaginatedResponse[models.BackgroundJob]
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return types.PaginatedResponse[models.BackgroundJob]{}, err
	}
	return response, nil
}

// ReplicateJob dispatches replication jobs for a stored file
func (c *APIClient) ReplicateJob(ctx context.Context, orgID string, req types.ReplicateJobRequest) (types.ReplicationStartedResponse, error) {
	endpoint := routes.ReplicateJobURL(orgID)
	var response types.ReplicationStartedResponse
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, req, &response); err != nil {
		return types.ReplicationStartedResponse{}, err
	}
	return response, nil
}

// CompleteJob reports the outcome of a replication job
func (c *APIClient) CompleteJob(ctx context.Context, orgID, jobID string, req types.CompleteJobRequest) error {
	endpoint := routes.CompleteJobURL(orgID, jobID)
	return c.executeRequest(ctx, http.MethodPost, endpoint, req, nil)
}

// DeleteReplicaJob dispatches a job to delete a file from a replica location
func (c *APIClient) DeleteReplicaJob(ctx context.Context, orgID string, req types.DeleteReplicaJobRequest) error {
	endpoint := routes.DeleteReplicaJobURL(orgID)
	return c.executeRequest(ctx, http.MethodPost, endpoint, req, nil)
}
