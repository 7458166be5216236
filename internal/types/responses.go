package types

// ErrorResponse represents an error response
// Example: {"error":"job_not_found"}
type ErrorResponse struct {
	// Error is a stable slug identifying what went wrong
	Error string `json:"error"`

	// Optional additional details about the error
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse acknowledges an operation that returns no data
// Example: {"success":true}
type SuccessResponse struct {
	Success bool `json:"success"`
}

// PaginatedResponse wraps a page of results together with the total count
// across all pages
// Example: {"items":[...],"total":42,"page":1,"pageSize":1000}
type PaginatedResponse[T any] struct {
	// Array of result items for the requested page
	Items []T `json:"items"`

	// Total number of items matching the query across all pages
	Total int64 `json:"total"`

	// Current page number (1-based)
	Page int `json:"page"`

	// Maximum number of items per page
	PageSize int `json:"pageSize"`
}
