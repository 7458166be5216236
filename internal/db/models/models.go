package models

import (
	"errors"
	"time"
)

const (
	// DefaultPageSize is the max number of rows that are retrieved from the DB
	// per listing API call when the caller does not request a page size
	DefaultPageSize = 1000
)

// Sort directions accepted by list operations
const (
	// SortAscending sorts list results smallest first
	SortAscending = 1
	// SortDescending sorts list results largest first
	SortDescending = -1
)

var (
	// ErrInvalidSortBy indicates an unsupported sort field was requested
	ErrInvalidSortBy = errors.New("invalid sort field")
	// ErrInvalidSortDirection indicates a sort direction other than 1 or -1
	ErrInvalidSortDirection = errors.New("sort direction must be 1 or -1")
)

// ListOptions represents pagination, filtering and sorting options for job
// list operations
type ListOptions struct {
	PageSize      int     `json:"page_size"` // Number of items per page
	Page          int     `json:"page"`      // 1-indexed page number
	Success       *bool   `json:"success,omitempty"`  // Filter by completion outcome
	JobType       JobType `json:"job_type,omitempty"` // Filter by job type
	SortBy        string  `json:"sort_by,omitempty"`
	SortDirection int     `json:"sort_direction,omitempty"`
}

// Validate ensures the sort options are usable. The direction is only checked
// when a sort field was requested.
func (o *ListOptions) Validate() error {
	if o.SortBy == "" {
		return nil
	}
	if !IsJobSortField(o.SortBy) {
		return ErrInvalidSortBy
	}
	if o.SortDirection != SortAscending && o.SortDirection != SortDescending {
		return ErrInvalidSortDirection
	}
	return nil
}

// Limit returns the effective page size
func (o *ListOptions) Limit() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

// Skip returns the number of rows to skip for the requested page. Pages below
// 1 are clamped to the first page.
func (o *ListOptions) Skip() int {
	page := o.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * o.Limit()
}

// UTCNow returns the current time in UTC truncated to whole seconds, the
// precision stored for job timestamps
func UTCNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
