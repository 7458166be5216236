package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/arcvault/arcvault/internal/orchestrator"
)

// ReplicateCall records a single replication job handed to the mock.
type ReplicateCall struct {
	OrgID  uuid.UUID
	Params orchestrator.ReplicateJobParams
}

// MockDispatcher implements services.JobDispatcher for testing. Jobs are
// recorded in memory instead of being enqueued on Redis.
type MockDispatcher struct {
	mu     sync.Mutex
	calls  []ReplicateCall
	nextID int

	// RunReplicateJobFunc overrides the default recording behavior when set
	RunReplicateJobFunc func(ctx context.Context, oid uuid.UUID, params orchestrator.ReplicateJobParams) (string, error)
}

// NewMockDispatcher creates a mock dispatcher that assigns sequential task IDs
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

// RunReplicateJob records the dispatch and returns a deterministic task ID
func (d *MockDispatcher) RunReplicateJob(ctx context.Context, oid uuid.UUID, params orchestrator.ReplicateJobParams) (string, error) {
	if d.RunReplicateJobFunc != nil {
		return d.RunReplicateJobFunc(ctx, oid, params)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, ReplicateCall{OrgID: oid, Params: params})
	d.nextID++
	return fmt.Sprintf("mock-task-%04d", d.nextID), nil
}

// Calls returns a copy of the recorded dispatches
func (d *MockDispatcher) Calls() []ReplicateCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ReplicateCall, len(d.calls))
	copy(out, d.calls)
	return out
}

// Reset clears the recorded dispatches and the task ID counter
func (d *MockDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
	d.nextID = 0
}
