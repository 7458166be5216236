// Package mocks provides mock implementations of the external interfaces the
// API server depends on.
//
// Each mock implementation follows these principles:
//  1. Implements the same interface as the real component
//  2. Provides configurable behavior through function fields
//  3. Records calls so tests can assert on the work handed off
//  4. Uses consistent naming: Mock{Interface} for the mock type
//
// Example usage:
//
//	dispatcher := mocks.NewMockDispatcher()
//	dispatcher.RunReplicateJobFunc = func(_ context.Context, _ uuid.UUID, _ orchestrator.ReplicateJobParams) (string, error) {
//		return "", errors.New("queue unavailable")
//	}
package mocks
