// Package test provides infrastructure and utilities for integration testing
// in Arcvault.
//
// The test package implements a complete test environment that allows testing
// the interaction between different components while maintaining control over
// external dependencies. It can be used both within Arcvault and by external
// packages that want to test their integration with Arcvault.
//
// The package provides:
//
//   - Suite: A struct that manages a complete test setup including a
//     file-based database, real API server, and a mocked job dispatcher
//
//   - Mock Management: Centralized mock implementations for the external
//     orchestrator the service hands replication work to
//
//   - Test Utilities: Helper functions for common testing scenarios and
//     assertions
//
// Example Usage:
//
//	func TestExample(t *testing.T) {
//	    suite := test.NewSuite(t)
//	    defer suite.Cleanup()
//
//	    // Use suite.APIClient to make requests
//	    // Use suite.Dispatcher to inspect dispatched jobs
//	}
//
// The test package is designed to:
//  1. Enable testing of API contracts between client and server
//  2. Provide consistent mocking of the external orchestrator
//  3. Reduce test setup boilerplate
//  4. Make tests more maintainable and reliable
//  5. Support external package integration testing
package test
