package test

import (
	"github.com/arcvault/arcvault/test/mocks"
)

// SetupMockDispatcher sets up a mock job dispatcher
func SetupMockDispatcher(suite *Suite) {
	suite.Dispatcher = mocks.NewMockDispatcher()
}
