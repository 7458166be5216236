// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvServerPort is the environment variable for the API server port
	EnvServerPort = "ARCVAULT_PORT"

	// EnvRedisURL is the environment variable for the replication queue redis URL
	EnvRedisURL = "ARCVAULT_REDIS_URL"

	// EnvStoragesFile is the environment variable pointing at the default storages YAML file
	EnvStoragesFile = "ARCVAULT_STORAGES_FILE"

	// EnvDispatchMaxRetry is the environment variable for the per-job retry budget handed to the orchestrator
	EnvDispatchMaxRetry = "ARCVAULT_DISPATCH_MAX_RETRY"
)
