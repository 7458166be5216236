// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/arcvault/arcvault/internal/constants"
)

// Config holds the runtime configuration for the API server.
type Config struct {
	// Port is the port the API server listens on
	Port string

	// DBHost, DBPort, DBUser, DBPassword, DBName and DBSSLMode configure the
	// postgres connection
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// RedisURL is the connection URL of the redis instance backing the
	// replication job queue
	RedisURL string

	// StoragesFile is the path of the YAML file declaring the default
	// storage locations
	StoragesFile string

	// DispatchMaxRetry is the retry budget handed to the orchestrator for
	// each dispatched job; retries themselves run outside this service
	DispatchMaxRetry int
}

// Load reads configuration from the environment. A .env file is loaded first
// when present so local development does not need exported variables.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may be set by the deployment instead
	_ = godotenv.Load()

	cfg := &Config{
		Port:             GetEnv(constants.EnvServerPort, "8080"),
		DBHost:           GetEnv("DB_HOST", "localhost"),
		DBPort:           GetEnvAsInt("DB_PORT", 5432),
		DBUser:           GetEnv("DB_USER", "postgres"),
		DBPassword:       GetEnv("DB_PASSWORD", "postgres"),
		DBName:           GetEnv("DB_NAME", "arcvault"),
		DBSSLMode:        GetEnv("DB_SSL_MODE", "disable"),
		RedisURL:         GetEnv(constants.EnvRedisURL, "redis://127.0.0.1:6379/0"),
		StoragesFile:     GetEnv(constants.EnvStoragesFile, "storages.yaml"),
		DispatchMaxRetry: GetEnvAsInt(constants.EnvDispatchMaxRetry, 2),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("%s cannot be empty", constants.EnvRedisURL)
	}
	if c.DispatchMaxRetry < 0 {
		return fmt.Errorf("%s must be >= 0", constants.EnvDispatchMaxRetry)
	}
	return nil
}

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvAsInt retrieves an integer environment variable with a fallback value
// if not set or not parseable
func GetEnvAsInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
