package config

import (
	"fmt"
	"os"
	"strconv"
)

// Storage drivers
const (
	DriverMemory     = "memory"
	DriverFilesystem = "filesystem"
	DriverDynamoDB   = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string
	LogLevel      string

	// Blob storage
	StorageDriver string
	DataDir       string
	AWSRegion     string
	DynamoDBTable string

	// At-rest encryption of the owned-captures document. Published
	// snapshots are always unencrypted.
	EncryptAtRest bool
	EncryptionKey string // hex-encoded 32-byte key

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool

	// Optional YAML file holding runtime-tunable limits, hot-reloaded
	DynamicConfigPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		StorageDriver: getEnv("STORAGE_DRIVER", DriverMemory),
		DataDir:       getEnv("DATA_DIR", "./data"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", "tangle"),

		EncryptAtRest: getEnvBool("ENCRYPT_AT_REST", false),
		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		DynamicConfigPath: getEnv("DYNAMIC_CONFIG_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverFilesystem, DriverDynamoDB:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.StorageDriver == DriverFilesystem && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required for the filesystem driver")
	}
	if c.StorageDriver == DriverDynamoDB && c.DynamoDBTable == "" {
		return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb driver")
	}
	if c.EncryptAtRest && c.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required when ENCRYPT_AT_REST is set")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
