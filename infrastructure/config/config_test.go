package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.EnableCORS)
	assert.False(t, cfg.EncryptAtRest)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("STORAGE_DRIVER", DriverFilesystem)
	t.Setenv("DATA_DIR", "/tmp/tangle-data")
	t.Setenv("ENABLE_METRICS", "false")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.Equal(t, DriverFilesystem, cfg.StorageDriver)
	assert.Equal(t, "/tmp/tangle-data", cfg.DataDir)
	assert.False(t, cfg.EnableMetrics)
}

func TestLoadConfig_UnknownDriverRejected(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestValidate_EncryptionRequiresKey(t *testing.T) {
	cfg := &Config{
		StorageDriver: DriverMemory,
		EncryptAtRest: true,
	}

	assert.Error(t, cfg.Validate())

	cfg.EncryptionKey = "abcd"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DriverRequirements(t *testing.T) {
	fs := &Config{StorageDriver: DriverFilesystem}
	assert.Error(t, fs.Validate())

	dynamo := &Config{StorageDriver: DriverDynamoDB}
	assert.Error(t, dynamo.Validate())
}

func TestIsDevelopmentAndProduction(t *testing.T) {
	dev := &Config{Environment: "development"}
	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())

	prod := &Config{Environment: "production"}
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())
}
