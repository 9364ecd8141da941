package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 1800, config.Server.WriteTimeout)
	assert.Equal(t, "localhost", config.Database.Host)
	assert.Equal(t, 5432, config.Database.Port)
	assert.Equal(t, "localhost", config.Redis.Host)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, "24.200.001", config.ERP.APIVersion)
	assert.Equal(t, 3, config.ERP.MaxRetries)
	assert.Equal(t, 1000, config.ERP.RetryBaseDelayMs)
	assert.Equal(t, 10, config.Import.BatchSize)
	assert.Equal(t, 500, config.Import.BatchDelayMs)
	assert.Equal(t, 300, config.Import.LookupCacheTTL)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("ERP_IMPORT_SERVER_PORT", "9090")
	t.Setenv("ERP_IMPORT_IMPORT_BATCH_SIZE", "25")
	t.Setenv("ERP_IMPORT_ERP_API_VERSION", "23.100.001")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, 25, config.Import.BatchSize)
	assert.Equal(t, "23.100.001", config.ERP.APIVersion)
}
