package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "tomosu", cfg.DynamoDBTable)
	assert.Equal(t, "tomosu-events", cfg.EventBusName)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, time.Minute, cfg.MetricsInterval)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("TABLE_NAME", "tomosu-staging")
	t.Setenv("SESSION_LIFETIME", "1h")
	t.Setenv("ENABLE_METRICS", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "tomosu-staging", cfg.DynamoDBTable)
	assert.Equal(t, time.Hour, cfg.SessionLifetime)
	assert.True(t, cfg.EnableMetrics)
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "super-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestValidate_RejectsNonPositiveLifetime(t *testing.T) {
	cfg := &Config{Environment: "development", SessionLifetime: 0}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_LIFETIME")
}
