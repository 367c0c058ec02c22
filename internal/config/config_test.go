package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 20, cfg.API.TimeoutSecs)
	assert.Equal(t, 1, cfg.API.MaxAttempts)
	assert.InDelta(t, 10.0, cfg.API.RateLimit, 0.001)
	assert.Equal(t, "all", cfg.API.Fallback)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "feasibility.db", cfg.Store.DatabaseURL)
	assert.Equal(t, DefaultAnalysisConfig(), cfg.Analysis)
	assert.Equal(t, 24, cfg.Monitoring.LookbackHours)
	assert.Equal(t, 300, cfg.Monitoring.CheckIntervalSecs)
	assert.InDelta(t, 0.5, cfg.Monitoring.MockRateThreshold, 0.001)
	assert.InDelta(t, 0.2, cfg.Monitoring.FeasibleRateFloor, 0.001)
	assert.Empty(t, cfg.Monitoring.WebhookURL)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
api:
  base_url: http://backend:8000
  fallback: transient
store:
  driver: memory
analysis:
  pop_max_density: 8000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://backend:8000", cfg.API.BaseURL)
	assert.Equal(t, "transient", cfg.API.Fallback)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.InDelta(t, 8000.0, cfg.Analysis.PopMaxDensity, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 45, cfg.Analysis.NeutralCompetition)
	assert.Equal(t, 20, cfg.API.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FEASIBILITY_STORE_DRIVER", "memory")
	t.Setenv("FEASIBILITY_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FEASIBILITY_SERVER_PORT=3001\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FEASIBILITY_SERVER_PORT") }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
}

func TestLoadRejectsUnknownFallback(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FEASIBILITY_API_FALLBACK", "sometimes")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.fallback")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		API:      APIConfig{Fallback: "never"},
		Store:    StoreConfig{Driver: "postgres"},
		Analysis: DefaultAnalysisConfig(),
	}
	assert.NoError(t, cfg.Validate())

	cfg.Store.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "store.driver")

	cfg.Store.Driver = "memory"
	cfg.Analysis.PopMaxDensity = 0
	assert.ErrorContains(t, cfg.Validate(), "pop_max_density")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
