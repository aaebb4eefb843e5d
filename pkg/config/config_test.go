package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := chdirTemp(t)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, DefaultBaseURL, cfg.Upstream.BaseURL)
	assert.Equal(t, DefaultAPIKeyHeader, cfg.Upstream.APIKeyHeader)
	assert.Equal(t, DefaultTimeout, cfg.Upstream.Timeout)
	assert.Empty(t, cfg.Upstream.APIKey)
	assert.False(t, cfg.Upstream.CircuitBreaker.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	yaml := []byte(`
server:
  port: 8181
upstream:
  base_url: https://sandbox-api.coinmarketcap.com/
  timeout: 3s
  circuit_breaker:
    enabled: true
    timeout: 5s
    max_failures: 2
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0600))

	t.Setenv("UPSTREAM_API_KEY", "b54bcf4d-1bca-4e8e-9a24-22ff2c3d462c")
	t.Setenv("SERVER_METRICS_PORT", "9191")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 9191, cfg.Server.MetricsPort)
	assert.Equal(t, SandboxBaseURL, cfg.Upstream.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "b54bcf4d-1bca-4e8e-9a24-22ff2c3d462c", cfg.Upstream.APIKey)
	assert.True(t, cfg.Upstream.CircuitBreaker.Enabled)
	assert.Equal(t, uint32(2), cfg.Upstream.CircuitBreaker.MaxFailures)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_APIKeyAlias(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("CMC_API_KEY", "alias-key")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "alias-key", cfg.Upstream.APIKey)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{
			name:  "base url without scheme",
			env:   map[string]string{"UPSTREAM_BASE_URL": "pro-api.coinmarketcap.com"},
			field: "BaseURL",
		},
		{
			name:  "zero timeout",
			env:   map[string]string{"UPSTREAM_TIMEOUT": "0s"},
			field: "Timeout",
		},
		{
			name:  "unknown log level",
			env:   map[string]string{"LOG_LEVEL": "verbose"},
			field: "Level",
		},
		{
			name:  "metrics port equals server port",
			env:   map[string]string{"SERVER_PORT": "9000", "SERVER_METRICS_PORT": "9000"},
			field: "MetricsPort",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
