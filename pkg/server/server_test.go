package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rantcrypto/cmcgate/pkg/config"
	"github.com/rantcrypto/cmcgate/pkg/infra/logger"
	"github.com/rantcrypto/cmcgate/pkg/infra/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:         18080,
			MetricsPort:  19090,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
			BodyLimit:    1024,
		},
		Metrics: config.MetricsConfig{Enabled: true, EnableLatency: true, EnableUpstream: true},
	}
}

func TestMetricsServer_ServesRegistry(t *testing.T) {
	s := NewMetricsServer(testConfig(), logger.NewNopLogger())
	prometheus.ObserveError("rate_limited", 1008)

	resp, err := s.App().Test(httptest.NewRequest("GET", MetricsPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "cmcgate_errors_total")
}

func TestMetricsServer_DisabledRunReturns(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	t.Cleanup(func() { prometheus.Initialize(prometheus.DefaultMetricsConfig()) })

	s := NewMetricsServer(cfg, logger.NewNopLogger())
	assert.NoError(t, s.Run())
}

func TestProxyServer_ShutdownWithoutRun(t *testing.T) {
	s, err := NewProxyServer(ProxyServerDI{Config: testConfig(), Logger: logger.NewNopLogger()})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}
