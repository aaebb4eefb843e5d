package dependency_container

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rantcrypto/cmcgate/pkg/config"
	"github.com/rantcrypto/cmcgate/pkg/infra/httpx/mocks"
	"github.com/rantcrypto/cmcgate/pkg/infra/logger"
	"github.com/rantcrypto/cmcgate/pkg/server"
	"github.com/rantcrypto/cmcgate/pkg/server/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "b54bcf4d-1bca-4e8e-9a24-22ff2c3d462c"

func testConfig(apiKey string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:         8080,
			MetricsPort:  9090,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
			BodyLimit:    1024 * 1024,
		},
		Upstream: config.UpstreamConfig{
			BaseURL:         config.SandboxBaseURL,
			APIKey:          apiKey,
			APIKeyHeader:    config.DefaultAPIKeyHeader,
			Timeout:         2 * time.Second,
			MaxConnsPerHost: 16,
			CircuitBreaker: config.CircuitBreakerConfig{
				Enabled:     true,
				Timeout:     time.Minute,
				MaxFailures: 3,
			},
		},
		Metrics: config.MetricsConfig{Enabled: true, EnableLatency: true, EnableUpstream: true},
		Log:     config.LogConfig{Level: "info", Format: "json"},
	}
}

func newProxy(t *testing.T, cfg *config.Config, client *mocks.MockHTTPClient) *server.ProxyServer {
	t.Helper()
	log := logger.NewNopLogger()
	c, err := NewContainer(ContainerDI{Cfg: cfg, Logger: log, HTTPClient: client})
	require.NoError(t, err)

	proxy, err := server.NewProxyServer(server.ProxyServerDI{Config: cfg, Logger: log, Routers: []router.ServerRouter{c.ProxyRouter}})
	require.NoError(t, err)
	return proxy
}

func TestGateway_BlockchainStatisticsLatest(t *testing.T) {
	client := new(mocks.MockHTTPClient)
	client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.URL.String() == config.SandboxBaseURL+"/v1/blockchain/statistics/latest?id=1" &&
			r.Header.Get(config.DefaultAPIKeyHeader) == testAPIKey
	})).Return(mocks.NewResponse(http.StatusOK,
		`{"status":{"timestamp":"2024-01-01T00:00:00.000Z","error_code":0,"error_message":null,"elapsed":3,"credit_count":1},"data":{"BTC":{"id":1,"slug":"bitcoin","symbol":"BTC"}}}`,
		map[string]string{"Content-Type": "application/json; charset=utf-8"}), nil).Once()

	proxy := newProxy(t, testConfig(testAPIKey), client)
	resp, err := proxy.Router.Test(httptest.NewRequest("GET", "/v1/blockchain/statistics/latest?id=1", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body, "data")
	assert.NotContains(t, string(raw), testAPIKey)
	client.AssertExpectations(t)
}

func TestGateway_MissingAPIKeyIs401(t *testing.T) {
	client := new(mocks.MockHTTPClient)
	proxy := newProxy(t, testConfig(""), client)

	resp, err := proxy.Router.Test(httptest.NewRequest("GET", "/v1/blockchain/statistics/latest?id=1", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body struct {
		Status struct {
			ErrorCode    int    `json:"error_code"`
			ErrorMessage string `json:"error_message"`
		} `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1002, body.Status.ErrorCode)
	assert.NotEmpty(t, body.Status.ErrorMessage)
	client.AssertNotCalled(t, "Do", mock.Anything)
}

func TestGateway_UpstreamRateLimitRelayedAs429(t *testing.T) {
	client := new(mocks.MockHTTPClient)
	client.On("Do", mock.Anything).Return(mocks.NewResponse(http.StatusTooManyRequests,
		`{"status":{"error_code":1008,"error_message":"You've exceeded your API Key's HTTP request rate limit. Rate limits reset every minute."}}`,
		nil), nil)

	proxy := newProxy(t, testConfig(testAPIKey), client)
	resp, err := proxy.Router.Test(httptest.NewRequest("GET", "/v1/blockchain/statistics/latest?id=1", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(raw), `"error_code":1008`))
}
