package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rantcrypto/cmcgate/pkg/common"
	handlers "github.com/rantcrypto/cmcgate/pkg/handlers/http"
	"github.com/rantcrypto/cmcgate/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChainApp(logger *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.NewErrorHandler(logger)})
	transport := NewTransport(
		NewTraceMiddleware(),
		NewMetricsMiddleware(),
		NewAccessLogMiddleware(logger),
		NewPanicRecoverMiddleware(logger),
	)
	app.Use(transport.GetMiddlewares()...)
	return app
}

func tagged(route string, h fiber.Handler) []fiber.Handler {
	return []fiber.Handler{func(c *fiber.Ctx) error {
		c.Locals(common.RouteLocal, route)
		return c.Next()
	}, h}
}

func TestTraceMiddleware_AssignsAndEchoes(t *testing.T) {
	logger, _ := test.NewNullLogger()
	app := newChainApp(logger)
	var seen string
	app.Get("/ok", func(c *fiber.Ctx) error {
		seen, _ = c.Locals(common.TraceIDLocal).(string)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Header.Get(common.TraceIDHeader))

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(common.TraceIDHeader, "caller-trace")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-trace", resp.Header.Get(common.TraceIDHeader))
	assert.Equal(t, "caller-trace", seen)
}

func TestPanicRecover_RendersInternalError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := newChainApp(logger)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("nil map write")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"error_code":500`)
	assert.NotContains(t, string(raw), "nil map write")

	var recovered bool
	for _, e := range hook.AllEntries() {
		if e.Message == "HTTP server panic recovered" {
			recovered = true
		}
	}
	assert.True(t, recovered)
}

func TestAccessLog_LogsFinalStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := newChainApp(logger)

	resp, err := app.Test(httptest.NewRequest("GET", "/unknown?x=1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request completed", entry.Message)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusBadRequest, entry.Data["status"])
	assert.Equal(t, "x=1", entry.Data["query"])
	assert.NotEmpty(t, entry.Data["trace_id"])
}

func TestMetricsMiddleware_CountsByRouteAndStatus(t *testing.T) {
	prometheus.Initialize(prometheus.DefaultMetricsConfig())
	logger, _ := test.NewNullLogger()
	app := newChainApp(logger)
	app.Get("/v1/fiat/map", tagged("/v1/fiat/map", func(c *fiber.Ctx) error {
		return fiber.ErrTooManyRequests
	})...)

	counter := prometheus.GatewayRequestTotal.WithLabelValues("/v1/fiat/map", "GET", "429")
	before := testutil.ToFloat64(counter)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/fiat/map", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
