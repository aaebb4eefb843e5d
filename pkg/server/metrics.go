package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rantcrypto/cmcgate/pkg/config"
	"github.com/rantcrypto/cmcgate/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const MetricsPath = "/metrics"

// MetricsServer exposes the gateway registry on its own port.
type MetricsServer struct {
	config *config.Config
	logger *logrus.Logger
	app    *fiber.App
}

func NewMetricsServer(cfg *config.Config, logger *logrus.Logger) *MetricsServer {
	prometheus.Initialize(prometheus.MetricsConfig{
		Enabled:               cfg.Metrics.Enabled,
		EnableLatency:         cfg.Metrics.EnableLatency,
		EnableUpstreamLatency: cfg.Metrics.EnableUpstream,
	})

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(prometheus.Handler())
	app.Get(MetricsPath, func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})

	return &MetricsServer{
		config: cfg,
		logger: logger,
		app:    app,
	}
}

// Run blocks until Shutdown; it returns immediately when metrics are off.
func (s *MetricsServer) Run() error {
	if !s.config.Metrics.Enabled {
		s.logger.Info("prometheus metrics are disabled by configuration")
		return nil
	}
	s.logger.WithField("addr", s.config.Server.MetricsPort).Info("starting metrics server")
	return s.app.Listen(fmt.Sprintf(":%d", s.config.Server.MetricsPort))
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *MetricsServer) App() *fiber.App {
	return s.app
}
