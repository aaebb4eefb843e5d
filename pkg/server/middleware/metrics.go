package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rantcrypto/cmcgate/pkg/common"
	"github.com/rantcrypto/cmcgate/pkg/infra/prometheus"
)

const unmatchedRoute = "unmatched"

type metricsMiddleware struct{}

func NewMetricsMiddleware() Middleware {
	return &metricsMiddleware{}
}

// Middleware must run outside the access log middleware, which renders
// errors, so the final status is visible here.
func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route, ok := c.Locals(common.RouteLocal).(string)
		if !ok || route == "" {
			route = unmatchedRoute
		}
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
		}
		prometheus.ObserveRequest(route, c.Method(), status, time.Since(start))
		return err
	}
}
