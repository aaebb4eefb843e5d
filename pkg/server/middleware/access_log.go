package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rantcrypto/cmcgate/pkg/common"
	"github.com/sirupsen/logrus"
)

type accessLogMiddleware struct {
	logger *logrus.Logger
}

func NewAccessLogMiddleware(logger *logrus.Logger) Middleware {
	return &accessLogMiddleware{logger: logger}
}

// Middleware writes one line per request. Errors from the chain are rendered
// here through the app error handler so the logged status is final.
func (m *accessLogMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		traceID, _ := c.Locals(common.TraceIDLocal).(string)
		status := c.Response().StatusCode()
		entry := m.logger.WithFields(logrus.Fields{
			"trace_id":    traceID,
			"method":      c.Method(),
			"path":        c.Path(),
			"query":       string(c.Request().URI().QueryString()),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.IP(),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request completed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
		return nil
	}
}
