package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	domain "github.com/rantcrypto/cmcgate/pkg/domain/errors"
	"github.com/sirupsen/logrus"
)

type panicRecoverMiddleware struct {
	logger *logrus.Logger
}

func NewPanicRecoverMiddleware(logger *logrus.Logger) Middleware {
	return &panicRecoverMiddleware{logger: logger}
}

// Middleware turns a panic into an internal error for the error handler.
func (m *panicRecoverMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.WithFields(logrus.Fields{
					"error": r,
					"path":  c.Path(),
					"stack": string(debug.Stack()),
				}).Error("HTTP server panic recovered")

				err = domain.Unexpected(fmt.Errorf("panic: %v", r))
			}
		}()

		return c.Next()
	}
}
