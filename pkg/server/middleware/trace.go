package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rantcrypto/cmcgate/pkg/common"
)

const maxTraceIDLength = 128

type traceMiddleware struct{}

func NewTraceMiddleware() Middleware {
	return &traceMiddleware{}
}

// Middleware records the start time and assigns a trace id, keeping a sane
// caller supplied one.
func (m *traceMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(common.StartTimeLocal, time.Now())

		traceID := c.Get(common.TraceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = uuid.New().String()
		}
		c.Locals(common.TraceIDLocal, traceID)
		c.Set(common.TraceIDHeader, traceID)

		return c.Next()
	}
}
