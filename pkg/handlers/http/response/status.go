package response

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rantcrypto/cmcgate/pkg/common"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Status mirrors the upstream status object so callers can treat local and
// relayed answers the same way.
type Status struct {
	Timestamp    string  `json:"timestamp"`
	ErrorCode    int     `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
	Elapsed      int64   `json:"elapsed"`
	CreditCount  int     `json:"credit_count"`
}

type ErrorResponse struct {
	Status Status `json:"status"`
}

type DataResponse struct {
	Status Status      `json:"status"`
	Data   interface{} `json:"data"`
}

// NewStatus builds a status object. An empty message is rendered as null.
func NewStatus(c *fiber.Ctx, code int, message string) Status {
	var msg *string
	if message != "" {
		msg = &message
	}
	return Status{
		Timestamp:    time.Now().UTC().Format(timestampLayout),
		ErrorCode:    code,
		ErrorMessage: msg,
		Elapsed:      Elapsed(c).Milliseconds(),
		CreditCount:  0,
	}
}

// Elapsed is the time spent on the request so far, or zero when the start
// time was never recorded.
func Elapsed(c *fiber.Ctx) time.Duration {
	start, ok := c.Locals(common.StartTimeLocal).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
