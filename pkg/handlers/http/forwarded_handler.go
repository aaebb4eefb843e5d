package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rantcrypto/cmcgate/pkg/app/forwarding"
	"github.com/rantcrypto/cmcgate/pkg/common"
	"github.com/rantcrypto/cmcgate/pkg/domain/endpoint"
	domain "github.com/rantcrypto/cmcgate/pkg/domain/errors"
	"github.com/sirupsen/logrus"
)

type forwardedHandler struct {
	logger    *logrus.Logger
	forwarder forwarding.Forwarder
	endpoint  endpoint.Endpoint
}

func NewForwardedHandler(
	logger *logrus.Logger,
	forwarder forwarding.Forwarder,
	ep endpoint.Endpoint,
) Handler {
	return &forwardedHandler{
		logger:    logger,
		forwarder: forwarder,
		endpoint:  ep,
	}
}

// Handle relays one call to the upstream endpoint. Failures are returned to
// the error handler; nothing is written here unless the upstream succeeded.
func (h *forwardedHandler) Handle(c *fiber.Ctx) error {
	rawQuery := string(c.Request().URI().QueryString())

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return domain.InvalidArgument("Malformed query string")
	}
	if err := h.endpoint.Validate(query); err != nil {
		return err
	}

	traceID, _ := c.Locals(common.TraceIDLocal).(string)
	resp, err := h.forwarder.Forward(c.UserContext(), forwarding.Request{
		Endpoint: h.endpoint,
		RawQuery: rawQuery,
		TraceID:  traceID,
	})
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, resp.ContentType)
	return c.Status(fiber.StatusOK).Send(resp.Body)
}
