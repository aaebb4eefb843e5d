package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rantcrypto/cmcgate/pkg/common"
	domain "github.com/rantcrypto/cmcgate/pkg/domain/errors"
	"github.com/rantcrypto/cmcgate/pkg/handlers/http/response"
	"github.com/rantcrypto/cmcgate/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// NewErrorHandler returns the only place that writes error responses. Every
// error becomes exactly one status object with a status from the closed set.
func NewErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		apiErr := ToAPIError(c, err)

		traceID, _ := c.Locals(common.TraceIDLocal).(string)
		entry := logger.WithFields(logrus.Fields{
			"trace_id":   traceID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     apiErr.Status(),
			"error_code": apiErr.Code,
			"kind":       apiErr.Kind.String(),
		})
		if apiErr.Kind == domain.KindInternal {
			entry.WithError(err).Error("request failed")
		} else {
			entry.Debug(apiErr.Message)
		}
		prometheus.ObserveError(apiErr.Kind.String(), apiErr.Code)

		c.Response().ResetBody()
		return c.Status(apiErr.Status()).JSON(response.ErrorResponse{
			Status: response.NewStatus(c, apiErr.Code, apiErr.Message),
		})
	}
}

// ToAPIError classifies any error raised while serving c.
func ToAPIError(c *fiber.Ctx, err error) *domain.APIError {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch {
		case fe.Code == fiber.StatusNotFound || fe.Code == fiber.StatusMethodNotAllowed:
			return domain.InvalidArgument(fmt.Sprintf("%s %s is not a supported endpoint", c.Method(), c.Path()))
		case fe.Code >= fiber.StatusInternalServerError:
			return domain.Unexpected(err)
		default:
			mapped := domain.FromStatus(fe.Code, 0, fe.Message)
			if mapped.Kind == domain.KindInternal {
				return domain.InvalidArgument(fe.Message)
			}
			return mapped
		}
	}

	return domain.AsAPIError(err)
}
