package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rantcrypto/cmcgate/pkg/domain/endpoint"
	"github.com/rantcrypto/cmcgate/pkg/handlers/http/response"
)

type listEndpointsHandler struct {
	catalog *endpoint.Catalog
}

func NewListEndpointsHandler(catalog *endpoint.Catalog) Handler {
	return &listEndpointsHandler{catalog: catalog}
}

// Handle lists every relayed endpoint with the query parameters it accepts.
func (h *listEndpointsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.DataResponse{
		Status: response.NewStatus(c, 0, ""),
		Data:   h.catalog.All(),
	})
}
