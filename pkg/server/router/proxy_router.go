package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rantcrypto/cmcgate/pkg/common"
	"github.com/rantcrypto/cmcgate/pkg/domain/endpoint"
	handlers "github.com/rantcrypto/cmcgate/pkg/handlers/http"
	"github.com/rantcrypto/cmcgate/pkg/server/middleware"
)

const (
	HealthPath    = "/health"
	PingPath      = "/__/ping"
	VersionPath   = "/version"
	EndpointsPath = "/endpoints"
)

type proxyRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	catalog             *endpoint.Catalog
}

func NewProxyRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	catalog *endpoint.Catalog,
) ServerRouter {
	return &proxyRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		catalog:             catalog,
	}
}

// BuildRoutes registers one route per catalog endpoint. Anything else falls
// through the middleware chain to the error handler.
func (r *proxyRouter) BuildRoutes(router *fiber.App) error {
	for _, ep := range r.catalog.All() {
		if _, ok := r.handlerTransport.ForwardedHandlers[ep.Key()]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingForwardedHandler, ep.Key())
		}
	}

	router.Get(HealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.Get(PingPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"message": "pong",
		})
	})

	router.Use(r.middlewareTransport.GetMiddlewares()...)

	router.Get(VersionPath, routeTag(VersionPath), r.handlerTransport.GetVersionHandler.Handle)
	router.Get(EndpointsPath, routeTag(EndpointsPath), r.handlerTransport.ListEndpointsHandler.Handle)

	for _, ep := range r.catalog.All() {
		h := r.handlerTransport.ForwardedHandlers[ep.Key()]
		router.Add(ep.Method, ep.Path, routeTag(ep.Path), h.Handle)
	}

	return nil
}

// routeTag stores the route template for metrics labels.
func routeTag(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(common.RouteLocal, path)
		return c.Next()
	}
}
