package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Proxy, keyed by endpoint.Endpoint.Key()
	ForwardedHandlers map[string]Handler

	// System
	GetVersionHandler    Handler
	ListEndpointsHandler Handler
}
