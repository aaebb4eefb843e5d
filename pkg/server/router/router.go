package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var ErrMissingForwardedHandler = errors.New("no forwarded handler for endpoint")

type ServerRouter interface {
	BuildRoutes(router *fiber.App) error
}
