package middleware

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/kitchen-service/kitchen/backend/utils"
)

// CustomErrorHandler handles application errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		slog.Error("Unhandled error",
			slog.String("type", "error"),
			slog.String("path", c.Path()),
			slog.Any("error", err))
	}

	if utils.WantsJSON(c) {
		return utils.SendError(c, code, fmt.Sprintf("HTTP_%d", code), message, nil)
	}

	renderErr := c.Status(code).Render("pages/error", fiber.Map{
		"Title":   "Error",
		"Code":    code,
		"Message": message,
	})
	if renderErr != nil {
		return c.Status(code).SendString(fmt.Sprintf("Error %d: %s", code, message))
	}
	return nil
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "same-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; "+
				"script-src 'self' https://cdn.jsdelivr.net; "+
				"img-src 'self' data:;")

		return c.Next()
	}
}

// NotFound is the catch-all for unmatched routes.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()))
		if utils.WantsJSON(c) {
			return utils.SendNotFound(c, "No route matches "+c.Path())
		}
		return fiber.ErrNotFound
	}
}
