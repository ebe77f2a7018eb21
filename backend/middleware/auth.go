package middleware

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kitchen-service/kitchen/backend/handlers"
	"github.com/kitchen-service/kitchen/backend/utils"
)

// AuthRequired middleware ensures the user is authenticated
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err != nil {
			slog.Debug("Auth required: no valid session",
				slog.String("type", "auth"),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()))
			return redirectToLogin(c)
		}

		c.Locals("user", session)
		return c.Next()
	}
}

// redirectToLogin redirects to login page for web requests or returns 401 for API requests
func redirectToLogin(c *fiber.Ctx) error {
	if utils.WantsJSON(c) {
		return utils.SendUnauthorized(c, "Authentication required")
	}
	return c.Redirect(LoginRedirectURL(c.OriginalURL()))
}

// LoginRedirectURL builds /accounts/login/?next=<path>, leaving slashes readable.
func LoginRedirectURL(next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return handlers.LoginURL + "?next=" + escaped
}
