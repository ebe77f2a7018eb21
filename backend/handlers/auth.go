package handlers

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/kitchen-service/kitchen/backend/models"
	webservices "github.com/kitchen-service/kitchen/backend/services"
	"github.com/kitchen-service/kitchen/backend/utils"
)

const invalidLoginMessage = "Please enter a correct username and password. Note that both fields may be case-sensitive."

func LoginPage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return webApp.render(c, "auth/login", fiber.Map{
			"Title": "Log in",
			"Form":  webmodels.LoginForm{Next: c.Query("next")},
		})
	}
}

func Login(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form webmodels.LoginForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		errs := utils.ValidateForm(&form)
		if errs.Any() {
			return webApp.render(c, "auth/login", fiber.Map{
				"Title":  "Log in",
				"Form":   form,
				"Errors": errs,
			})
		}

		cook, err := webApp.AuthService.Authenticate(c.Context(), form.Username, form.Password)
		if err != nil {
			if !errors.Is(err, webservices.ErrInvalidCredentials) {
				return repoError(err, "Failed to authenticate")
			}
			errs.Add(webmodels.NonFieldErrors, invalidLoginMessage)
			form.Password = ""
			return webApp.render(c, "auth/login", fiber.Map{
				"Title":  "Log in",
				"Form":   form,
				"Errors": errs,
			})
		}

		if _, err := webApp.SessionService.CreateSession(c, cook); err != nil {
			slog.Error("Failed to create session",
				slog.String("type", "auth"),
				slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create session")
		}

		return c.Redirect(SafeNext(form.Next, "/"))
	}
}

// Logout clears the session and shows the logged-out page.
func Logout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		webApp.SessionService.DestroySession(c)
		return webApp.render(c, "auth/logged_out", fiber.Map{
			"Title": "Logged out",
		})
	}
}

// SafeNext returns next when it is a local absolute path, else fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
