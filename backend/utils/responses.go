package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kitchen-service/kitchen/backend/models"
)

func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusOK, response)
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	response := models.NewErrorResponse(code, message, details)
	return SendJSON(c, statusCode, response)
}

func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func SendTooManyRequests(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", message, nil)
}

// SendUnprocessableEntity reports form errors, first message per field.
func SendUnprocessableEntity(c *fiber.Ctx, message string, errs models.FormErrors) error {
	details := make(map[string]string, len(errs))
	for field, messages := range errs {
		if len(messages) > 0 {
			details[field] = messages[0]
		}
	}
	return SendError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, details)
}

// ExtractUserSession extracts user session from Fiber context
func ExtractUserSession(c *fiber.Ctx) (*models.UserSession, bool) {
	session := c.Locals("user")
	if session == nil {
		return nil, false
	}

	userSession, ok := session.(*models.UserSession)
	return userSession, ok
}

// GetIPAddress returns the client address; fiber resolves ProxyHeader when one is configured.
func GetIPAddress(c *fiber.Ctx) string {
	return c.IP()
}

func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}

// WantsJSON reports whether the client asked for a JSON response.
func WantsJSON(c *fiber.Ctx) bool {
	if c.Get("HX-Request") != "" {
		return true
	}
	return c.Accepts("text/html", "application/json") == "application/json"
}
