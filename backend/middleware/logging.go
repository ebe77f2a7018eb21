package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kitchen-service/kitchen/backend/utils"
)

// LoggingMiddleware logs HTTP requests in a structured format
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// let the error handler set the final status before logging it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(start)
		statusCode := c.Response().StatusCode()

		logLevel := slog.LevelInfo
		if statusCode >= 400 && statusCode < 500 {
			logLevel = slog.LevelWarn
		} else if statusCode >= 500 {
			logLevel = slog.LevelError
		}

		logger := slog.With(
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", statusCode),
			slog.Duration("duration", duration),
			slog.String("ip", utils.GetIPAddress(c)),
			slog.Int("size", len(c.Response().Body())),
		)

		if query := string(c.Request().URI().QueryString()); query != "" {
			logger = logger.With(slog.String("query", query))
		}
		if session, ok := utils.ExtractUserSession(c); ok {
			logger = logger.With(
				slog.Int64("cook_id", session.CookID),
				slog.String("username", session.Username),
			)
		}
		if err != nil {
			logger = logger.With(slog.String("error", err.Error()))
		}
		if ua := utils.GetUserAgent(c); ua != "" {
			logger = logger.With(slog.String("user_agent", ua))
		}
		if referer := c.Get("Referer"); referer != "" {
			logger = logger.With(slog.String("referer", referer))
		}

		message := "HTTP request processed"
		if err != nil {
			message = "HTTP request failed"
		}
		logger.Log(c.Context(), logLevel, message)

		return nil
	}
}
