package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/kitchen-service/kitchen/backend/models"
	"github.com/kitchen-service/kitchen/backend/utils"
	"github.com/kitchen-service/kitchen/kitchen/config"
)

func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := webmodels.NewHealthCheck(webApp.Version, webApp.Commit)

		if webApp.DB != nil {
			ctx, cancel := context.WithTimeout(c.Context(), config.StatsQueryTimeout)
			defer cancel()

			if err := webApp.DB.Ping(ctx); err != nil {
				slog.Error("Health check database ping failed",
					slog.String("type", "db"),
					slog.Any("error", err))
				health.AddComponent("database", "unhealthy", "database unreachable")
			} else {
				health.AddComponent("database", "healthy", "")
			}
		}

		if !health.Healthy() {
			resp := webmodels.NewErrorResponse("SERVICE_UNAVAILABLE", "Health check failed", nil)
			resp.Data = health
			return utils.SendJSON(c, fiber.StatusServiceUnavailable, resp)
		}
		return utils.SendSuccess(c, health, "Health check successful")
	}
}
