package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/kitchen-service/kitchen/backend/utils"
)

// Index renders the home page and bumps the per-session visit counter.
func Index(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		stats, err := webApp.DashboardService.Stats(c.Context())
		if err != nil {
			return repoError(err, "Failed to load statistics")
		}

		session.NumVisits++
		if err := webApp.SessionService.SaveSession(c, session); err != nil {
			slog.Error("Failed to save session",
				slog.String("type", "auth"),
				slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to save session")
		}

		return webApp.render(c, "pages/index", fiber.Map{
			"Title":          "Home",
			"NumCooks":       stats.NumCooks,
			"NumDishes":      stats.NumDishes,
			"NumDishTypes":   stats.NumDishTypes,
			"NumIngredients": stats.NumIngredients,
			"NumVisits":      session.NumVisits,
		})
	}
}
