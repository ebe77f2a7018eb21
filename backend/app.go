// Package backend builds the kitchen web application on fiber.
package backend

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/kitchen-service/kitchen/backend/handlers"
	"github.com/kitchen-service/kitchen/backend/middleware"
	"github.com/kitchen-service/kitchen/backend/templates"
	"github.com/kitchen-service/kitchen/backend/utils"
)

// NewApp creates the fiber app with views, middleware and routes.
func NewApp(webApp *handlers.WebApp) *fiber.App {
	engine := html.NewFileSystem(http.FS(templates.FS), ".html")
	engine.AddFuncMap(utils.TemplateFuncs())

	app := fiber.New(fiber.Config{
		AppName:      "Kitchen",
		ServerHeader: "Kitchen",
		Views:        engine,
		ViewsLayout:  "layouts/base",
		ErrorHandler: middleware.CustomErrorHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	web := webApp.Config.GetWebConfig()

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     web.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Requested-With,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	if web.CSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:_csrf",
			CookieName:     "kitchen_csrf",
			CookieSameSite: "Lax",
			CookieSecure:   webApp.Config.SecureCookies(),
			CookieHTTPOnly: true,
			Expiration:     webApp.Config.SessionTTL(),
			ContextKey:     "csrf",
		}))
	}

	SetupRoutes(app, webApp)

	app.Use(middleware.NotFound())
	return app
}
