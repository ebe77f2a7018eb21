package backend

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kitchen-service/kitchen/backend/handlers"
	"github.com/kitchen-service/kitchen/backend/middleware"
)

// crud is the handler set of one entity's pages.
type crud struct {
	list, detail                fiber.Handler
	createPage, create          fiber.Handler
	updatePage, update          fiber.Handler
	deletePage, deleteConfirmed fiber.Handler
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	// Health check endpoint
	app.Get("/health", handlers.HealthCheck(webApp))

	// Authentication routes
	accounts := app.Group("/accounts")
	accounts.Get("/login", handlers.LoginPage(webApp))
	accounts.Post("/login", middleware.LoginRateLimit(webApp.Config.GetWebConfig().LoginRateLimit), handlers.Login(webApp))
	accounts.Get("/logout", handlers.Logout(webApp))
	accounts.Post("/logout", handlers.Logout(webApp))

	auth := middleware.AuthRequired(webApp)

	app.Get("/", auth, handlers.Index(webApp))

	registerCRUD(app, "/cooks", auth, crud{
		list:            handlers.CooksList(webApp),
		detail:          handlers.CooksDetail(webApp),
		createPage:      handlers.CooksCreatePage(webApp),
		create:          handlers.CooksCreate(webApp),
		updatePage:      handlers.CooksUpdatePage(webApp),
		update:          handlers.CooksUpdate(webApp),
		deletePage:      handlers.CooksDeletePage(webApp),
		deleteConfirmed: handlers.CooksDelete(webApp),
	})
	registerCRUD(app, "/dishes", auth, crud{
		list:            handlers.DishesList(webApp),
		detail:          handlers.DishesDetail(webApp),
		createPage:      handlers.DishesCreatePage(webApp),
		create:          handlers.DishesCreate(webApp),
		updatePage:      handlers.DishesUpdatePage(webApp),
		update:          handlers.DishesUpdate(webApp),
		deletePage:      handlers.DishesDeletePage(webApp),
		deleteConfirmed: handlers.DishesDelete(webApp),
	})
	registerCRUD(app, "/dish-types", auth, crud{
		list:            handlers.DishTypesList(webApp),
		createPage:      handlers.DishTypesCreatePage(webApp),
		create:          handlers.DishTypesCreate(webApp),
		updatePage:      handlers.DishTypesUpdatePage(webApp),
		update:          handlers.DishTypesUpdate(webApp),
		deletePage:      handlers.DishTypesDeletePage(webApp),
		deleteConfirmed: handlers.DishTypesDelete(webApp),
	})
	registerCRUD(app, "/ingredients", auth, crud{
		list:            handlers.IngredientsList(webApp),
		createPage:      handlers.IngredientsCreatePage(webApp),
		create:          handlers.IngredientsCreate(webApp),
		updatePage:      handlers.IngredientsUpdatePage(webApp),
		update:          handlers.IngredientsUpdate(webApp),
		deletePage:      handlers.IngredientsDeletePage(webApp),
		deleteConfirmed: handlers.IngredientsDelete(webApp),
	})
}

// registerCRUD mounts list, create, detail, update and delete under prefix.
// The literal create route is registered before the :id routes.
func registerCRUD(app *fiber.App, prefix string, auth fiber.Handler, h crud) {
	group := app.Group(prefix)
	group.Get("/", auth, h.list)
	group.Get("/create", auth, h.createPage)
	group.Post("/create", auth, h.create)
	if h.detail != nil {
		group.Get("/:id<int>", auth, h.detail)
	}
	group.Get("/:id<int>/update", auth, h.updatePage)
	group.Post("/:id<int>/update", auth, h.update)
	group.Get("/:id<int>/delete", auth, h.deletePage)
	group.Post("/:id<int>/delete", auth, h.deleteConfirmed)
}
