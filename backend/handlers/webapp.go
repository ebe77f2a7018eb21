package handlers

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kitchen-service/kitchen/backend/config"
	webmodels "github.com/kitchen-service/kitchen/backend/models"
	webservices "github.com/kitchen-service/kitchen/backend/services"
	"github.com/kitchen-service/kitchen/backend/utils"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
)

const (
	LoginURL  = "/accounts/login/"
	LogoutURL = "/accounts/logout/"
)

// Pinger is the slice of the database the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config           *config.WebAppConfig
	DB               Pinger
	Repos            *webmodels.Repositories
	SessionService   *webservices.SessionService
	AuthService      *webservices.AuthService
	DashboardService *webservices.DashboardService
	SearchService    *webservices.SearchService
	Version          string
	Commit           string
}

// NewWebApp wires the services on top of the repositories.
func NewWebApp(cfg *config.WebAppConfig, db Pinger, repos *webmodels.Repositories, version, commit string) *WebApp {
	return &WebApp{
		Config:           cfg,
		DB:               db,
		Repos:            repos,
		SessionService:   webservices.NewSessionService(cfg),
		AuthService:      webservices.NewAuthService(repos.Cooks),
		DashboardService: webservices.NewDashboardService(repos),
		SearchService:    webservices.NewSearchService(),
		Version:          version,
		Commit:           commit,
	}
}

// GetSession gets the current user session
func (w *WebApp) GetSession(c *fiber.Ctx) (*webmodels.UserSession, error) {
	return w.SessionService.GetSession(c)
}

// render adds the values every page needs and renders name inside the base layout.
func (w *WebApp) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if session, ok := utils.ExtractUserSession(c); ok {
		data["User"] = session
	}
	if token, ok := c.Locals("csrf").(string); ok {
		data["CSRF"] = token
	}
	errs, ok := data["Errors"].(webmodels.FormErrors)
	if !ok {
		errs = webmodels.FormErrors{}
		data["Errors"] = errs
	}
	if errs.Any() && utils.WantsJSON(c) {
		return utils.SendUnprocessableEntity(c, "Invalid form submission", errs)
	}
	return c.Render(name, data)
}

// paramID parses the :id route parameter; anything else is a 404.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fiber.ErrNotFound
	}
	return id, nil
}

// repoError maps repository errors to HTTP errors.
func repoError(err error, msg string) error {
	if repositories.IsNotFound(err) {
		return fiber.ErrNotFound
	}
	slog.Error(msg,
		slog.String("type", "error"),
		slog.Any("error", err))
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

// listPage resolves ?page= into a limit and offset; bad values are a 404.
func (w *WebApp) listPage(c *fiber.Ctx) (page, limit int, err error) {
	page, err = utils.ParsePage(c.Query("page"))
	if err != nil {
		return 0, 0, fiber.ErrNotFound
	}
	return page, w.Config.PageSize(), nil
}

// paginate validates page against the total returned by the list query.
func paginate(page, limit, total int) (*webmodels.PaginationInfo, error) {
	info, err := utils.Paginate(page, limit, total)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return info, nil
}

// suggest offers near matches when a filter found nothing.
func (w *WebApp) suggest(ctx context.Context, query string, total int, names func(context.Context) ([]string, error)) []string {
	if query == "" || total > 0 {
		return nil
	}
	all, err := names(ctx)
	if err != nil {
		slog.Warn("Failed to load names for suggestions",
			slog.String("type", "db"),
			slog.Any("error", err))
		return nil
	}
	return w.SearchService.Suggest(query, all)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// catalogPage merges the entity labels shared by the catalog templates into values.
func catalogPage(labels fiber.Map, title string, values fiber.Map) fiber.Map {
	data := fiber.Map{"Title": title}
	for k, v := range labels {
		data[k] = v
	}
	for k, v := range values {
		data[k] = v
	}
	return data
}
