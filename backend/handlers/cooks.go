package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/kitchen-service/kitchen/backend/models"
	"github.com/kitchen-service/kitchen/backend/utils"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
)

const cooksURL = "/cooks/"

// CooksList shows cooks, optionally filtered by ?username=.
func CooksList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		page, limit, err := webApp.listPage(c)
		if err != nil {
			return err
		}
		query := strings.TrimSpace(c.Query("username"))

		cooks, total, err := webApp.Repos.Cooks.List(ctx, repositories.ListFilter{
			Query:  query,
			Offset: (page - 1) * limit,
			Limit:  limit,
		})
		if err != nil {
			return repoError(err, "Failed to list cooks")
		}
		pagination, err := paginate(page, limit, total)
		if err != nil {
			return err
		}

		return webApp.render(c, "cooks/list", fiber.Map{
			"Title":       "Cooks",
			"Cooks":       cooks,
			"Pagination":  pagination,
			"FilterKey":   "username",
			"FilterValue": query,
			"Suggestions": webApp.suggest(ctx, query, total, webApp.Repos.Cooks.Names),
		})
	}
}

func CooksDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		cook, err := webApp.Repos.Cooks.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load cook")
		}
		return webApp.render(c, "cooks/detail", fiber.Map{
			"Title": cook.Username,
			"Cook":  cook,
		})
	}
}

func CooksCreatePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return webApp.render(c, "cooks/create", fiber.Map{
			"Title": "Create cook",
			"Form":  webmodels.CookCreateForm{},
		})
	}
}

func CooksCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form webmodels.CookCreateForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		errs := utils.ValidateForm(&form)
		if !errs.Any() {
			err := webApp.AuthService.CreateCook(c.Context(), form.Cook(), form.Password1)
			switch {
			case repositories.IsConflict(err):
				errs.Add("username", "A user with that username already exists.")
			case err != nil:
				return repoError(err, "Failed to create cook")
			default:
				return c.Redirect(cooksURL)
			}
		}

		form.Password1, form.Password2 = "", ""
		return webApp.render(c, "cooks/create", fiber.Map{
			"Title":  "Create cook",
			"Form":   form,
			"Errors": errs,
		})
	}
}

// CooksUpdatePage edits years of experience only.
func CooksUpdatePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		cook, err := webApp.Repos.Cooks.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load cook")
		}
		return webApp.render(c, "cooks/update", fiber.Map{
			"Title": "Update " + cook.Username,
			"Cook":  cook,
			"Form":  webmodels.CookExperienceForm{YearsOfExperience: itoa(cook.YearsOfExperience)},
		})
	}
}

func CooksUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		id, err := paramID(c)
		if err != nil {
			return err
		}
		cook, err := webApp.Repos.Cooks.GetByID(ctx, id)
		if err != nil {
			return repoError(err, "Failed to load cook")
		}

		var form webmodels.CookExperienceForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		errs := utils.ValidateForm(&form)
		if errs.Any() {
			return webApp.render(c, "cooks/update", fiber.Map{
				"Title":  "Update " + cook.Username,
				"Cook":   cook,
				"Form":   form,
				"Errors": errs,
			})
		}

		if err := webApp.Repos.Cooks.UpdateExperience(ctx, id, form.Years()); err != nil {
			return repoError(err, "Failed to update cook")
		}
		return c.Redirect(cooksURL)
	}
}

func CooksDeletePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		cook, err := webApp.Repos.Cooks.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load cook")
		}
		return webApp.render(c, "pages/confirm_delete", fiber.Map{
			"Title":     "Delete cook",
			"Kind":      "cook",
			"Name":      cook.Username,
			"CancelURL": cooksURL,
		})
	}
}

func CooksDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		if err := webApp.Repos.Cooks.Delete(c.Context(), id); err != nil {
			return repoError(err, "Failed to delete cook")
		}
		return c.Redirect(cooksURL)
	}
}
