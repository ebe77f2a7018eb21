package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/kitchen-service/kitchen/backend/models"
	"github.com/kitchen-service/kitchen/backend/utils"
	"github.com/kitchen-service/kitchen/kitchen/database/models"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
)

const dishTypesURL = "/dish-types/"

var dishTypeLabels = fiber.Map{
	"Kind":    "dish type",
	"Plural":  "Dish types",
	"BaseURL": dishTypesURL,
}

func dishTypePage(title string, values fiber.Map) fiber.Map {
	return catalogPage(dishTypeLabels, title, values)
}

// DishTypesList shows dish types, optionally filtered by ?name=.
func DishTypesList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		page, limit, err := webApp.listPage(c)
		if err != nil {
			return err
		}
		query := strings.TrimSpace(c.Query("name"))

		dishTypes, total, err := webApp.Repos.DishTypes.List(ctx, repositories.ListFilter{
			Query:  query,
			Offset: (page - 1) * limit,
			Limit:  limit,
		})
		if err != nil {
			return repoError(err, "Failed to list dish types")
		}
		pagination, err := paginate(page, limit, total)
		if err != nil {
			return err
		}

		return webApp.render(c, "catalog/list", dishTypePage("Dish types", fiber.Map{
			"Items":       dishTypes,
			"Pagination":  pagination,
			"FilterKey":   "name",
			"FilterValue": query,
			"Suggestions": webApp.suggest(ctx, query, total, webApp.Repos.DishTypes.Names),
		}))
	}
}

func DishTypesCreatePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return webApp.render(c, "catalog/form", dishTypePage("Create dish type", fiber.Map{
			"Form": webmodels.NamedForm{},
		}))
	}
}

func DishTypesCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form webmodels.NamedForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		errs := utils.ValidateForm(&form)
		if !errs.Any() {
			err := webApp.Repos.DishTypes.Create(c.Context(), &models.DishType{Name: form.Name})
			switch {
			case repositories.IsConflict(err):
				errs.Add("name", "Dish type with this Name already exists.")
			case err != nil:
				return repoError(err, "Failed to create dish type")
			default:
				return c.Redirect(dishTypesURL)
			}
		}

		return webApp.render(c, "catalog/form", dishTypePage("Create dish type", fiber.Map{
			"Form":   form,
			"Errors": errs,
		}))
	}
}

func DishTypesUpdatePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		dishType, err := webApp.Repos.DishTypes.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load dish type")
		}
		return webApp.render(c, "catalog/form", dishTypePage("Update dish type", fiber.Map{
			"Form": webmodels.NamedForm{Name: dishType.Name},
		}))
	}
}

func DishTypesUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		id, err := paramID(c)
		if err != nil {
			return err
		}
		dishType, err := webApp.Repos.DishTypes.GetByID(ctx, id)
		if err != nil {
			return repoError(err, "Failed to load dish type")
		}

		var form webmodels.NamedForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		errs := utils.ValidateForm(&form)
		if !errs.Any() {
			dishType.Name = form.Name
			err := webApp.Repos.DishTypes.Update(ctx, dishType)
			switch {
			case repositories.IsConflict(err):
				errs.Add("name", "Dish type with this Name already exists.")
			case err != nil:
				return repoError(err, "Failed to update dish type")
			default:
				return c.Redirect(dishTypesURL)
			}
		}

		return webApp.render(c, "catalog/form", dishTypePage("Update dish type", fiber.Map{
			"Form":   form,
			"Errors": errs,
		}))
	}
}

func DishTypesDeletePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		dishType, err := webApp.Repos.DishTypes.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load dish type")
		}
		return webApp.render(c, "pages/confirm_delete", fiber.Map{
			"Title":     "Delete dish type",
			"Kind":      "dish type",
			"Name":      dishType.Name,
			"Warning":   "Every dish of this type will be deleted as well.",
			"CancelURL": dishTypesURL,
		})
	}
}

func DishTypesDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		if err := webApp.Repos.DishTypes.Delete(c.Context(), id); err != nil {
			return repoError(err, "Failed to delete dish type")
		}
		return c.Redirect(dishTypesURL)
	}
}
