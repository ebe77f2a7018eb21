package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/kitchen-service/kitchen/backend/models"
	"github.com/kitchen-service/kitchen/backend/utils"
	"github.com/kitchen-service/kitchen/kitchen/database/models"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
)

const ingredientsURL = "/ingredients/"

var ingredientLabels = fiber.Map{
	"Kind":    "ingredient",
	"Plural":  "Ingredients",
	"BaseURL": ingredientsURL,
}

func ingredientPage(title string, values fiber.Map) fiber.Map {
	return catalogPage(ingredientLabels, title, values)
}

// IngredientsList shows ingredients, optionally filtered by ?name=.
func IngredientsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		page, limit, err := webApp.listPage(c)
		if err != nil {
			return err
		}
		query := strings.TrimSpace(c.Query("name"))

		ingredients, total, err := webApp.Repos.Ingredients.List(ctx, repositories.ListFilter{
			Query:  query,
			Offset: (page - 1) * limit,
			Limit:  limit,
		})
		if err != nil {
			return repoError(err, "Failed to list ingredients")
		}
		pagination, err := paginate(page, limit, total)
		if err != nil {
			return err
		}

		return webApp.render(c, "catalog/list", ingredientPage("Ingredients", fiber.Map{
			"Items":       ingredients,
			"Pagination":  pagination,
			"FilterKey":   "name",
			"FilterValue": query,
			"Suggestions": webApp.suggest(ctx, query, total, webApp.Repos.Ingredients.Names),
		}))
	}
}

func IngredientsCreatePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return webApp.render(c, "catalog/form", ingredientPage("Create ingredient", fiber.Map{
			"Form": webmodels.NamedForm{},
		}))
	}
}

func IngredientsCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form webmodels.NamedForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		errs := utils.ValidateForm(&form)
		if !errs.Any() {
			err := webApp.Repos.Ingredients.Create(c.Context(), &models.Ingredient{Name: form.Name})
			switch {
			case repositories.IsConflict(err):
				errs.Add("name", "Ingredient with this Name already exists.")
			case err != nil:
				return repoError(err, "Failed to create ingredient")
			default:
				return c.Redirect(ingredientsURL)
			}
		}

		return webApp.render(c, "catalog/form", ingredientPage("Create ingredient", fiber.Map{
			"Form":   form,
			"Errors": errs,
		}))
	}
}

func IngredientsUpdatePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		ingredient, err := webApp.Repos.Ingredients.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load ingredient")
		}
		return webApp.render(c, "catalog/form", ingredientPage("Update ingredient", fiber.Map{
			"Form": webmodels.NamedForm{Name: ingredient.Name},
		}))
	}
}

func IngredientsUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		id, err := paramID(c)
		if err != nil {
			return err
		}
		ingredient, err := webApp.Repos.Ingredients.GetByID(ctx, id)
		if err != nil {
			return repoError(err, "Failed to load ingredient")
		}

		var form webmodels.NamedForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		errs := utils.ValidateForm(&form)
		if !errs.Any() {
			ingredient.Name = form.Name
			err := webApp.Repos.Ingredients.Update(ctx, ingredient)
			switch {
			case repositories.IsConflict(err):
				errs.Add("name", "Ingredient with this Name already exists.")
			case err != nil:
				return repoError(err, "Failed to update ingredient")
			default:
				return c.Redirect(ingredientsURL)
			}
		}

		return webApp.render(c, "catalog/form", ingredientPage("Update ingredient", fiber.Map{
			"Form":   form,
			"Errors": errs,
		}))
	}
}

func IngredientsDeletePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		ingredient, err := webApp.Repos.Ingredients.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load ingredient")
		}
		return webApp.render(c, "pages/confirm_delete", fiber.Map{
			"Title":     "Delete ingredient",
			"Kind":      "ingredient",
			"Name":      ingredient.Name,
			"CancelURL": ingredientsURL,
		})
	}
}

func IngredientsDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		if err := webApp.Repos.Ingredients.Delete(c.Context(), id); err != nil {
			return repoError(err, "Failed to delete ingredient")
		}
		return c.Redirect(ingredientsURL)
	}
}
