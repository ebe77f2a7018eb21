package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/kitchen-service/kitchen/backend/models"
	"github.com/kitchen-service/kitchen/backend/utils"
	"github.com/kitchen-service/kitchen/kitchen/database/models"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
)

const dishesURL = "/dishes/"

// dishOptions are the choices offered by the dish form.
type dishOptions struct {
	DishTypes   []*models.DishType
	Cooks       []*models.Cook
	Ingredients []*models.Ingredient
}

func (w *WebApp) loadDishOptions(ctx context.Context) (*dishOptions, error) {
	dishTypes, err := w.Repos.DishTypes.All(ctx)
	if err != nil {
		return nil, err
	}
	cooks, err := w.Repos.Cooks.All(ctx)
	if err != nil {
		return nil, err
	}
	ingredients, err := w.Repos.Ingredients.All(ctx)
	if err != nil {
		return nil, err
	}
	return &dishOptions{DishTypes: dishTypes, Cooks: cooks, Ingredients: ingredients}, nil
}

// checkChoices adds an error for every submitted id that is not an option.
func (o *dishOptions) checkChoices(form *webmodels.DishForm, errs webmodels.FormErrors) {
	if !errs.Has("dish_type") {
		found := false
		for _, dt := range o.DishTypes {
			if dt.ID == form.DishTypeID() {
				found = true
				break
			}
		}
		if !found {
			errs.Add("dish_type", "Select a valid choice. That choice is not one of the available choices.")
		}
	}

	if !errs.Has("cooks") {
		known := make(map[int64]bool, len(o.Cooks))
		for _, c := range o.Cooks {
			known[c.ID] = true
		}
		for _, id := range form.CookIDs() {
			if !known[id] {
				errs.Add("cooks", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", id))
				break
			}
		}
	}

	if !errs.Has("ingredients") {
		known := make(map[int64]bool, len(o.Ingredients))
		for _, i := range o.Ingredients {
			known[i.ID] = true
		}
		for _, id := range form.IngredientIDs() {
			if !known[id] {
				errs.Add("ingredients", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", id))
				break
			}
		}
	}
}

// referenceErrors turns a foreign key violation raised by a concurrent delete
// into the same field error checkChoices reports.
func referenceErrors(err error) (webmodels.FormErrors, bool) {
	var ref *repositories.ReferenceError
	if !errors.As(err, &ref) {
		return nil, false
	}
	errs := webmodels.FormErrors{}
	switch {
	case strings.Contains(ref.Constraint, "cook_id"):
		errs.Add("cooks", "Select a valid choice. One of the selected cooks no longer exists.")
	case strings.Contains(ref.Constraint, "ingredient_id"):
		errs.Add("ingredients", "Select a valid choice. One of the selected ingredients no longer exists.")
	default:
		errs.Add("dish_type", "Select a valid choice. That choice is not one of the available choices.")
	}
	return errs, true
}

// DishesList shows dishes with their type, optionally filtered by ?name=.
func DishesList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		page, limit, err := webApp.listPage(c)
		if err != nil {
			return err
		}
		query := strings.TrimSpace(c.Query("name"))

		dishes, total, err := webApp.Repos.Dishes.List(ctx, repositories.ListFilter{
			Query:  query,
			Offset: (page - 1) * limit,
			Limit:  limit,
		})
		if err != nil {
			return repoError(err, "Failed to list dishes")
		}
		pagination, err := paginate(page, limit, total)
		if err != nil {
			return err
		}

		return webApp.render(c, "dishes/list", fiber.Map{
			"Title":       "Dishes",
			"Dishes":      dishes,
			"Pagination":  pagination,
			"FilterKey":   "name",
			"FilterValue": query,
			"Suggestions": webApp.suggest(ctx, query, total, webApp.Repos.Dishes.Names),
		})
	}
}

func DishesDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		dish, err := webApp.Repos.Dishes.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load dish")
		}
		return webApp.render(c, "dishes/detail", fiber.Map{
			"Title": dish.Name,
			"Dish":  dish,
		})
	}
}

func (w *WebApp) renderDishForm(c *fiber.Ctx, title string, form webmodels.DishForm, opts *dishOptions, errs webmodels.FormErrors) error {
	return w.render(c, "dishes/form", fiber.Map{
		"Title":   title,
		"Form":    form,
		"Options": opts,
		"Errors":  errs,
	})
}

func DishesCreatePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := webApp.loadDishOptions(c.Context())
		if err != nil {
			return repoError(err, "Failed to load dish form")
		}
		return webApp.renderDishForm(c, "Create dish", webmodels.DishForm{}, opts, webmodels.FormErrors{})
	}
}

func DishesCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		var form webmodels.DishForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		opts, err := webApp.loadDishOptions(ctx)
		if err != nil {
			return repoError(err, "Failed to load dish form")
		}

		errs := utils.ValidateForm(&form)
		opts.checkChoices(&form, errs)
		if errs.Any() {
			return webApp.renderDishForm(c, "Create dish", form, opts, errs)
		}

		dish := &models.Dish{}
		form.ApplyTo(dish)
		if err := webApp.Repos.Dishes.Create(ctx, dish, form.CookIDs(), form.IngredientIDs()); err != nil {
			if errs, ok := referenceErrors(err); ok {
				return webApp.renderDishForm(c, "Create dish", form, opts, errs)
			}
			return repoError(err, "Failed to create dish")
		}
		return c.Redirect(dishesURL)
	}
}

func DishesUpdatePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		id, err := paramID(c)
		if err != nil {
			return err
		}
		dish, err := webApp.Repos.Dishes.GetByID(ctx, id)
		if err != nil {
			return repoError(err, "Failed to load dish")
		}
		opts, err := webApp.loadDishOptions(ctx)
		if err != nil {
			return repoError(err, "Failed to load dish form")
		}
		return webApp.renderDishForm(c, "Update dish", webmodels.NewDishForm(dish), opts, webmodels.FormErrors{})
	}
}

func DishesUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		id, err := paramID(c)
		if err != nil {
			return err
		}
		dish, err := webApp.Repos.Dishes.GetByID(ctx, id)
		if err != nil {
			return repoError(err, "Failed to load dish")
		}

		var form webmodels.DishForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.ErrBadRequest
		}
		form.Normalize()

		opts, err := webApp.loadDishOptions(ctx)
		if err != nil {
			return repoError(err, "Failed to load dish form")
		}

		errs := utils.ValidateForm(&form)
		opts.checkChoices(&form, errs)
		if errs.Any() {
			return webApp.renderDishForm(c, "Update dish", form, opts, errs)
		}

		form.ApplyTo(dish)
		if err := webApp.Repos.Dishes.Update(ctx, dish, form.CookIDs(), form.IngredientIDs()); err != nil {
			if errs, ok := referenceErrors(err); ok {
				return webApp.renderDishForm(c, "Update dish", form, opts, errs)
			}
			return repoError(err, "Failed to update dish")
		}
		return c.Redirect(dishesURL)
	}
}

func DishesDeletePage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		dish, err := webApp.Repos.Dishes.GetByID(c.Context(), id)
		if err != nil {
			return repoError(err, "Failed to load dish")
		}
		return webApp.render(c, "pages/confirm_delete", fiber.Map{
			"Title":     "Delete dish",
			"Kind":      "dish",
			"Name":      dish.Name,
			"CancelURL": dishesURL,
		})
	}
}

func DishesDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		if err := webApp.Repos.Dishes.Delete(c.Context(), id); err != nil {
			return repoError(err, "Failed to delete dish")
		}
		return c.Redirect(dishesURL)
	}
}
