package models

import (
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
)

// Repositories groups all repository interfaces for easy injection
type Repositories struct {
	Cooks       repositories.CookRepository
	Dishes      repositories.DishRepository
	DishTypes   repositories.DishTypeRepository
	Ingredients repositories.IngredientRepository
}

func NewRepositories(
	cooks repositories.CookRepository,
	dishes repositories.DishRepository,
	dishTypes repositories.DishTypeRepository,
	ingredients repositories.IngredientRepository,
) *Repositories {
	return &Repositories{
		Cooks:       cooks,
		Dishes:      dishes,
		DishTypes:   dishTypes,
		Ingredients: ingredients,
	}
}
