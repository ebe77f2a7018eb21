package repositories

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/kitchen-service/kitchen/kitchen/database/models"
)

const ingredientEntity = "ingredient"

type IngredientRepository interface {
	Create(ctx context.Context, ingredient *models.Ingredient) error
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Ingredient, int, error)
	All(ctx context.Context) ([]*models.Ingredient, error)
	Names(ctx context.Context) ([]string, error)
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type ingredientRepository struct {
	*BaseRepository
}

func NewIngredientRepository(db *bun.DB) IngredientRepository {
	return &ingredientRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().Model(ingredient).Exec(ctx)
	return r.HandleWriteError("create", ingredientEntity, "name", ingredient.Name, err)
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ingredient := new(models.Ingredient)
	err := r.db.NewSelect().
		Model(ingredient).
		Where("ingredient.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", ingredientEntity, id, err)
	}
	return ingredient, nil
}

func (r *ingredientRepository) List(ctx context.Context, filter ListFilter) ([]*models.Ingredient, int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var ingredients []*models.Ingredient
	query := r.db.NewSelect().
		Model(&ingredients).
		Order("ingredient.id ASC")
	if filter.HasQuery() {
		query = query.Where("ingredient.name ILIKE ?", likePattern(filter.Query))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, r.HandleError("list", ingredientEntity, err)
	}
	return ingredients, total, nil
}

func (r *ingredientRepository) All(ctx context.Context) ([]*models.Ingredient, error) {
	ingredients, _, err := r.List(ctx, ListFilter{})
	return ingredients, err
}

func (r *ingredientRepository) Names(ctx context.Context) ([]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var names []string
	err := r.db.NewSelect().
		Model((*models.Ingredient)(nil)).
		Column("name").
		Order("id ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, r.HandleError("names", ingredientEntity, err)
	}
	return names, nil
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model(ingredient).
		Column("name").
		WherePK().
		Exec(ctx)
	if err != nil {
		return r.HandleWriteError("update", ingredientEntity, "name", ingredient.Name, err)
	}
	return r.requireAffected(ingredientEntity, ingredient.ID, res)
}

// Delete removes the ingredient; dishes keep existing without it.
func (r *ingredientRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Ingredient)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("delete", ingredientEntity, id, err)
	}
	return r.requireAffected(ingredientEntity, id, res)
}

func (r *ingredientRepository) Count(ctx context.Context) (int, error) {
	return r.BaseRepository.Count(ctx, ingredientEntity, r.db.NewSelect().Model((*models.Ingredient)(nil)))
}
