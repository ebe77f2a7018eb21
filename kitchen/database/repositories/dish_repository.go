package repositories

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/kitchen-service/kitchen/kitchen/database/models"
)

const dishEntity = "dish"

type DishRepository interface {
	Create(ctx context.Context, dish *models.Dish, cookIDs, ingredientIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Dish, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Dish, int, error)
	Names(ctx context.Context) ([]string, error)
	Update(ctx context.Context, dish *models.Dish, cookIDs, ingredientIDs []int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type dishRepository struct {
	*BaseRepository
}

func NewDishRepository(db *bun.DB) DishRepository {
	return &dishRepository{BaseRepository: NewBaseRepository(db)}
}

// Create inserts the dish and its cook and ingredient links in one transaction.
func (r *dishRepository) Create(ctx context.Context, dish *models.Dish, cookIDs, ingredientIDs []int64) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(dish).Exec(ctx); err != nil {
			return err
		}
		return insertLinks(ctx, tx, dish.ID, cookIDs, ingredientIDs)
	})
	if err != nil {
		return r.HandleWriteError("create", dishEntity, "name", dish.Name, err)
	}

	slog.Debug("Dish created",
		slog.String("type", "db"),
		slog.Int64("dish_id", dish.ID),
		slog.Int("cooks", len(cookIDs)),
		slog.Int("ingredients", len(ingredientIDs)))
	return nil
}

// GetByID loads the dish with its type, cooks and ingredients.
func (r *dishRepository) GetByID(ctx context.Context, id int64) (*models.Dish, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	dish := new(models.Dish)
	err := r.db.NewSelect().
		Model(dish).
		Relation("DishType").
		Relation("Cooks", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("cook.id ASC")
		}).
		Relation("Ingredients", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ingredient.id ASC")
		}).
		Where("dish.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", dishEntity, id, err)
	}
	return dish, nil
}

func (r *dishRepository) List(ctx context.Context, filter ListFilter) ([]*models.Dish, int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var dishes []*models.Dish
	query := r.db.NewSelect().
		Model(&dishes).
		Relation("DishType").
		Order("dish.id ASC")
	if filter.HasQuery() {
		query = query.Where("dish.name ILIKE ?", likePattern(filter.Query))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, r.HandleError("list", dishEntity, err)
	}
	return dishes, total, nil
}

func (r *dishRepository) Names(ctx context.Context) ([]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var names []string
	err := r.db.NewSelect().
		Model((*models.Dish)(nil)).
		Column("name").
		Order("id ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, r.HandleError("names", dishEntity, err)
	}
	return names, nil
}

// Update rewrites the dish columns and replaces both link sets.
func (r *dishRepository) Update(ctx context.Context, dish *models.Dish, cookIDs, ingredientIDs []int64) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(dish).
			Column("name", "description", "price", "dish_type_id").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		if err := r.requireAffected(dishEntity, dish.ID, res); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*models.DishCook)(nil)).
			Where("dish_id = ?", dish.ID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.DishIngredient)(nil)).
			Where("dish_id = ?", dish.ID).
			Exec(ctx); err != nil {
			return err
		}
		return insertLinks(ctx, tx, dish.ID, cookIDs, ingredientIDs)
	})
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return r.HandleWriteError("update", dishEntity, "name", dish.Name, err)
	}
	return nil
}

func (r *dishRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Dish)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("delete", dishEntity, id, err)
	}
	return r.requireAffected(dishEntity, id, res)
}

func (r *dishRepository) Count(ctx context.Context) (int, error) {
	return r.BaseRepository.Count(ctx, dishEntity, r.db.NewSelect().Model((*models.Dish)(nil)))
}

func insertLinks(ctx context.Context, tx bun.Tx, dishID int64, cookIDs, ingredientIDs []int64) error {
	if len(cookIDs) > 0 {
		links := make([]*models.DishCook, 0, len(cookIDs))
		for _, id := range uniqueIDs(cookIDs) {
			links = append(links, &models.DishCook{DishID: dishID, CookID: id})
		}
		if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
			return err
		}
	}
	if len(ingredientIDs) > 0 {
		links := make([]*models.DishIngredient, 0, len(ingredientIDs))
		for _, id := range uniqueIDs(ingredientIDs) {
			links = append(links, &models.DishIngredient{DishID: dishID, IngredientID: id})
		}
		if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
