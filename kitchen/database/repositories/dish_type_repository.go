package repositories

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/kitchen-service/kitchen/kitchen/database/models"
)

const dishTypeEntity = "dish type"

type DishTypeRepository interface {
	Create(ctx context.Context, dishType *models.DishType) error
	GetByID(ctx context.Context, id int64) (*models.DishType, error)
	List(ctx context.Context, filter ListFilter) ([]*models.DishType, int, error)
	All(ctx context.Context) ([]*models.DishType, error)
	Names(ctx context.Context) ([]string, error)
	Update(ctx context.Context, dishType *models.DishType) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type dishTypeRepository struct {
	*BaseRepository
}

func NewDishTypeRepository(db *bun.DB) DishTypeRepository {
	return &dishTypeRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *dishTypeRepository) Create(ctx context.Context, dishType *models.DishType) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().Model(dishType).Exec(ctx)
	return r.HandleWriteError("create", dishTypeEntity, "name", dishType.Name, err)
}

func (r *dishTypeRepository) GetByID(ctx context.Context, id int64) (*models.DishType, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	dishType := new(models.DishType)
	err := r.db.NewSelect().
		Model(dishType).
		Where("dish_type.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", dishTypeEntity, id, err)
	}
	return dishType, nil
}

func (r *dishTypeRepository) List(ctx context.Context, filter ListFilter) ([]*models.DishType, int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var dishTypes []*models.DishType
	query := r.db.NewSelect().
		Model(&dishTypes).
		Order("dish_type.id ASC")
	if filter.HasQuery() {
		query = query.Where("dish_type.name ILIKE ?", likePattern(filter.Query))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, r.HandleError("list", dishTypeEntity, err)
	}
	return dishTypes, total, nil
}

func (r *dishTypeRepository) All(ctx context.Context) ([]*models.DishType, error) {
	dishTypes, _, err := r.List(ctx, ListFilter{})
	return dishTypes, err
}

func (r *dishTypeRepository) Names(ctx context.Context) ([]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var names []string
	err := r.db.NewSelect().
		Model((*models.DishType)(nil)).
		Column("name").
		Order("id ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, r.HandleError("names", dishTypeEntity, err)
	}
	return names, nil
}

func (r *dishTypeRepository) Update(ctx context.Context, dishType *models.DishType) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model(dishType).
		Column("name").
		WherePK().
		Exec(ctx)
	if err != nil {
		return r.HandleWriteError("update", dishTypeEntity, "name", dishType.Name, err)
	}
	return r.requireAffected(dishTypeEntity, dishType.ID, res)
}

// Delete removes the dish type together with every dish of that type.
func (r *dishTypeRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.DishType)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("delete", dishTypeEntity, id, err)
	}
	return r.requireAffected(dishTypeEntity, id, res)
}

func (r *dishTypeRepository) Count(ctx context.Context) (int, error) {
	return r.BaseRepository.Count(ctx, dishTypeEntity, r.db.NewSelect().Model((*models.DishType)(nil)))
}
