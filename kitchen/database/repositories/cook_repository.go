package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/kitchen-service/kitchen/kitchen/database/models"
)

const cookEntity = "cook"

type CookRepository interface {
	Create(ctx context.Context, cook *models.Cook) error
	GetByID(ctx context.Context, id int64) (*models.Cook, error)
	GetByUsername(ctx context.Context, username string) (*models.Cook, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Cook, int, error)
	All(ctx context.Context) ([]*models.Cook, error)
	Names(ctx context.Context) ([]string, error)
	UpdateExperience(ctx context.Context, id int64, years int) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type cookRepository struct {
	*BaseRepository
}

func NewCookRepository(db *bun.DB) CookRepository {
	return &cookRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *cookRepository) Create(ctx context.Context, cook *models.Cook) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if cook.DateJoined.IsZero() {
		cook.DateJoined = time.Now()
	}
	_, err := r.db.NewInsert().Model(cook).Returning("*").Exec(ctx)
	if err != nil {
		return r.HandleWriteError("create", cookEntity, "username", cook.Username, err)
	}

	slog.Debug("Cook created",
		slog.String("type", "db"),
		slog.Int64("cook_id", cook.ID),
		slog.String("username", cook.Username))
	return nil
}

// GetByID loads the cook with its dishes and their dish types.
func (r *cookRepository) GetByID(ctx context.Context, id int64) (*models.Cook, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	cook := new(models.Cook)
	err := r.db.NewSelect().
		Model(cook).
		Relation("Dishes", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("DishType").Order("dish.id ASC")
		}).
		Where("cook.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", cookEntity, id, err)
	}
	return cook, nil
}

func (r *cookRepository) GetByUsername(ctx context.Context, username string) (*models.Cook, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	cook := new(models.Cook)
	err := r.db.NewSelect().
		Model(cook).
		Where("cook.username = ?", username).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_by_username", cookEntity, username, err)
	}
	return cook, nil
}

func (r *cookRepository) List(ctx context.Context, filter ListFilter) ([]*models.Cook, int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var cooks []*models.Cook
	query := r.db.NewSelect().
		Model(&cooks).
		Order("cook.id ASC")
	if filter.HasQuery() {
		query = query.Where("cook.username ILIKE ?", likePattern(filter.Query))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, r.HandleError("list", cookEntity, err)
	}
	return cooks, total, nil
}

func (r *cookRepository) All(ctx context.Context) ([]*models.Cook, error) {
	cooks, _, err := r.List(ctx, ListFilter{})
	return cooks, err
}

// Names returns every username, used for search suggestions.
func (r *cookRepository) Names(ctx context.Context) ([]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var names []string
	err := r.db.NewSelect().
		Model((*models.Cook)(nil)).
		Column("username").
		Order("id ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, r.HandleError("names", cookEntity, err)
	}
	return names, nil
}

func (r *cookRepository) UpdateExperience(ctx context.Context, id int64, years int) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.Cook)(nil)).
		Set("years_of_experience = ?", years).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("update_experience", cookEntity, id, err)
	}
	return r.requireAffected(cookEntity, id, res)
}

func (r *cookRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.Cook)(nil)).
		Set("last_login = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("update_last_login", cookEntity, id, err)
	}
	return r.requireAffected(cookEntity, id, res)
}

// Delete removes the cook; dish links go with it.
func (r *cookRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Cook)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("delete", cookEntity, id, err)
	}
	return r.requireAffected(cookEntity, id, res)
}

func (r *cookRepository) Count(ctx context.Context) (int, error) {
	return r.BaseRepository.Count(ctx, cookEntity, r.db.NewSelect().Model((*models.Cook)(nil)))
}
