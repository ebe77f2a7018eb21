package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kitchen-service/kitchen/backend/models"
	"github.com/kitchen-service/kitchen/kitchen/config"
)

type DashboardService struct {
	repos *models.Repositories
}

func NewDashboardService(repos *models.Repositories) *DashboardService {
	return &DashboardService{repos: repos}
}

// Stats counts every entity concurrently.
func (d *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StatsQueryTimeout)
	defer cancel()

	var stats models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := d.repos.Cooks.Count(ctx)
		if err != nil {
			return fmt.Errorf("count cooks: %w", err)
		}
		stats.NumCooks = n
		return nil
	})
	g.Go(func() error {
		n, err := d.repos.Dishes.Count(ctx)
		if err != nil {
			return fmt.Errorf("count dishes: %w", err)
		}
		stats.NumDishes = n
		return nil
	})
	g.Go(func() error {
		n, err := d.repos.DishTypes.Count(ctx)
		if err != nil {
			return fmt.Errorf("count dish types: %w", err)
		}
		stats.NumDishTypes = n
		return nil
	})
	g.Go(func() error {
		n, err := d.repos.Ingredients.Count(ctx)
		if err != nil {
			return fmt.Errorf("count ingredients: %w", err)
		}
		stats.NumIngredients = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
