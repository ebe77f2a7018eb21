package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kitchen-service/kitchen/kitchen/config"
	"github.com/kitchen-service/kitchen/kitchen/database/models"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
	"github.com/kitchen-service/kitchen/kitchen/logger"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles password login against the cooks table.
type AuthService struct {
	cooks repositories.CookRepository
	cost  int
	now   func() time.Time
}

func NewAuthService(cooks repositories.CookRepository) *AuthService {
	return &AuthService{
		cooks: cooks,
		cost:  config.BcryptCost,
		now:   time.Now,
	}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (a *AuthService) WithCost(cost int) *AuthService {
	a.cost = cost
	return a
}

func (a *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CreateCook hashes password and stores cook. Duplicate usernames surface as *repositories.ConflictError.
func (a *AuthService) CreateCook(ctx context.Context, cook *models.Cook, password string) error {
	hash, err := a.HashPassword(password)
	if err != nil {
		return err
	}
	cook.PasswordHash = hash
	if err := a.cooks.Create(ctx, cook); err != nil {
		return err
	}

	logger.LogAuth("Cook account created",
		slog.Int64("cook_id", cook.ID),
		slog.String("username", cook.Username))
	return nil
}

// Authenticate checks the credentials and records the login time.
// Unknown users, wrong passwords and inactive accounts all give ErrInvalidCredentials.
func (a *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Cook, error) {
	cook, err := a.cooks.GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFound(err) {
			logger.LogAuth("Login failed: unknown user", slog.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cook.PasswordHash), []byte(password)); err != nil {
		logger.LogAuth("Login failed: wrong password", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if !cook.IsActive {
		logger.LogAuth("Login failed: inactive account", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	if err := a.cooks.UpdateLastLogin(ctx, cook.ID, now); err != nil {
		return nil, err
	}
	cook.LastLogin = &now

	logger.LogAuth("Login succeeded",
		slog.Int64("cook_id", cook.ID),
		slog.String("username", cook.Username))
	return cook, nil
}
