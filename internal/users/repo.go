package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendahand-app/lendahand-backend/internal/repo"
	"github.com/lendahand-app/lendahand-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListAllExcept(ctx context.Context, excludeID uuid.UUID) ([]models.User, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

// FindByID loads a user by their UUID. Returns (nil, nil) when absent.
func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListAllExcept returns every active user other than the excluded one.
func (r *repositoryImpl) ListAllExcept(ctx context.Context, excludeID uuid.UUID) ([]models.User, error) {
	var rows []models.User
	err := r.DB(ctx).
		Where("id <> ? AND is_active = TRUE", excludeID).
		Find(&rows).Error
	return rows, err
}
