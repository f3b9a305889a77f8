package sessions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendahand-app/lendahand-backend/pkg/db/models"
)

// Repository exposes persistence helpers for help sessions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, session *models.HelpSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.HelpSession, error)
	Update(ctx context.Context, session *models.HelpSession) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository builds a sessions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, session *models.HelpSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByID returns (nil, nil) when the session does not exist.
func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.HelpSession, error) {
	var session models.HelpSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *repositoryImpl) Update(ctx context.Context, session *models.HelpSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
