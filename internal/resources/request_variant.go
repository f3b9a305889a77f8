package resources

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendahand-app/lendahand-backend/pkg/db/models"
	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

type requestVariant struct {
	db *gorm.DB
}

// NewRequestVariant builds the request capability set.
func NewRequestVariant(db *gorm.DB) Variant {
	return &requestVariant{db: db}
}

func (v *requestVariant) Kind() enums.ResourceKind {
	return enums.ResourceKindRequest
}

func (v *requestVariant) WithTx(tx *gorm.DB) Variant {
	if tx == nil {
		return v
	}
	return &requestVariant{db: tx}
}

func (v *requestVariant) FindByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	var request models.Request
	if err := v.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Resource{
		ID:        request.ID,
		OwnerID:   request.OwnerID,
		Status:    request.Status,
		Latitude:  request.Latitude,
		Longitude: request.Longitude,
	}, nil
}

func (v *requestVariant) ClaimStatus(ctx context.Context, id uuid.UUID, expected, next enums.ResourceStatus) (bool, error) {
	result := v.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status = ?", id, expected).
		UpdateColumn("status", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (v *requestVariant) SetStatus(ctx context.Context, id uuid.UUID, status enums.ResourceStatus) (bool, error) {
	result := v.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
