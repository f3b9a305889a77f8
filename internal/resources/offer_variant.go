package resources

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendahand-app/lendahand-backend/pkg/db/models"
	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

type offerVariant struct {
	db *gorm.DB
}

// NewOfferVariant builds the offer capability set.
func NewOfferVariant(db *gorm.DB) Variant {
	return &offerVariant{db: db}
}

func (v *offerVariant) Kind() enums.ResourceKind {
	return enums.ResourceKindOffer
}

func (v *offerVariant) WithTx(tx *gorm.DB) Variant {
	if tx == nil {
		return v
	}
	return &offerVariant{db: tx}
}

func (v *offerVariant) FindByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	var offer models.Offer
	if err := v.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Resource{
		ID:        offer.ID,
		OwnerID:   offer.OwnerID,
		Status:    offer.Status,
		Latitude:  offer.Latitude,
		Longitude: offer.Longitude,
	}, nil
}

func (v *offerVariant) ClaimStatus(ctx context.Context, id uuid.UUID, expected, next enums.ResourceStatus) (bool, error) {
	result := v.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ? AND status = ?", id, expected).
		UpdateColumn("status", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (v *offerVariant) SetStatus(ctx context.Context, id uuid.UUID, status enums.ResourceStatus) (bool, error) {
	result := v.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
