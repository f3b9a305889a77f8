package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

// Offer is a published "I can help" resource.
type Offer struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID            `gorm:"column:owner_id;type:uuid;not null"`
	Title       string               `gorm:"column:title;type:text;not null"`
	Description *string              `gorm:"column:description;type:text"`
	Status      enums.ResourceStatus `gorm:"column:status;type:resource_status;not null;default:'active'"`
	Latitude    float64              `gorm:"column:latitude;not null"`
	Longitude   float64              `gorm:"column:longitude;not null"`
	PriceCents  *int                 `gorm:"column:price_cents"`
	Category    *string              `gorm:"column:category;type:text"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
