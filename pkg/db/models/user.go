package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/pkg/types"
)

// User represents the canonical identity entity.
type User struct {
	ID        uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string                `gorm:"type:text;not null;uniqueIndex"`
	FirstName string                `gorm:"column:first_name;not null"`
	LastName  string                `gorm:"column:last_name;not null"`
	Phone     *string               `gorm:"column:phone"`
	Location  *types.GeographyPoint `gorm:"column:location;type:geography(Point,4326)"`
	IsActive  bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// HasLocation reports whether the user shared a home coordinate.
func (u User) HasLocation() bool {
	return u.Location != nil
}
