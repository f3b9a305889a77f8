package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

// Notification stores in-app notification payloads addressed to users.
// ReadAt is NULL while the notification is unread.
type Notification struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	ResourceModel enums.ResourceModel    `gorm:"column:resource_model;type:text;not null"`
	ResourceID    uuid.UUID              `gorm:"column:resource_id;type:uuid;not null"`
	Type          enums.NotificationType `gorm:"type:notification_type;not null"`
	Title         string                 `gorm:"type:text;not null"`
	Message       string                 `gorm:"type:text;not null"`
	ReadAt        *time.Time             `gorm:"type:timestamptz"`
	CreatedAt     time.Time              `gorm:"type:timestamptz;default:now()"`
}
