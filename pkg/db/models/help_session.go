package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

// HelpSession records one matched interaction between a requester and a helper.
// Exactly one of RequestID/OfferID is set; the database enforces this with a
// CHECK constraint and the matcher never produces anything else.
type HelpSession struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID     *uuid.UUID           `gorm:"column:request_id;type:uuid"`
	OfferID       *uuid.UUID           `gorm:"column:offer_id;type:uuid"`
	RequesterID   uuid.UUID            `gorm:"column:requester_id;type:uuid;not null"`
	HelperID      uuid.UUID            `gorm:"column:helper_id;type:uuid;not null"`
	Status        enums.SessionStatus  `gorm:"column:status;type:session_status;not null;default:'active'"`
	StartedAt     time.Time            `gorm:"column:started_at;not null"`
	EndedAt       *time.Time           `gorm:"column:ended_at"`
	Result        *string              `gorm:"column:result;type:text"`
	Notes         *string              `gorm:"column:notes;type:text"`
	Rating        *int                 `gorm:"column:rating"`
	RatingPending bool                 `gorm:"column:rating_pending;not null;default:false"`
	FinalizedBy   *enums.SessionCloser `gorm:"column:finalized_by;type:session_closer"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// ResourceKind reports which variant the session claimed.
func (s HelpSession) ResourceKind() enums.ResourceKind {
	if s.OfferID != nil {
		return enums.ResourceKindOffer
	}
	return enums.ResourceKindRequest
}

// ResourceID returns the identifier of the claimed resource.
func (s HelpSession) ResourceID() uuid.UUID {
	if s.OfferID != nil {
		return *s.OfferID
	}
	if s.RequestID != nil {
		return *s.RequestID
	}
	return uuid.Nil
}
