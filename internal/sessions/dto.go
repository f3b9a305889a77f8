package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/internal/resources"
	"github.com/lendahand-app/lendahand-backend/internal/users"
	"github.com/lendahand-app/lendahand-backend/pkg/db/models"
	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

// SessionDTO is the transport shape of a help session.
type SessionDTO struct {
	ID            uuid.UUID            `json:"id"`
	RequestID     *uuid.UUID           `json:"request_id,omitempty"`
	OfferID       *uuid.UUID           `json:"offer_id,omitempty"`
	RequesterID   uuid.UUID            `json:"requester_id"`
	HelperID      uuid.UUID            `json:"helper_id"`
	Status        enums.SessionStatus  `json:"status"`
	StartedAt     time.Time            `json:"started_at"`
	EndedAt       *time.Time           `json:"ended_at,omitempty"`
	Result        *string              `json:"result,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
	Rating        *int                 `json:"rating,omitempty"`
	RatingPending bool                 `json:"rating_pending"`
	FinalizedBy   *enums.SessionCloser `json:"finalized_by,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ResourceDTO is the neutral view of the claimed offer or request.
type ResourceDTO struct {
	Kind      enums.ResourceKind   `json:"kind"`
	ID        uuid.UUID            `json:"id"`
	OwnerID   uuid.UUID            `json:"owner_id"`
	Status    enums.ResourceStatus `json:"status"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
}

// SessionDetail enriches a session with the related entities for display.
type SessionDetail struct {
	Session   SessionDTO     `json:"session"`
	Resource  *ResourceDTO   `json:"resource,omitempty"`
	Requester *users.UserDTO `json:"requester,omitempty"`
	Helper    *users.UserDTO `json:"helper,omitempty"`
}

func sessionFromModel(s *models.HelpSession) SessionDTO {
	return SessionDTO{
		ID:            s.ID,
		RequestID:     s.RequestID,
		OfferID:       s.OfferID,
		RequesterID:   s.RequesterID,
		HelperID:      s.HelperID,
		Status:        s.Status,
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		Result:        s.Result,
		Notes:         s.Notes,
		Rating:        s.Rating,
		RatingPending: s.RatingPending,
		FinalizedBy:   s.FinalizedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func resourceFromView(kind enums.ResourceKind, res *resources.Resource) *ResourceDTO {
	if res == nil {
		return nil
	}
	return &ResourceDTO{
		Kind:      kind,
		ID:        res.ID,
		OwnerID:   res.OwnerID,
		Status:    res.Status,
		Latitude:  res.Latitude,
		Longitude: res.Longitude,
	}
}
