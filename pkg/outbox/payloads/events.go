package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

// SessionMatchedEvent is emitted when a help session is created and a
// resource has been claimed.
type SessionMatchedEvent struct {
	SessionID    uuid.UUID          `json:"session_id"`
	ResourceKind enums.ResourceKind `json:"resource_kind"`
	ResourceID   uuid.UUID          `json:"resource_id"`
	RequesterID  uuid.UUID          `json:"requester_id"`
	HelperID     uuid.UUID          `json:"helper_id"`
	NotifyUserID uuid.UUID          `json:"notify_user_id"`
	MatchedAt    time.Time          `json:"matched_at"`
}

// SessionFinalizedEvent is emitted when a help session reaches a
// terminal status.
type SessionFinalizedEvent struct {
	SessionID    uuid.UUID           `json:"session_id"`
	ResourceKind enums.ResourceKind  `json:"resource_kind"`
	ResourceID   uuid.UUID           `json:"resource_id"`
	RequesterID  uuid.UUID           `json:"requester_id"`
	HelperID     uuid.UUID           `json:"helper_id"`
	Status       enums.SessionStatus `json:"status"`
	EndedAt      time.Time           `json:"ended_at"`
}

// SOSRaisedEvent carries the coordinates used for the proximity scan.
type SOSRaisedEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	RequestID uuid.UUID `json:"request_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	RaisedAt  time.Time `json:"raised_at"`
}
