package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/api/middleware"
	"github.com/lendahand-app/lendahand-backend/api/responses"
	"github.com/lendahand-app/lendahand-backend/api/validators"
	"github.com/lendahand-app/lendahand-backend/internal/sessions"
	"github.com/lendahand-app/lendahand-backend/pkg/enums"
	pkgerrors "github.com/lendahand-app/lendahand-backend/pkg/errors"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
)

type createSessionRequest struct {
	ResourceKind string `json:"resource_kind" validate:"required"`
	ResourceID   string `json:"resource_id" validate:"required"`
}

func (r createSessionRequest) toInput(actorID uuid.UUID) (sessions.CreateInput, error) {
	kind, err := enums.ParseResourceKind(strings.TrimSpace(r.ResourceKind))
	if err != nil {
		return sessions.CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid resource_kind")
	}
	resourceID, err := uuid.Parse(r.ResourceID)
	if err != nil {
		return sessions.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resource_id")
	}
	return sessions.CreateInput{
		Kind:       kind,
		ResourceID: resourceID,
		ActorID:    actorID,
	}, nil
}

type finalizeSessionRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=completed cancelled"`
	Result *string `json:"result" validate:"omitempty,max=2000"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (r finalizeSessionRequest) toInput(sessionID, actorID uuid.UUID) (sessions.FinalizeInput, error) {
	input := sessions.FinalizeInput{
		SessionID: sessionID,
		ActorID:   actorID,
		Result:    r.Result,
		Notes:     r.Notes,
		Rating:    r.Rating,
	}
	if r.Status != nil {
		status, err := enums.ParseSessionStatus(strings.TrimSpace(*r.Status))
		if err != nil {
			return sessions.FinalizeInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		input.Status = &status
	}
	return input, nil
}

// CreateSession claims an open resource for the caller and opens a help session.
func CreateSession(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// FinalizeSession applies a terminal status patch to an active session.
func FinalizeSession(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rawSessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		sessionID, err := uuid.Parse(rawSessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id"))
			return
		}

		var payload finalizeSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(sessionID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Finalize(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func actorFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return actorID, nil
}
