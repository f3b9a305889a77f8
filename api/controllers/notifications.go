package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/api/responses"
	"github.com/lendahand-app/lendahand-backend/api/validators"
	"github.com/lendahand-app/lendahand-backend/internal/notifications"
	"github.com/lendahand-app/lendahand-backend/pkg/enums"
	pkgerrors "github.com/lendahand-app/lendahand-backend/pkg/errors"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
)

// ListNotifications returns paginated notifications for the calling user.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := notifications.ListParams{UserID: userID}

		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}

		if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
			params.Cursor = cursor
		}

		if unread := strings.TrimSpace(r.URL.Query().Get("unreadOnly")); unread != "" {
			value, err := strconv.ParseBool(unread)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unreadOnly value"))
				return
			}
			params.UnreadOnly = value
		}

		resp, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// MarkNotificationRead stamps a single notification as read for the caller.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rawNotificationID := strings.TrimSpace(chi.URLParam(r, "notificationId"))
		notificationID, err := uuid.Parse(rawNotificationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		if err := svc.MarkRead(r.Context(), userID, notificationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"read": true})
	}
}

// MarkAllNotificationsRead stamps every unread notification for the caller.
func MarkAllNotificationsRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.MarkAllRead(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}

type dispatchNotificationRequest struct {
	UserID     string            `json:"user_id" validate:"required"`
	Type       string            `json:"type" validate:"required"`
	ResourceID string            `json:"resource_id" validate:"required"`
	Location   *dispatchLocation `json:"location" validate:"omitempty"`
}

type dispatchLocation struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

func (r dispatchNotificationRequest) toInput() (notifications.DispatchInput, error) {
	userID, err := uuid.Parse(strings.TrimSpace(r.UserID))
	if err != nil {
		return notifications.DispatchInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id")
	}
	kind, err := enums.ParseNotificationType(strings.TrimSpace(r.Type))
	if err != nil {
		return notifications.DispatchInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid type")
	}
	resourceID, err := uuid.Parse(strings.TrimSpace(r.ResourceID))
	if err != nil {
		return notifications.DispatchInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resource_id")
	}
	input := notifications.DispatchInput{
		UserID:     userID,
		Kind:       kind,
		ResourceID: resourceID,
	}
	if r.Location != nil {
		input.Location = &notifications.Location{
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
		}
	}
	return input, nil
}

// DispatchNotifications triggers a notification fan-out directly. The response
// reports whether every recipient was stored.
func DispatchNotifications(dispatcher notifications.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dispatcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification dispatcher unavailable"))
			return
		}

		var payload dispatchNotificationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivered := dispatcher.Dispatch(r.Context(), input)
		responses.WriteSuccess(w, map[string]bool{"delivered": delivered})
	}
}
