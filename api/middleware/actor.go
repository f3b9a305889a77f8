package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/api/responses"
	pkgerrors "github.com/lendahand-app/lendahand-backend/pkg/errors"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
)

// ActorHeader carries the authenticated user id, set by the gateway in
// front of this service.
const ActorHeader = "X-User-Id"

// Actor requires a valid user id header and seeds the request context with it.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(ActorHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil || userID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user id"))
				return
			}

			ctx := WithUserID(r.Context(), userID.String())
			ctx = logg.WithUserID(ctx, userID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
