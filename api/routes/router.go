package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lendahand-app/lendahand-backend/api/controllers"
	"github.com/lendahand-app/lendahand-backend/api/middleware"
	"github.com/lendahand-app/lendahand-backend/internal/notifications"
	"github.com/lendahand-app/lendahand-backend/internal/sessions"
	"github.com/lendahand-app/lendahand-backend/pkg/config"
	"github.com/lendahand-app/lendahand-backend/pkg/db"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
	"github.com/lendahand-app/lendahand-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionsService sessions.Service,
	notificationsService notifications.Service,
	dispatcher notifications.Dispatcher,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Actor(logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/sessions", func(r chi.Router) {
			r.Post("/", controllers.CreateSession(sessionsService, logg))
			r.Patch("/{sessionId}", controllers.FinalizeSession(sessionsService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/dispatch", controllers.DispatchNotifications(dispatcher, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})
	})

	return r
}
