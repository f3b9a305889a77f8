package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lendahand-app/lendahand-backend/api/routes"
	"github.com/lendahand-app/lendahand-backend/internal/notifications"
	"github.com/lendahand-app/lendahand-backend/internal/resources"
	"github.com/lendahand-app/lendahand-backend/internal/sessions"
	"github.com/lendahand-app/lendahand-backend/internal/users"
	"github.com/lendahand-app/lendahand-backend/pkg/config"
	"github.com/lendahand-app/lendahand-backend/pkg/db"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
	"github.com/lendahand-app/lendahand-backend/pkg/metrics"
	"github.com/lendahand-app/lendahand-backend/pkg/migrate"
	"github.com/lendahand-app/lendahand-backend/pkg/outbox"
	"github.com/lendahand-app/lendahand-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry, err := resources.NewGormRegistry(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to build resource registry", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	sessionsService, err := sessions.NewService(
		sessions.NewRepository(dbClient.DB()),
		registry,
		usersRepo,
		dbClient,
		outboxService,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create sessions service", err)
		os.Exit(1)
	}

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	fanoutMetrics := metrics.NewFanoutMetrics(prometheus.DefaultRegisterer)
	dispatcher, err := notifications.NewDispatcher(notificationsRepo, usersRepo, logg, fanoutMetrics, cfg.SOS.RadiusKm)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionsService, notificationsService, dispatcher),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
