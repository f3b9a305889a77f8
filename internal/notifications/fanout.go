package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/internal/users"
	"github.com/lendahand-app/lendahand-backend/pkg/db/models"
	"github.com/lendahand-app/lendahand-backend/pkg/enums"
	pkgerrors "github.com/lendahand-app/lendahand-backend/pkg/errors"
	"github.com/lendahand-app/lendahand-backend/pkg/geo"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
	"github.com/lendahand-app/lendahand-backend/pkg/metrics"
)

// DefaultSOSRadiusKm bounds the proximity scan for SOS alerts.
const DefaultSOSRadiusKm = 5.0

// Location carries the coordinates an SOS alert was raised from.
type Location struct {
	Latitude  float64
	Longitude float64
}

// DispatchInput describes one fan-out request.
type DispatchInput struct {
	UserID     uuid.UUID
	Kind       enums.NotificationType
	ResourceID uuid.UUID
	Location   *Location
}

// Dispatcher computes recipients and records notifications. Dispatch never
// returns an error: every internal failure is logged and reported as false.
type Dispatcher interface {
	Dispatch(ctx context.Context, input DispatchInput) bool
}

type dispatcher struct {
	repo     Repository
	users    users.Repository
	logg     *logger.Logger
	metrics  *metrics.FanoutMetrics
	radiusKm float64
	now      func() time.Time
}

// NewDispatcher wires the fan-out engine. A nil metrics collector disables
// instrumentation; radiusKm <= 0 falls back to the default.
func NewDispatcher(repo Repository, userRepo users.Repository, logg *logger.Logger, fm *metrics.FanoutMetrics, radiusKm float64) (Dispatcher, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultSOSRadiusKm
	}
	return &dispatcher{
		repo:     repo,
		users:    userRepo,
		logg:     logg,
		metrics:  fm,
		radiusKm: radiusKm,
		now:      time.Now,
	}, nil
}

func (d *dispatcher) Dispatch(ctx context.Context, input DispatchInput) bool {
	started := d.now()
	logCtx := d.logg.WithFields(ctx, map[string]any{
		"user_id":     input.UserID.String(),
		"resource_id": input.ResourceID.String(),
		"type":        string(input.Kind),
	})

	rows, err := d.buildNotifications(ctx, input)
	if err != nil {
		d.logg.Error(logCtx, "notification fan-out failed", err)
		d.metrics.IncFailure(string(input.Kind))
		return false
	}

	created := d.createAll(ctx, rows)
	d.metrics.IncCreated(string(input.Kind), created)
	d.metrics.ObserveDuration(string(input.Kind), d.now().Sub(started))

	if created < len(rows) {
		d.logg.Warn(logCtx, "notification fan-out partially failed")
		d.metrics.IncFailure(string(input.Kind))
		return false
	}
	return true
}

func (d *dispatcher) buildNotifications(ctx context.Context, input DispatchInput) ([]models.Notification, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.ResourceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource id required")
	}

	now := d.now().UTC()
	switch input.Kind {
	case enums.NotificationTypeRequest:
		return []models.Notification{{
			UserID:        input.UserID,
			ResourceModel: enums.ResourceModelRequest,
			ResourceID:    input.ResourceID,
			Type:          enums.NotificationTypeRequest,
			Title:         "Request Accepted",
			Message:       "Your request has been accepted by a helper.",
			CreatedAt:     now,
		}}, nil
	case enums.NotificationTypeOffer:
		return []models.Notification{{
			UserID:        input.UserID,
			ResourceModel: enums.ResourceModelOffer,
			ResourceID:    input.ResourceID,
			Type:          enums.NotificationTypeOffer,
			Title:         "Offer Accepted",
			Message:       "Your offer has been accepted by a requester.",
			CreatedAt:     now,
		}}, nil
	case enums.NotificationTypeSOS:
		return d.buildSOSNotifications(ctx, input, now)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown notification kind "+string(input.Kind))
	}
}

func (d *dispatcher) buildSOSNotifications(ctx context.Context, input DispatchInput, now time.Time) ([]models.Notification, error) {
	if input.Location == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sos alerts require a location")
	}

	candidates, err := d.users.ListAllExcept(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list candidate recipients")
	}

	var rows []models.Notification
	for _, candidate := range candidates {
		if !candidate.HasLocation() {
			continue
		}
		if !geo.WithinRadiusKm(
			input.Location.Latitude, input.Location.Longitude,
			candidate.Location.Lat, candidate.Location.Lng,
			d.radiusKm,
		) {
			continue
		}
		rows = append(rows, models.Notification{
			UserID:        candidate.ID,
			ResourceModel: enums.ResourceModelRequest,
			ResourceID:    input.ResourceID,
			Type:          enums.NotificationTypeSOS,
			Title:         "SOS Alert",
			Message:       "Someone nearby needs immediate help. Please respond if you can.",
			CreatedAt:     now,
		})
	}
	return rows, nil
}

// createAll persists every row concurrently and returns how many succeeded.
func (d *dispatcher) createAll(ctx context.Context, rows []models.Notification) int {
	if len(rows) == 0 {
		return 0
	}

	var (
		wg      sync.WaitGroup
		mtx     sync.Mutex
		created int
	)
	for i := range rows {
		row := rows[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.repo.Create(ctx, &row); err != nil {
				logCtx := d.logg.WithField(ctx, "recipient_id", row.UserID.String())
				d.logg.Error(logCtx, "create notification", err)
				return
			}
			mtx.Lock()
			created++
			mtx.Unlock()
		}()
	}
	wg.Wait()
	return created
}
