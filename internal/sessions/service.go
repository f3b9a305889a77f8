package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendahand-app/lendahand-backend/internal/resources"
	"github.com/lendahand-app/lendahand-backend/internal/users"
	"github.com/lendahand-app/lendahand-backend/pkg/db/models"
	"github.com/lendahand-app/lendahand-backend/pkg/enums"
	pkgerrors "github.com/lendahand-app/lendahand-backend/pkg/errors"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
	"github.com/lendahand-app/lendahand-backend/pkg/outbox"
	"github.com/lendahand-app/lendahand-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the session matching and finalizing operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*SessionDetail, error)
	Finalize(ctx context.Context, input FinalizeInput) (*SessionDetail, error)
}

type service struct {
	repo     Repository
	registry *resources.Registry
	users    users.Repository
	tx       txRunner
	outbox   outboxPublisher
	logg     *logger.Logger
	now      func() time.Time
}

// CreateInput carries the data needed to claim a resource and open a session.
type CreateInput struct {
	Kind       enums.ResourceKind
	ResourceID uuid.UUID
	ActorID    uuid.UUID
}

// FinalizeInput is the patch applied to an active session.
type FinalizeInput struct {
	SessionID uuid.UUID
	ActorID   uuid.UUID
	Status    *enums.SessionStatus
	Result    *string
	Notes     *string
	Rating    *int
}

// NewService wires the session service dependencies.
func NewService(repo Repository, registry *resources.Registry, userRepo users.Repository, tx txRunner, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sessions repository required")
	}
	if registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "resource registry required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     repo,
		registry: registry,
		users:    userRepo,
		tx:       tx,
		outbox:   publisher,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*SessionDetail, error) {
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource kind must be offer or request")
	}
	if input.ResourceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	variant, err := s.registry.Resolve(input.Kind)
	if err != nil {
		return nil, err
	}

	var (
		session  models.HelpSession
		resource *resources.Resource
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		v := variant.WithTx(tx)
		res, err := v.FindByID(ctx, input.ResourceID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resource")
		}
		if res == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
		}
		if res.OwnerID == input.ActorID {
			return pkgerrors.New(pkgerrors.CodeConflict, "cannot accept your own resource")
		}
		if res.Status == enums.ResourceStatusInProgress {
			return pkgerrors.New(pkgerrors.CodeConflict, "resource already taken")
		}

		claimed, err := v.ClaimStatus(ctx, res.ID, res.Status, enums.ResourceStatusInProgress)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim resource")
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeConflict, "resource already taken")
		}

		session = buildSession(input, res, s.now().UTC())
		if err := s.repo.WithTx(tx).Create(ctx, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
		}

		resource = res
		resource.Status = enums.ResourceStatusInProgress

		event := outbox.DomainEvent{
			EventType:     enums.EventSessionMatched,
			AggregateType: enums.AggregateHelpSession,
			AggregateID:   session.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorID},
			Data: payloads.SessionMatchedEvent{
				SessionID:    session.ID,
				ResourceKind: input.Kind,
				ResourceID:   res.ID,
				RequesterID:  session.RequesterID,
				HelperID:     session.HelperID,
				NotifyUserID: res.OwnerID,
				MatchedAt:    session.StartedAt,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithSessionID(ctx, session.ID.String())
	logCtx = s.logg.WithResourceID(logCtx, input.ResourceID.String())
	s.logg.Info(logCtx, "help session created")

	return s.buildDetail(ctx, &session, resource)
}

func (s *service) Finalize(ctx context.Context, input FinalizeInput) (*SessionDetail, error) {
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Status != nil && !input.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be completed or cancelled")
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	var session models.HelpSession
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.FindByID(ctx, input.SessionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
		}
		if found == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		if found.Status != enums.SessionStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only active sessions can be updated")
		}

		now := s.now().UTC()
		applyPatch(found, input, now)

		if err := repo.Update(ctx, found); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update session")
		}

		if found.Status.IsTerminal() {
			if err := s.reconcileResource(ctx, tx, found); err != nil {
				return err
			}
			event := outbox.DomainEvent{
				EventType:     enums.EventSessionFinalized,
				AggregateType: enums.AggregateHelpSession,
				AggregateID:   found.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.ActorID},
				Data: payloads.SessionFinalizedEvent{
					SessionID:    found.ID,
					ResourceKind: found.ResourceKind(),
					ResourceID:   found.ResourceID(),
					RequesterID:  found.RequesterID,
					HelperID:     found.HelperID,
					Status:       found.Status,
					EndedAt:      now,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}

		session = *found
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithSessionID(ctx, session.ID.String())
	s.logg.Info(logCtx, "help session finalized")

	return s.buildDetail(ctx, &session, nil)
}

// reconcileResource re-opens or completes the claimed resource to mirror the
// session outcome. A missing resource row is tolerated.
func (s *service) reconcileResource(ctx context.Context, tx *gorm.DB, session *models.HelpSession) error {
	resourceID := session.ResourceID()
	if resourceID == uuid.Nil {
		return nil
	}
	variant, err := s.registry.Resolve(session.ResourceKind())
	if err != nil {
		return err
	}

	next := enums.ResourceStatusActive
	if session.Status == enums.SessionStatusCompleted {
		next = enums.ResourceStatusCompleted
	}

	updated, err := variant.WithTx(tx).SetStatus(ctx, resourceID, next)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile resource status")
	}
	if !updated {
		s.logg.Warn(s.logg.WithSessionID(ctx, session.ID.String()), "linked resource missing during finalize")
	}
	return nil
}

func buildSession(input CreateInput, res *resources.Resource, now time.Time) models.HelpSession {
	session := models.HelpSession{
		Status:        enums.SessionStatusActive,
		StartedAt:     now,
		RatingPending: false,
	}
	resourceID := res.ID
	if input.Kind == enums.ResourceKindOffer {
		session.OfferID = &resourceID
		session.RequesterID = input.ActorID
		session.HelperID = res.OwnerID
	} else {
		session.RequestID = &resourceID
		session.RequesterID = res.OwnerID
		session.HelperID = input.ActorID
	}
	return session
}

func applyPatch(session *models.HelpSession, input FinalizeInput, now time.Time) {
	if input.Result != nil {
		session.Result = input.Result
	}
	if input.Notes != nil {
		session.Notes = input.Notes
	}
	if input.Rating != nil {
		session.Rating = input.Rating
	}
	if input.Status != nil {
		session.Status = *input.Status
	}
	session.EndedAt = &now
	session.RatingPending = session.Status == enums.SessionStatusCompleted

	switch input.ActorID {
	case session.RequesterID:
		closer := enums.SessionCloserRequester
		session.FinalizedBy = &closer
	case session.HelperID:
		closer := enums.SessionCloserHelper
		session.FinalizedBy = &closer
	}
}

func (s *service) buildDetail(ctx context.Context, session *models.HelpSession, resource *resources.Resource) (*SessionDetail, error) {
	detail := &SessionDetail{Session: sessionFromModel(session)}

	if resource == nil {
		variant, err := s.registry.Resolve(session.ResourceKind())
		if err == nil {
			if res, err := variant.FindByID(ctx, session.ResourceID()); err == nil {
				resource = res
			}
		}
	}
	detail.Resource = resourceFromView(session.ResourceKind(), resource)

	if requester, err := s.users.FindByID(ctx, session.RequesterID); err == nil {
		detail.Requester = users.FromModel(requester)
	}
	if helper, err := s.users.FindByID(ctx, session.HelperID); err == nil {
		detail.Helper = users.FromModel(helper)
	}
	return detail, nil
}
