package sessions

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
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

type fakeVariant struct {
	kind      enums.ResourceKind
	byID      map[uuid.UUID]*resources.Resource
	claimFail bool
}

func newFakeVariant(kind enums.ResourceKind) *fakeVariant {
	return &fakeVariant{kind: kind, byID: make(map[uuid.UUID]*resources.Resource)}
}

func (f *fakeVariant) Kind() enums.ResourceKind          { return f.kind }
func (f *fakeVariant) WithTx(*gorm.DB) resources.Variant { return f }

func (f *fakeVariant) FindByID(_ context.Context, id uuid.UUID) (*resources.Resource, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *res
	return &copied, nil
}

func (f *fakeVariant) ClaimStatus(_ context.Context, id uuid.UUID, expected, next enums.ResourceStatus) (bool, error) {
	if f.claimFail {
		return false, nil
	}
	res, ok := f.byID[id]
	if !ok || res.Status != expected {
		return false, nil
	}
	res.Status = next
	return true, nil
}

func (f *fakeVariant) SetStatus(_ context.Context, id uuid.UUID, status enums.ResourceStatus) (bool, error) {
	res, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	res.Status = status
	return true, nil
}

type fakeSessionsRepo struct {
	byID      map[uuid.UUID]*models.HelpSession
	createErr error
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{byID: make(map[uuid.UUID]*models.HelpSession)}
}

func (f *fakeSessionsRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakeSessionsRepo) Create(_ context.Context, session *models.HelpSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	stored := *session
	f.byID[session.ID] = &stored
	return nil
}

func (f *fakeSessionsRepo) FindByID(_ context.Context, id uuid.UUID) (*models.HelpSession, error) {
	session, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionsRepo) Update(_ context.Context, session *models.HelpSession) error {
	stored := *session
	f.byID[session.ID] = &stored
	return nil
}

type fakeUsersRepo struct {
	byID map[uuid.UUID]*models.User
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.byID == nil {
		return nil, nil
	}
	return f.byID[id], nil
}

func (f *fakeUsersRepo) ListAllExcept(_ context.Context, excludeID uuid.UUID) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if u.ID != excludeID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	svc      Service
	repo     *fakeSessionsRepo
	offers   *fakeVariant
	requests *fakeVariant
	outbox   *fakeOutbox
	users    *fakeUsersRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	offers := newFakeVariant(enums.ResourceKindOffer)
	requests := newFakeVariant(enums.ResourceKindRequest)
	reg, err := resources.NewRegistry(offers, requests)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	repo := newFakeSessionsRepo()
	ob := &fakeOutbox{}
	userRepo := &fakeUsersRepo{byID: make(map[uuid.UUID]*models.User)}
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(repo, reg, userRepo, fakeTxRunner{}, ob, logg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, offers: offers, requests: requests, outbox: ob, users: userRepo}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %T: %v", err, err)
	}
	if domainErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, domainErr.Code())
	}
}

func TestCreateOfferSessionAssignsRoles(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	actor := uuid.New()
	offerID := uuid.New()
	f.offers.byID[offerID] = &resources.Resource{ID: offerID, OwnerID: owner, Status: enums.ResourceStatusActive}

	detail, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKindOffer,
		ResourceID: offerID,
		ActorID:    actor,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	session := detail.Session
	if session.RequesterID != actor || session.HelperID != owner {
		t.Fatalf("wrong role assignment: requester=%s helper=%s", session.RequesterID, session.HelperID)
	}
	if session.Status != enums.SessionStatusActive {
		t.Fatalf("expected active session, got %s", session.Status)
	}
	if session.OfferID == nil || *session.OfferID != offerID {
		t.Fatalf("expected offer id on session")
	}
	if session.RequestID != nil {
		t.Fatalf("request id must stay nil on offer sessions")
	}
	if f.offers.byID[offerID].Status != enums.ResourceStatusInProgress {
		t.Fatalf("offer not claimed, status %s", f.offers.byID[offerID].Status)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventSessionMatched {
		t.Fatalf("expected a single session_matched event, got %+v", f.outbox.events)
	}
	payload := f.outbox.events[0].Data.(payloads.SessionMatchedEvent)
	if payload.NotifyUserID != owner {
		t.Fatalf("expected resource owner to be notified, got %s", payload.NotifyUserID)
	}
}

func TestCreateRequestSessionAssignsRoles(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	actor := uuid.New()
	requestID := uuid.New()
	f.requests.byID[requestID] = &resources.Resource{ID: requestID, OwnerID: owner, Status: enums.ResourceStatusActive}

	detail, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKindRequest,
		ResourceID: requestID,
		ActorID:    actor,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if detail.Session.RequesterID != owner || detail.Session.HelperID != actor {
		t.Fatalf("wrong role assignment for request session")
	}
}

func TestCreateSessionRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKind("garage"),
		ResourceID: uuid.New(),
		ActorID:    uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateSessionResourceMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKindOffer,
		ResourceID: uuid.New(),
		ActorID:    uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateSessionRejectsSelfAcceptance(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	offerID := uuid.New()
	f.offers.byID[offerID] = &resources.Resource{ID: offerID, OwnerID: owner, Status: enums.ResourceStatusActive}

	_, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKindOffer,
		ResourceID: offerID,
		ActorID:    owner,
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateSessionConflictsWhenInProgress(t *testing.T) {
	f := newFixture(t)
	offerID := uuid.New()
	f.offers.byID[offerID] = &resources.Resource{ID: offerID, OwnerID: uuid.New(), Status: enums.ResourceStatusInProgress}

	_, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKindOffer,
		ResourceID: offerID,
		ActorID:    uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateSessionConflictsWhenClaimRaceLost(t *testing.T) {
	f := newFixture(t)
	offerID := uuid.New()
	f.offers.byID[offerID] = &resources.Resource{ID: offerID, OwnerID: uuid.New(), Status: enums.ResourceStatusActive}
	f.offers.claimFail = true

	_, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKindOffer,
		ResourceID: offerID,
		ActorID:    uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeConflict)
	if len(f.outbox.events) != 0 {
		t.Fatalf("no event should be emitted when the claim fails")
	}
}

func TestSecondAcceptorConflicts(t *testing.T) {
	f := newFixture(t)
	offerID := uuid.New()
	f.offers.byID[offerID] = &resources.Resource{ID: offerID, OwnerID: uuid.New(), Status: enums.ResourceStatusActive}

	if _, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKindOffer,
		ResourceID: offerID,
		ActorID:    uuid.New(),
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.svc.Create(context.Background(), CreateInput{
		Kind:       enums.ResourceKindOffer,
		ResourceID: offerID,
		ActorID:    uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func seedActiveSession(f *fixture, kind enums.ResourceKind) (*models.HelpSession, uuid.UUID) {
	resourceID := uuid.New()
	requester := uuid.New()
	helper := uuid.New()
	session := &models.HelpSession{
		ID:          uuid.New(),
		RequesterID: requester,
		HelperID:    helper,
		Status:      enums.SessionStatusActive,
	}
	if kind == enums.ResourceKindOffer {
		session.OfferID = &resourceID
		f.offers.byID[resourceID] = &resources.Resource{ID: resourceID, OwnerID: helper, Status: enums.ResourceStatusInProgress}
	} else {
		session.RequestID = &resourceID
		f.requests.byID[resourceID] = &resources.Resource{ID: resourceID, OwnerID: requester, Status: enums.ResourceStatusInProgress}
	}
	f.repo.byID[session.ID] = session
	return session, resourceID
}

func TestFinalizeCompletedByRequester(t *testing.T) {
	f := newFixture(t)
	session, resourceID := seedActiveSession(f, enums.ResourceKindOffer)
	status := enums.SessionStatusCompleted
	result := "helped carry furniture"

	detail, err := f.svc.Finalize(context.Background(), FinalizeInput{
		SessionID: session.ID,
		ActorID:   session.RequesterID,
		Status:    &status,
		Result:    &result,
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	got := detail.Session
	if got.Status != enums.SessionStatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if !got.RatingPending {
		t.Fatalf("rating must be pending after completion")
	}
	if got.FinalizedBy == nil || *got.FinalizedBy != enums.SessionCloserRequester {
		t.Fatalf("expected finalized_by=requester, got %v", got.FinalizedBy)
	}
	if got.EndedAt == nil {
		t.Fatalf("ended_at must be set")
	}
	if got.Result == nil || *got.Result != result {
		t.Fatalf("result not applied")
	}
	if f.offers.byID[resourceID].Status != enums.ResourceStatusCompleted {
		t.Fatalf("offer should be completed, got %s", f.offers.byID[resourceID].Status)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventSessionFinalized {
		t.Fatalf("expected session_finalized event")
	}
}

func TestFinalizeCancelledReopensResource(t *testing.T) {
	f := newFixture(t)
	session, resourceID := seedActiveSession(f, enums.ResourceKindOffer)
	status := enums.SessionStatusCancelled

	detail, err := f.svc.Finalize(context.Background(), FinalizeInput{
		SessionID: session.ID,
		ActorID:   session.HelperID,
		Status:    &status,
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if detail.Session.RatingPending {
		t.Fatalf("cancelled sessions must not leave a pending rating")
	}
	if detail.Session.FinalizedBy == nil || *detail.Session.FinalizedBy != enums.SessionCloserHelper {
		t.Fatalf("expected finalized_by=helper")
	}
	if f.offers.byID[resourceID].Status != enums.ResourceStatusActive {
		t.Fatalf("offer should reopen to active, got %s", f.offers.byID[resourceID].Status)
	}
}

func TestFinalizeByNonPartyLeavesFinalizedByUnset(t *testing.T) {
	f := newFixture(t)
	session, _ := seedActiveSession(f, enums.ResourceKindRequest)
	status := enums.SessionStatusCancelled

	detail, err := f.svc.Finalize(context.Background(), FinalizeInput{
		SessionID: session.ID,
		ActorID:   uuid.New(),
		Status:    &status,
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if detail.Session.FinalizedBy != nil {
		t.Fatalf("finalized_by must stay unset for non-party actors")
	}
}

func TestFinalizeRejectsNonTerminalStatus(t *testing.T) {
	f := newFixture(t)
	session, _ := seedActiveSession(f, enums.ResourceKindOffer)
	status := enums.SessionStatusActive

	_, err := f.svc.Finalize(context.Background(), FinalizeInput{
		SessionID: session.ID,
		ActorID:   session.RequesterID,
		Status:    &status,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestFinalizeMissingSession(t *testing.T) {
	f := newFixture(t)
	status := enums.SessionStatusCompleted
	_, err := f.svc.Finalize(context.Background(), FinalizeInput{
		SessionID: uuid.New(),
		ActorID:   uuid.New(),
		Status:    &status,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestFinalizeTerminalSessionIsImmutable(t *testing.T) {
	f := newFixture(t)
	session, _ := seedActiveSession(f, enums.ResourceKindOffer)
	session.Status = enums.SessionStatusCompleted
	f.repo.byID[session.ID] = session

	status := enums.SessionStatusCancelled
	_, err := f.svc.Finalize(context.Background(), FinalizeInput{
		SessionID: session.ID,
		ActorID:   session.RequesterID,
		Status:    &status,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestFinalizeRejectsOutOfRangeRating(t *testing.T) {
	f := newFixture(t)
	session, _ := seedActiveSession(f, enums.ResourceKindOffer)
	status := enums.SessionStatusCompleted
	rating := 9

	_, err := f.svc.Finalize(context.Background(), FinalizeInput{
		SessionID: session.ID,
		ActorID:   session.RequesterID,
		Status:    &status,
		Rating:    &rating,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}
