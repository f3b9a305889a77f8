package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/api/middleware"
	"github.com/lendahand-app/lendahand-backend/internal/notifications"
	"github.com/lendahand-app/lendahand-backend/internal/sessions"
	"github.com/lendahand-app/lendahand-backend/pkg/config"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
	"github.com/lendahand-app/lendahand-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionsService struct{}

func (stubSessionsService) Create(ctx context.Context, input sessions.CreateInput) (*sessions.SessionDetail, error) {
	return &sessions.SessionDetail{}, nil
}

func (stubSessionsService) Finalize(ctx context.Context, input sessions.FinalizeInput) (*sessions.SessionDetail, error) {
	return &sessions.SessionDetail{}, nil
}

type stubNotificationsService struct {
	listFn func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error)
}

func (s stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubDispatcher struct{}

func (stubDispatcher) Dispatch(context.Context, notifications.DispatchInput) bool {
	return true
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionsService{},
		stubNotificationsService{},
		stubDispatcher{},
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-LendAHand-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestPrivateGroupRejectsMissingActor(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor header got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithActor(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(middleware.ActorHeader, uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestSessionsRoutesRequireActor(t *testing.T) {
	router := newTestRouter(testConfig())

	create := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, create)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for create without actor got %d", resp.Code)
	}

	finalize := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/"+uuid.NewString(), strings.NewReader(`{}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, finalize)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for finalize without actor got %d", resp.Code)
	}
}

func TestCreateSessionRouted(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"resource_kind":"offer","resource_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(body))
	req.Header.Set(middleware.ActorHeader, uuid.NewString())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestNotificationsListRouted(t *testing.T) {
	actorID := uuid.New()
	called := false
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	router := NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionsService{},
		stubNotificationsService{
			listFn: func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
				called = true
				if params.UserID != actorID {
					t.Fatalf("expected list scoped to %s, got %s", actorID, params.UserID)
				}
				return &notifications.ListResult{}, nil
			},
		},
		stubDispatcher{},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/", nil)
	req.Header.Set(middleware.ActorHeader, actorID.String())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected list service called")
	}
}

func TestPublicValidateRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/public/validate", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestPublicValidateAcceptsGoodJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"name":"Zed","email":"zed@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/public/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid payload got %d", resp.Code)
	}
}
