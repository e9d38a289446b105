package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/williamphan99/resera-template/internal/app"
	"github.com/williamphan99/resera-template/internal/domain"
	"github.com/williamphan99/resera-template/internal/store"
)

// repoStub overrides the repository methods a test exercises through function
// fields; an unstubbed call panics, which makes an unexpected repository hit a
// test failure.
type repoStub struct {
	store.Repository

	listLandlordsFn  func(ctx context.Context, skip, limit int) ([]domain.Landlord, error)
	getLandlordFn    func(ctx context.Context, id uuid.UUID) (*domain.Landlord, error)
	createLandlordFn func(ctx context.Context, req domain.CreateLandlordRequest) (*domain.Landlord, error)
	updateTenantFn   func(ctx context.Context, id uuid.UUID, req domain.UpdateTenantRequest) error
	deletePropertyFn func(ctx context.Context, id uuid.UUID) error
}

func (s *repoStub) ListLandlords(ctx context.Context, skip, limit int) ([]domain.Landlord, error) {
	return s.listLandlordsFn(ctx, skip, limit)
}

func (s *repoStub) GetLandlord(ctx context.Context, id uuid.UUID) (*domain.Landlord, error) {
	return s.getLandlordFn(ctx, id)
}

func (s *repoStub) CreateLandlord(ctx context.Context, req domain.CreateLandlordRequest) (*domain.Landlord, error) {
	return s.createLandlordFn(ctx, req)
}

func (s *repoStub) UpdateTenant(ctx context.Context, id uuid.UUID, req domain.UpdateTenantRequest) error {
	return s.updateTenantFn(ctx, id, req)
}

func (s *repoStub) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	return s.deletePropertyFn(ctx, id)
}

type sweepRunnerStub struct {
	ran chan struct{}
}

func (s *sweepRunnerStub) Run(ctx context.Context) (app.SweepSummary, error) {
	if s.ran != nil {
		s.ran <- struct{}{}
	}
	return app.SweepSummary{}, nil
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(repo store.Repository, sweeper SweepRunner) http.Handler {
	logger := newDiscardLogger()
	h := NewHandler(repo, sweeper, nil, nil, nil, logger, "http://localhost:8080")
	webhook := NewWebhookHandler(&producerStub{}, "", logger)
	return NewRouter(h, webhook, "*", "")
}

func TestHandleCheckPayments_AcknowledgesAndRunsSweep(t *testing.T) {
	sweeper := &sweepRunnerStub{ran: make(chan struct{}, 1)}
	router := newTestRouter(&repoStub{}, sweeper)

	req := httptest.NewRequest(http.MethodPost, "/check-payments", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "Payment check initiated" {
		t.Errorf("unexpected acknowledgement message %q", resp["message"])
	}

	select {
	case <-sweeper.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the sweep to run in the background")
	}
}

func TestHandleCreateLandlord(t *testing.T) {
	repo := &repoStub{
		createLandlordFn: func(ctx context.Context, req domain.CreateLandlordRequest) (*domain.Landlord, error) {
			return &domain.Landlord{
				ID:    uuid.New(),
				Name:  req.Name,
				Email: req.Email,
				Phone: req.Phone,
			}, nil
		},
	}
	router := newTestRouter(repo, &sweepRunnerStub{})

	body, _ := json.Marshal(domain.CreateLandlordRequest{Name: "Jamie", Email: "jamie@example.com", Phone: "+61400000000"})
	req := httptest.NewRequest(http.MethodPost, "/landlord", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var landlord domain.Landlord
	if err := json.Unmarshal(rr.Body.Bytes(), &landlord); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if landlord.Name != "Jamie" || landlord.Email != "jamie@example.com" {
		t.Errorf("unexpected landlord in response: %+v", landlord)
	}
}

func TestHandleCreateLandlord_InvalidBody(t *testing.T) {
	router := newTestRouter(&repoStub{}, &sweepRunnerStub{})

	req := httptest.NewRequest(http.MethodPost, "/landlord", bytes.NewReader([]byte("not-json")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleGetLandlord_NotFound(t *testing.T) {
	repo := &repoStub{
		getLandlordFn: func(ctx context.Context, id uuid.UUID) (*domain.Landlord, error) {
			return nil, domain.ErrNotFound
		},
	}
	router := newTestRouter(repo, &sweepRunnerStub{})

	req := httptest.NewRequest(http.MethodGet, "/landlord/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHandleGetLandlord_InvalidID(t *testing.T) {
	router := newTestRouter(&repoStub{}, &sweepRunnerStub{})

	req := httptest.NewRequest(http.MethodGet, "/landlord/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleListLandlords_Pagination(t *testing.T) {
	var gotSkip, gotLimit int
	repo := &repoStub{
		listLandlordsFn: func(ctx context.Context, skip, limit int) ([]domain.Landlord, error) {
			gotSkip, gotLimit = skip, limit
			return []domain.Landlord{}, nil
		},
	}
	router := newTestRouter(repo, &sweepRunnerStub{})

	req := httptest.NewRequest(http.MethodGet, "/landlords?skip=20&limit=10", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotSkip != 20 || gotLimit != 10 {
		t.Errorf("expected skip=20 limit=10, got skip=%d limit=%d", gotSkip, gotLimit)
	}
}

func TestHandleUpdateTenant(t *testing.T) {
	tenantID := uuid.New()
	repo := &repoStub{
		updateTenantFn: func(ctx context.Context, id uuid.UUID, req domain.UpdateTenantRequest) error {
			if id != tenantID {
				t.Errorf("expected tenant id %s, got %s", tenantID, id)
			}
			return nil
		},
	}
	router := newTestRouter(repo, &sweepRunnerStub{})

	newPhone := "+61411111111"
	body, _ := json.Marshal(domain.UpdateTenantRequest{Phone: &newPhone})
	req := httptest.NewRequest(http.MethodPut, "/tenant/"+tenantID.String(), bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestHandleDeleteProperty_NotFound(t *testing.T) {
	repo := &repoStub{
		deletePropertyFn: func(ctx context.Context, id uuid.UUID) error {
			return domain.ErrNotFound
		},
	}
	router := newTestRouter(repo, &sweepRunnerStub{})

	req := httptest.NewRequest(http.MethodDelete, "/property/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestProtectedRoutesRequireAPIKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(&repoStub{}, &sweepRunnerStub{}, nil, nil, nil, logger, "http://localhost:8080")
	webhook := NewWebhookHandler(&producerStub{}, "", logger)
	router := NewRouter(h, webhook, "*", "secret-key")

	req := httptest.NewRequest(http.MethodGet, "/landlords", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a key, got %d", rr.Code)
	}

	health := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, health)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected the health check to stay open, got %d", rr.Code)
	}
}
