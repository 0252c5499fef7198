package complaints

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/internal/classifier"
	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/pkg/pagination"
	"github.com/campusdesk/campusdesk/pkg/routes"
)

type mockSystem struct {
	createFn   func(ctx context.Context, actor identity.Actor, cmd SubmitCommand) (*Complaint, error)
	listFn     func(ctx context.Context, actor identity.Actor, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Complaint], error)
	findFn     func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error)
	updateFn   func(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd UpdateCommand) (*Complaint, error)
	withdrawFn func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error)
	reviewFn   func(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd ReviewCommand) (*Complaint, error)
}

func (m *mockSystem) Handler() *Handler { return nil }

func (m *mockSystem) Create(ctx context.Context, actor identity.Actor, cmd SubmitCommand) (*Complaint, error) {
	return m.createFn(ctx, actor, cmd)
}

func (m *mockSystem) List(ctx context.Context, actor identity.Actor, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Complaint], error) {
	return m.listFn(ctx, actor, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error) {
	return m.findFn(ctx, actor, id)
}

func (m *mockSystem) FindByTicket(ctx context.Context, actor identity.Actor, code string) (*Complaint, error) {
	return nil, ErrNotFound
}

func (m *mockSystem) UpdateOwn(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd UpdateCommand) (*Complaint, error) {
	return m.updateFn(ctx, actor, id, cmd)
}

func (m *mockSystem) Withdraw(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error) {
	return m.withdrawFn(ctx, actor, id)
}

func (m *mockSystem) Review(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd ReviewCommand) (*Complaint, error) {
	return m.reviewFn(ctx, actor, id, cmd)
}

func testMux(sys System) *http.ServeMux {
	handler := NewHandler(sys, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, slog.New(slog.DiscardHandler))
	mux := http.NewServeMux()
	routes.Register(mux, *handler.Routes())
	return mux
}

func studentActor() identity.Actor {
	return identity.Actor{
		UserID: uuid.New(),
		Email:  "student@example.edu",
		Roles:  []identity.Role{identity.RoleStudent},
	}
}

func asActor(req *http.Request, actor identity.Actor) *http.Request {
	return req.WithContext(identity.WithActor(req.Context(), actor))
}

func sampleComplaint(actor identity.Actor) *Complaint {
	draft := "We will look into this."
	return &Complaint{
		ID:                uuid.New(),
		TicketCode:        "CMP-2026-007",
		StudentID:         actor.UserID,
		Title:             "Broken projector in room 204",
		Description:       "The projector has been flickering for two weeks and lectures stall.",
		Category:          CategoryFacilities,
		SuggestedCategory: CategoryFacilities,
		Priority:          PriorityMedium,
		AIPriorityScore:   0.55,
		Status:            StatusPending,
		AIDraftResponse:   &draft,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
}

func TestCreateComplaint(t *testing.T) {
	actor := studentActor()
	sys := &mockSystem{
		createFn: func(ctx context.Context, got identity.Actor, cmd SubmitCommand) (*Complaint, error) {
			if got.UserID != actor.UserID {
				t.Errorf("actor not forwarded")
			}
			return sampleComplaint(got), nil
		},
	}

	body := `{"title": "Broken projector in room 204", "description": "The projector has been flickering for two weeks and lectures stall.", "category": "Facilities"}`
	req := asActor(httptest.NewRequest(http.MethodPost, "/complaints", strings.NewReader(body)), actor)
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var complaint Complaint
	if err := json.NewDecoder(rec.Body).Decode(&complaint); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if complaint.TicketCode != "CMP-2026-007" {
		t.Errorf("ticket code: got %q", complaint.TicketCode)
	}
}

func TestCreateComplaintValidationFailure(t *testing.T) {
	sys := &mockSystem{
		createFn: func(ctx context.Context, actor identity.Actor, cmd SubmitCommand) (*Complaint, error) {
			return nil, &ValidationError{Fields: map[string]string{
				"title":    "title must be at least 5 characters in length",
				"category": "category must be one of the supported values",
			}}
		},
	}

	req := asActor(httptest.NewRequest(http.MethodPost, "/complaints", strings.NewReader(`{}`)), studentActor())
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d", rec.Code)
	}

	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Fields) != 2 {
		t.Errorf("expected 2 field errors, got %v", payload.Fields)
	}
}

func TestCreateComplaintRateLimited(t *testing.T) {
	sys := &mockSystem{
		createFn: func(ctx context.Context, actor identity.Actor, cmd SubmitCommand) (*Complaint, error) {
			return nil, classifier.ErrRateLimited
		},
	}

	body := `{"title": "Broken projector in room 204", "description": "The projector has been flickering for two weeks and lectures stall.", "category": "Facilities"}`
	req := asActor(httptest.NewRequest(http.MethodPost, "/complaints", strings.NewReader(body)), studentActor())
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestListComplaintsForwardsFilters(t *testing.T) {
	var gotFilters Filters
	sys := &mockSystem{
		listFn: func(ctx context.Context, actor identity.Actor, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Complaint], error) {
			gotFilters = filters
			result := pagination.NewPageResult([]Complaint{}, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}

	req := asActor(httptest.NewRequest(http.MethodGet, "/complaints?status=Pending&category=Facilities&priority=High", nil), studentActor())
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if gotFilters.Status == nil || *gotFilters.Status != StatusPending {
		t.Errorf("status filter not forwarded: %v", gotFilters.Status)
	}
	if gotFilters.Category == nil || *gotFilters.Category != CategoryFacilities {
		t.Errorf("category filter not forwarded: %v", gotFilters.Category)
	}
	if gotFilters.Priority == nil || *gotFilters.Priority != PriorityHigh {
		t.Errorf("priority filter not forwarded: %v", gotFilters.Priority)
	}
}

func TestListComplaintsRejectsUnknownFilter(t *testing.T) {
	sys := &mockSystem{}

	req := asActor(httptest.NewRequest(http.MethodGet, "/complaints?status=Closed", nil), studentActor())
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestWithdrawNotPending(t *testing.T) {
	sys := &mockSystem{
		withdrawFn: func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error) {
			return nil, ErrNotPending
		},
	}

	req := asActor(httptest.NewRequest(http.MethodPost, "/complaints/"+uuid.NewString()+"/withdraw", nil), studentActor())
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestReviewForbiddenForStudent(t *testing.T) {
	sys := &mockSystem{
		reviewFn: func(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd ReviewCommand) (*Complaint, error) {
			return nil, ErrForbidden
		},
	}

	body := `{"status": "Resolved", "admin_response": "Fixed."}`
	req := asActor(httptest.NewRequest(http.MethodPost, "/complaints/"+uuid.NewString()+"/review", strings.NewReader(body)), studentActor())
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestFindNotFound(t *testing.T) {
	sys := &mockSystem{
		findFn: func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error) {
			return nil, ErrNotFound
		},
	}

	req := asActor(httptest.NewRequest(http.MethodGet, "/complaints/"+uuid.NewString(), nil), studentActor())
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	sys := &mockSystem{}

	req := httptest.NewRequest(http.MethodGet, "/complaints", nil)
	rec := httptest.NewRecorder()

	testMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d", rec.Code)
	}
}
