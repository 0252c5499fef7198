package complaints

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/internal/classifier"
	"github.com/campusdesk/campusdesk/internal/events"
	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/pkg/pagination"
)

type fakeClassifier struct {
	result *classifier.Result
	err    error
	called bool
}

func (f *fakeClassifier) Classify(ctx context.Context, req classifier.Request) (*classifier.Result, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// testRepo wires the repository with no database: tests below must fail
// before any query runs.
func testRepo(cls classifier.System) System {
	return New(nil, cls, events.NewMemoryBus(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, slog.New(slog.DiscardHandler))
}

func TestCreateValidatesBeforeClassify(t *testing.T) {
	cls := &fakeClassifier{}
	repo := testRepo(cls)

	_, err := repo.Create(context.Background(), studentActor(), SubmitCommand{
		Title:       "Hey",
		Description: "too short",
		Category:    "Parking",
	})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if cls.called {
		t.Error("classifier must not be called for an invalid submission")
	}
}

func TestCreateAbortsWhenClassifierFails(t *testing.T) {
	for _, sentinel := range []error{
		classifier.ErrMissingCredential,
		classifier.ErrRateLimited,
		classifier.ErrQuotaExceeded,
		classifier.ErrInvalidResult,
	} {
		repo := testRepo(&fakeClassifier{err: sentinel})

		_, err := repo.Create(context.Background(), studentActor(), validSubmit())

		if !errors.Is(err, sentinel) {
			t.Errorf("expected %v, got %v", sentinel, err)
		}
	}
}

func TestCreateRejectsUnparseableClassification(t *testing.T) {
	tests := []struct {
		name   string
		result classifier.Result
	}{
		{"unknown category", classifier.Result{
			SuggestedCategory: "Gym", Priority: "Low",
			PriorityScore: 0.4, SuggestedResponse: "Noted.",
		}},
		{"unknown priority", classifier.Result{
			SuggestedCategory: "Other", Priority: "Urgent",
			PriorityScore: 0.4, SuggestedResponse: "Noted.",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := testRepo(&fakeClassifier{result: &tc.result})

			_, err := repo.Create(context.Background(), studentActor(), validSubmit())

			if !errors.Is(err, classifier.ErrInvalidResult) {
				t.Errorf("expected ErrInvalidResult, got %v", err)
			}
		})
	}
}

func TestStudentWriteGuard(t *testing.T) {
	owner := studentActor()
	stranger := studentActor()

	tests := []struct {
		name    string
		current Complaint
		actor   identity.Actor
		want    error
	}{
		{"owner pending", Complaint{StudentID: owner.UserID, Status: StatusPending}, owner, nil},
		{"non-owner", Complaint{StudentID: uuid.New(), Status: StatusPending}, stranger, ErrNotFound},
		{"owner resolved", Complaint{StudentID: owner.UserID, Status: StatusResolved}, owner, ErrNotPending},
		{"owner withdrawn", Complaint{StudentID: owner.UserID, Status: StatusWithdrawn}, owner, ErrNotPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := studentWriteGuard(tc.current, tc.actor)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, expected %v", err, tc.want)
			}
		})
	}
}
