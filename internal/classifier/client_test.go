package classifier

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Client{
		baseURL: server.URL,
		token:   "test-token",
		http:    server.Client(),
		logger:  testLogger(),
	}
}

func validRequest() Request {
	return Request{
		Title:       "Wifi keeps dropping in the library",
		Description: "The connection drops every few minutes on the second floor.",
		Category:    "Infrastructure",
	}
}

func TestClassifySuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header: got %q", got)
		}
		w.Write([]byte(`{
			"suggestedCategory": "Infrastructure",
			"priority": "High",
			"priorityScore": 0.91,
			"suggestedResponse": "We are investigating the access points."
		}`))
	})

	result, err := client.Classify(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SuggestedCategory != "Infrastructure" {
		t.Errorf("suggested category: got %q", result.SuggestedCategory)
	}
	if result.Priority != "High" {
		t.Errorf("priority: got %q", result.Priority)
	}
	if result.PriorityScore != 0.91 {
		t.Errorf("score: got %v", result.PriorityScore)
	}
}

func TestClassifyFencedResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("```json\n{\"suggestedCategory\": \"Other\", \"priority\": \"Low\", \"priorityScore\": 0.2, \"suggestedResponse\": \"Noted.\"}\n```"))
	})

	result, err := client.Classify(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Priority != "Low" {
		t.Errorf("priority: got %q", result.Priority)
	}
}

func TestClassifyMissingCredential(t *testing.T) {
	called := false
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	client.token = ""

	_, err := client.Classify(context.Background(), validRequest())

	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if called {
		t.Error("no network call should happen without a credential")
	}
}

func TestClassifyFailureModes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, "", ErrRateLimited},
		{"quota exceeded", http.StatusPaymentRequired, "", ErrQuotaExceeded},
		{"server error", http.StatusInternalServerError, "boom", ErrInvalidResult},
		{"undecodable body", http.StatusOK, "not json", ErrInvalidResult},
		{"unknown category", http.StatusOK,
			`{"suggestedCategory": "Gym", "priority": "Low", "priorityScore": 0.5, "suggestedResponse": "x"}`,
			ErrInvalidResult},
		{"unknown priority", http.StatusOK,
			`{"suggestedCategory": "Other", "priority": "Urgent", "priorityScore": 0.5, "suggestedResponse": "x"}`,
			ErrInvalidResult},
		{"score out of range", http.StatusOK,
			`{"suggestedCategory": "Other", "priority": "Low", "priorityScore": 1.2, "suggestedResponse": "x"}`,
			ErrInvalidResult},
		{"empty response text", http.StatusOK,
			`{"suggestedCategory": "Other", "priority": "Low", "priorityScore": 0.5, "suggestedResponse": ""}`,
			ErrInvalidResult},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.Classify(context.Background(), validRequest())
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, expected %v", err, tc.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrRateLimited, http.StatusServiceUnavailable},
		{ErrQuotaExceeded, http.StatusBadGateway},
		{ErrInvalidResult, http.StatusBadGateway},
		{ErrMissingCredential, http.StatusInternalServerError},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := MapHTTPStatus(tc.err); got != tc.want {
			t.Errorf("%v: got %d, expected %d", tc.err, got, tc.want)
		}
	}
}
