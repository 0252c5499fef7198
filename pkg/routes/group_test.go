package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	var hit string
	record := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hit = name
			w.WriteHeader(http.StatusOK)
		}
	}

	Register(mux, Group{
		Prefix: "/complaints",
		Routes: []Route{
			{Method: http.MethodGet, Pattern: "", Handler: record("list")},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: record("find")},
		},
		Children: []Group{
			{
				Prefix: "/{id}/attachments",
				Routes: []Route{
					{Method: http.MethodGet, Pattern: "", Handler: record("attachments")},
				},
			},
		},
	})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/complaints", "list"},
		{http.MethodGet, "/complaints/abc", "find"},
		{http.MethodGet, "/complaints/abc/attachments", "attachments"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			hit = ""
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d", rec.Code)
			}
			if hit != tc.want {
				t.Errorf("handler: got %q, expected %q", hit, tc.want)
			}
		})
	}
}

func TestRegisterMethodMismatch(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, Group{
		Prefix: "/complaints",
		Routes: []Route{
			{Method: http.MethodPost, Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {}},
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/complaints", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
