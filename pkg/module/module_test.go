package module

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestModuleStripsPrefix(t *testing.T) {
	var gotPath string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	m := New("/api", inner)

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/abc", nil)
	rec := httptest.NewRecorder()
	m.Serve(rec, req)

	if gotPath != "/complaints/abc" {
		t.Errorf("inner path: got %q", gotPath)
	}
	if req.URL.Path != "/api/complaints/abc" {
		t.Errorf("original request mutated: %q", req.URL.Path)
	}
}

func TestModuleRootPath(t *testing.T) {
	var gotPath string
	m := New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))

	m.Serve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api", nil))

	if gotPath != "/" {
		t.Errorf("root path: got %q", gotPath)
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	var order []string
	record := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	m := New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	m.Use(record("first"))
	m.Use(record("second"))

	m.Serve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/x", nil))

	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("call order: got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("call order: got %v, expected %v", order, want)
		}
	}
}

func TestNewPanicsOnInvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for prefix %q", prefix)
				}
			}()
			New(prefix, http.NewServeMux())
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	var hit string
	router := NewRouter()
	router.Mount(New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = "api"
	})))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		hit = "healthz"
	})

	tests := []struct {
		path string
		want string
	}{
		{"/api/complaints", "api"},
		{"/api/", "api"},
		{"/healthz", "healthz"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			hit = ""
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
			if hit != tc.want {
				t.Errorf("got %q, expected %q", hit, tc.want)
			}
		})
	}
}
