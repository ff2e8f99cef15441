package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/topk/pkg/module"
)

// echoPath writes the path the inner router saw.
func echoPath(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, r.URL.Path)
}

func TestNewPrefixValidation(t *testing.T) {
	tests := []struct {
		prefix    string
		wantPanic bool
	}{
		{"/app", false},
		{"/classify", false},
		{"", true},
		{"app", true},
		{"/app/v2", true},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			defer func() {
				if r := recover(); (r != nil) != tt.wantPanic {
					t.Errorf("panic: got %v, want %v", r != nil, tt.wantPanic)
				}
			}()

			m := module.New(tt.prefix, http.NewServeMux())
			if m.Prefix() != tt.prefix {
				t.Errorf("prefix: got %s, want %s", m.Prefix(), tt.prefix)
			}
		})
	}
}

func TestServeStripsPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", echoPath)
	mux.HandleFunc("GET /preview/{key}", echoPath)

	m := module.New("/app", mux)

	tests := []struct {
		path string
		want string
	}{
		{"/app", "/"},
		{"/app/preview/abc", "/preview/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.Serve(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if body := rec.Body.String(); body != tt.want {
				t.Errorf("inner path: got %s, want %s", body, tt.want)
			}
		})
	}
}

func TestModuleMiddlewareWrapsRouter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /select", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	})

	m := module.New("/app", mux)

	var seen int
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen++
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodPost, "/app/select", nil))

	if seen != 1 {
		t.Errorf("middleware calls: got %d, want 1", seen)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want 303", rec.Code)
	}
}

func TestRouter(t *testing.T) {
	page := http.NewServeMux()
	page.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "page")
	})
	page.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "state")
	})

	router := module.NewRouter()
	router.Mount(module.New("/app", page))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"module root", "/app/", http.StatusOK, "page"},
		{"module route", "/app/state", http.StatusOK, "state"},
		{"trailing slash", "/app/state/", http.StatusOK, "state"},
		{"native", "/healthz", http.StatusOK, "ok"},
		{"unmatched", "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body: got %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouterRedirectKeepsQuery(t *testing.T) {
	router := module.NewRouter()
	router.Redirect("GET /{$}", "/app/", http.StatusFound)

	tests := []struct {
		target string
		want   string
	}{
		{"/", "/app/"},
		{"/?api=http://example.test", "/app/?api=http://example.test"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != http.StatusFound {
				t.Fatalf("status: got %d, want 302", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("location: got %q, want %q", loc, tt.want)
			}
		})
	}
}
