package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/topk/pkg/web"
)

func TestRouter(t *testing.T) {
	notFound := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "not found page")
	}

	newRouter := func(fallback http.HandlerFunc) *web.Router {
		r := web.NewRouter()
		r.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "page")
		})
		r.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "asset")
		}))
		if fallback != nil {
			r.SetFallback(fallback)
		}
		return r
	}

	tests := []struct {
		name       string
		fallback   http.HandlerFunc
		path       string
		wantStatus int
		wantBody   string
	}{
		{"func route", notFound, "/", http.StatusOK, "page"},
		{"handler route", notFound, "/static/app.js", http.StatusOK, "asset"},
		{"fallback", notFound, "/missing", http.StatusNotFound, "not found page"},
		{"mux default", nil, "/missing", http.StatusNotFound, "404 page not found\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(tt.fallback).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if body := rec.Body.String(); body != tt.wantBody {
				t.Errorf("body: got %q, want %q", body, tt.wantBody)
			}
		})
	}
}
