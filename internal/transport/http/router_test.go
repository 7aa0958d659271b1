package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/middleware"
)

type registrarFunc func(r chi.Router)

func (f registrarFunc) Register(r chi.Router) { f(r) }

func newTestRouter() http.Handler {
	api := registrarFunc(func(r chi.Router) {
		r.Post("/v1/echo", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Seen-Request-ID", middleware.GetRequestID(r.Context()))
			w.WriteHeader(http.StatusOK)
		})
		r.Get("/v1/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
	})
	probe := registrarFunc(func(r chi.Router) {
		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	return NewRouter(RouterConfig{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		RequestTimeout: time.Second,
		Metrics:        metrics,
		Probes:         []Registrar{probe},
		APIs:           []Registrar{api},
	})
}

func TestNewRouter(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		wantStatus  int
	}{
		{"api route", http.MethodPost, "/v1/echo", "application/json", http.StatusOK},
		{"api rejects non-json", http.MethodPost, "/v1/echo", "text/plain", http.StatusUnsupportedMediaType},
		{"panic is recovered", http.MethodGet, "/v1/panic", "", http.StatusInternalServerError},
		{"probe", http.MethodGet, "/health/live", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNewRouter_RequestIDReachesHandlers(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/echo", strings.NewReader("{}"))
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()

	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Seen-Request-ID"))
}
