package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/middleware"
	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
	"github.com/Consent-Management-Platform/consent-management-api/pkg/platform/httputil"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig collects what NewRouter mounts.
type RouterConfig struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Probes are mounted without the request timeout.
	Probes []Registrar
	// APIs are mounted behind the full middleware stack.
	APIs []Registrar
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))

	for _, p := range cfg.Probes {
		p.Register(r)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		r.Use(middleware.ContentTypeJSON)
		for _, api := range cfg.APIs {
			api.Register(r)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	return r
}
