package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bahikhata-erp/bahikhata/internal/auth"
	"github.com/bahikhata-erp/bahikhata/internal/ledgerapi"
	"github.com/bahikhata-erp/bahikhata/internal/observability"
	"github.com/bahikhata-erp/bahikhata/internal/report"
	"github.com/bahikhata-erp/bahikhata/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	AuthHandler   *auth.Handler
	LedgerHandler *ledgerapi.Handler
	ReportHandler *report.Handler
	JobHandler    *jobs.Handler
	Metrics       *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthHandler.Middleware)
		r.Route("/api/v1", params.LedgerHandler.MountRoutes)
		r.Route("/api/v1/reports", params.ReportHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/api/v1/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
