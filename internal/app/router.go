package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lunaria-crm/lunaria/internal/activities"
	"github.com/lunaria-crm/lunaria/internal/auth"
	"github.com/lunaria-crm/lunaria/internal/catalog"
	"github.com/lunaria-crm/lunaria/internal/customers"
	"github.com/lunaria-crm/lunaria/internal/leads"
	"github.com/lunaria-crm/lunaria/internal/observability"
	"github.com/lunaria-crm/lunaria/internal/orders"
	"github.com/lunaria-crm/lunaria/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Authenticator     *auth.Authenticator
	LeadsHandler      *leads.Handler
	CustomersHandler  *customers.Handler
	OrdersHandler     *orders.Handler
	CatalogHandler    *catalog.Handler
	ActivitiesHandler *activities.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router. Health and metrics endpoints are open;
// everything under /api requires a valid API key unless auth is disabled.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if params.Authenticator != nil && (params.Config == nil || !params.Config.AuthDisabled) {
			r.Use(params.Authenticator.Middleware)
		}

		leads.Routes(r, params.LeadsHandler)
		customers.Routes(r, params.CustomersHandler)
		orders.Routes(r, params.OrdersHandler)
		catalog.Routes(r, params.CatalogHandler)
		activities.Routes(r, params.ActivitiesHandler)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
