package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/fundacion-saciar/saciar-api/internal/auth"
	"github.com/fundacion-saciar/saciar-api/internal/benefactors"
	"github.com/fundacion-saciar/saciar-api/internal/fleet"
	"github.com/fundacion-saciar/saciar-api/internal/inventory"
	"github.com/fundacion-saciar/saciar-api/internal/observability"
	"github.com/fundacion-saciar/saciar-api/internal/volunteers"
	"github.com/fundacion-saciar/saciar-api/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthHandler        *auth.Handler
	AuthMiddleware     auth.Middleware
	VolunteersHandler  *volunteers.Handler
	BenefactorsHandler *benefactors.Handler
	FleetHandler       *fleet.Handler
	InventoryHandler   *inventory.Handler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			limit := 10
			if params.Config != nil && params.Config.AuthRateLimit > 0 {
				limit = params.Config.AuthRateLimit
			}
			r.Use(httprate.LimitByIP(limit, time.Minute))
			r.Route("/auth", params.AuthHandler.MountRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAuth)
			r.Route("/voluntarios", params.VolunteersHandler.MountRoutes)
			r.Route("/benefactores", params.BenefactorsHandler.MountRoutes)
			r.Route("/transporte", params.FleetHandler.MountRoutes)
			r.Route("/inventario", params.InventoryHandler.MountRoutes)
			if params.JobsHandler != nil {
				params.JobsHandler.MountRoutes(r)
			}
		})
	})

	return r
}
