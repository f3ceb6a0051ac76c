package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/spendings-dashboard/internal/handlers"
	"github.com/GregMSThompson/spendings-dashboard/internal/middleware"
)

type Options struct {
	AllowedOrigins []string
	// Location is the zone used when a request does not send its own.
	Location *time.Location
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	sm := middleware.NewSessionMiddleware(deps.Sessions, deps.ResponseHandler)

	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.Timezone(opts.Location))

	hh := handlers.NewHealthHandlers(deps)
	seh := handlers.NewSessionHandlers(deps)
	sph := handlers.NewSpendingHandlers(deps)
	dah := handlers.NewDashboardHandlers(deps)
	ash := handlers.NewAssistantHandlers(deps)
	sch := handlers.NewScanHandlers(deps)

	r.Get("/health", hh.Health)
	r.Mount("/session", seh.SessionRoutes(sm.RequireSession))

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSession)
		r.Mount("/spendings", sph.SpendingRoutes())
		r.Mount("/dashboard", dah.DashboardRoutes())
		r.Mount("/assistant", ash.AssistantRoutes())
		r.Post("/scan", sch.Scan)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		deps.ResponseHandler.WriteError(w, req, http.StatusNotFound, "not_found", "route not found")
	})
	return r
}
