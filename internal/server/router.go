package server

import (
	"net/http"

	"github.com/cloo-solutions/tryonadmin/internal/api"
	"github.com/cloo-solutions/tryonadmin/internal/api/handlers"
	"github.com/cloo-solutions/tryonadmin/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	Logger          logrus.FieldLogger
	RequestCounter  middleware.RequestCounter
	MetricsHandler  http.Handler
	RefreshLimiter  *rate.Limiter
	BusinessHandler *handlers.BusinessHandler
	LogHandler      *handlers.LogHandler
	SidebarHandler  *handlers.SidebarHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 << 20

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(logger, cfg.RequestCounter))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/businesses", func(r chi.Router) {
		r.Get("/", cfg.BusinessHandler.List)
		r.Post("/", cfg.BusinessHandler.Create)
	})

	r.Route("/logs", func(r chi.Router) {
		r.Get("/", cfg.LogHandler.List)
		r.Get("/status", cfg.LogHandler.Status)
		r.Post("/clear", cfg.LogHandler.Clear)
		r.With(middleware.RateLimit(cfg.RefreshLimiter)).Post("/refresh", cfg.LogHandler.Refresh)
		r.Put("/sort", cfg.LogHandler.SetSort)

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", cfg.LogHandler.GetFilters)
			r.Delete("/", cfg.LogHandler.ClearFilters)
			r.Put("/{field}", cfg.LogHandler.SetFilter)
			r.Delete("/{field}", cfg.LogHandler.UnsetFilter)
		})
	})

	r.Route("/sidebar", func(r chi.Router) {
		r.Get("/", cfg.SidebarHandler.Get)
		r.Post("/toggle-open", cfg.SidebarHandler.ToggleOpen)
		r.Post("/toggle-collapse", cfg.SidebarHandler.ToggleCollapse)
		r.Put("/viewport", cfg.SidebarHandler.SetViewport)
	})

	return r
}
