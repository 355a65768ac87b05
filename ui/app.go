// Package ui exposes the comparison service over a JSON HTTP API.
package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gobayes/app"
	"gobayes/internal"
	"gobayes/internal/config"
	"gobayes/ports"
)

// App represents the HTTP application
type App struct {
	router  *chi.Mux
	service *app.ComparisonService
	repo    ports.ExperimentRepository // nil when persistence is disabled
	cfg     *config.Config
	logger  *internal.Logger
}

// NewApp creates the HTTP application around a wired comparison service.
func NewApp(service *app.ComparisonService, repo ports.ExperimentRepository, cfg *config.Config, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		repo:    repo,
		cfg:     cfg,
		logger:  logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Timeout(60 * time.Second))
}

func (a *App) setupRoutes() {
	a.router.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/strategies", a.handleStrategies)
		r.Post("/compare", a.handleCompare)
		r.Post("/interval", a.handleInterval)
		r.Post("/interval/batch", a.handleBatch)
		r.Post("/report", a.handleReport)

		r.Post("/experiments", a.handleCreateExperiment)
		r.Get("/experiments", a.handleListExperiments)
		r.Get("/experiments/{id}", a.handleGetExperiment)
		r.Get("/experiments/{id}/comparisons", a.handleListComparisons)
	})
}

// Router returns the configured handler for serving or testing.
func (a *App) Router() http.Handler {
	return a.router
}

// Serve starts the HTTP server on the configured port.
func (a *App) Serve() error {
	addr := ":" + a.cfg.Server.Port
	a.logger.Info("listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
