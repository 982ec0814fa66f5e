// Package http assembles the atlas HTTP API: the chi route tree and the
// server that runs it.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/internal/interfaces/http/handlers"
	"github.com/turtacn/CoalTransition-Atlas/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree. Nil handlers leave their routes unmounted.
type RouterConfig struct {
	// Handlers
	HealthHandler      *handlers.HealthHandler
	AuthHandler        *handlers.AuthHandler
	ExplorerHandler    *handlers.ExplorerHandler
	MapHandler         *handlers.MapHandler
	ProjectHandler     *handlers.ProjectHandler
	TransactionHandler *handlers.TransactionHandler
	ImpactHandler      *handlers.ImpactHandler
	ExportHandler      *handlers.ExportHandler

	// Middleware
	TokenVerifier middleware.TokenVerifier
	Recorder      middleware.HTTPRecorder
	CORSOrigins   []string
	MaxBodySize   int64

	// Infrastructure
	Logger         logging.Logger
	MetricsPath    string
	MetricsHandler http.Handler
}

// NewRouter constructs the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(logger.Named("http"), cfg.Recorder, middleware.DefaultAccessLogConfig()))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(middleware.CORSConfigFor(cfg.CORSOrigins)))
	if cfg.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(cfg.MaxBodySize))
	}

	// Probes and scrape
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.TokenVerifier != nil {
			api.Use(middleware.Identity(cfg.TokenVerifier, logger.Named("auth")))
		}

		registerAuthRoutes(api, cfg.AuthHandler)
		registerExplorerRoutes(api, cfg.ExplorerHandler)
		registerMapRoutes(api, cfg.MapHandler)
		registerProjectRoutes(api, cfg.ProjectHandler)
		registerTransactionRoutes(api, cfg.TransactionHandler)
		registerImpactRoutes(api, cfg.ImpactHandler)
		registerExportRoutes(api, cfg.ExportHandler)
	})

	return r
}

// registerAuthRoutes mounts /auth.
func registerAuthRoutes(r chi.Router, h *handlers.AuthHandler) {
	if h == nil {
		return
	}
	h.RegisterRoutes(r)
}

// registerExplorerRoutes mounts /plants, /stats and /catalog.
func registerExplorerRoutes(r chi.Router, h *handlers.ExplorerHandler) {
	if h == nil {
		return
	}
	h.RegisterRoutes(r)
}

// registerMapRoutes mounts /map.
func registerMapRoutes(r chi.Router, h *handlers.MapHandler) {
	if h == nil {
		return
	}
	h.RegisterRoutes(r)
}

// registerProjectRoutes mounts /projects and /changes.
func registerProjectRoutes(r chi.Router, h *handlers.ProjectHandler) {
	if h == nil {
		return
	}
	h.RegisterRoutes(r)
}

// registerTransactionRoutes mounts /transactions and /pipeline.
func registerTransactionRoutes(r chi.Router, h *handlers.TransactionHandler) {
	if h == nil {
		return
	}
	h.RegisterRoutes(r)
}

// registerImpactRoutes mounts /impact.
func registerImpactRoutes(r chi.Router, h *handlers.ImpactHandler) {
	if h == nil {
		return
	}
	h.RegisterRoutes(r)
}

// registerExportRoutes mounts /exports.
func registerExportRoutes(r chi.Router, h *handlers.ExportHandler) {
	if h == nil {
		return
	}
	h.RegisterRoutes(r)
}

//Personal.AI order the ending
