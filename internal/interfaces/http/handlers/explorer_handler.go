package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/events"
)

// ExplorerService is the read side of the plant catalog.
type ExplorerService interface {
	Plants(ctx context.Context, opts explorer.FilterOptions) (*explorer.PlantsResult, error)
	Plant(ctx context.Context, key string) (*plant.Plant, error)
	Search(ctx context.Context, text string, limit int) ([]plant.PlantUnit, error)
	Summary(ctx context.Context, opts explorer.FilterOptions) (*explorer.Summary, error)
	Countries(ctx context.Context) ([]explorer.CountryStats, error)
	TopPlants(ctx context.Context, opts explorer.TopNOptions) ([]explorer.PlantRanking, error)
	Facets(ctx context.Context) (*explorer.Facets, error)
	Issues(ctx context.Context) (explorer.RowIssues, error)
	Refresh(ctx context.Context) error
}

// EventPublisher announces catalog refreshes to the worker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, payload interface{}) error
}

// ExplorerHandler serves plants, search and statistics.
type ExplorerHandler struct {
	svc       ExplorerService
	publisher EventPublisher
	logger    logging.Logger
}

// NewExplorerHandler creates an ExplorerHandler. publisher may be nil.
func NewExplorerHandler(svc ExplorerService, publisher EventPublisher, logger logging.Logger) *ExplorerHandler {
	return &ExplorerHandler{svc: svc, publisher: publisher, logger: logger}
}

// RegisterRoutes mounts the explorer routes.
func (h *ExplorerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/plants", h.ListPlants)
	r.Get("/plants/search", h.Search)
	r.Get("/plants/facets", h.Facets)
	r.Get("/plants/issues", h.Issues)
	r.Get("/plants/{key}", h.GetPlant)
	r.Get("/stats/summary", h.Summary)
	r.Get("/stats/countries", h.Countries)
	r.Get("/stats/top", h.Top)
	r.Post("/catalog/refresh", h.Refresh)
}

// ParseFilter reads FilterOptions from query parameters. country, tech,
// coal_type and subregion are repeatable or comma separated.
func ParseFilter(r *http.Request) (explorer.FilterOptions, error) {
	var (
		opts explorer.FilterOptions
		err  error
	)
	if opts.CapacityMin, err = queryFloat(r, "capacity_min"); err != nil {
		return opts, err
	}
	if opts.CapacityMax, err = queryFloat(r, "capacity_max"); err != nil {
		return opts, err
	}
	if opts.MaxRemainingLifetime, err = queryFloat(r, "max_lifetime"); err != nil {
		return opts, err
	}
	opts.Countries = queryList(r, "country")
	opts.CombustionTech = queryList(r, "tech")
	opts.CoalTypes = queryList(r, "coal_type")
	opts.Subregions = queryList(r, "subregion")
	if opts.Captive, err = explorer.ParseCaptiveMode(r.URL.Query().Get("captive")); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

// ListPlants handles GET /plants.
func (h *ExplorerHandler) ListPlants(w http.ResponseWriter, r *http.Request) {
	opts, err := ParseFilter(r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	res, err := h.svc.Plants(r.Context(), opts)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// GetPlant handles GET /plants/{key}.
func (h *ExplorerHandler) GetPlant(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Plant(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// Search handles GET /plants/search?q=&limit=.
func (h *ExplorerHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", explorer.DefaultSearchLimit)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	units, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, units)
}

// Facets handles GET /plants/facets.
func (h *ExplorerHandler) Facets(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Facets(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, f)
}

// Issues handles GET /plants/issues.
func (h *ExplorerHandler) Issues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.svc.Issues(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, issues)
}

// Summary handles GET /stats/summary; it accepts the plant filters.
func (h *ExplorerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	opts, err := ParseFilter(r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	s, err := h.svc.Summary(r.Context(), opts)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, s)
}

// Countries handles GET /stats/countries.
func (h *ExplorerHandler) Countries(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Countries(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, rows)
}

// Top handles GET /stats/top?metric=&order=asc|desc&limit=.
func (h *ExplorerHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	opts := explorer.TopNOptions{Limit: limit}

	if raw := r.URL.Query().Get("metric"); raw != "" {
		m, ok := impact.ParseMetric(raw)
		if !ok {
			writeAppError(w, h.logger, errors.Errorf(errors.ErrCodeMetricUnsupported, "unsupported metric %q", raw))
			return
		}
		opts.Metric = m
	}

	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("order"))) {
	case "", "desc":
	case "asc":
		opts.Ascending = true
	default:
		writeAppError(w, h.logger, errors.NewValidationError("order", "order must be asc or desc"))
		return
	}

	rows, err := h.svc.TopPlants(r.Context(), opts)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, rows)
}

// RefreshResponse acknowledges a catalog refresh.
type RefreshResponse struct {
	Refreshed bool `json:"refreshed"`
	Announced bool `json:"announced"`
}

// Refresh handles POST /catalog/refresh. The local snapshot is reloaded
// synchronously; the worker is told through the catalog.refresh topic.
func (h *ExplorerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Refresh(r.Context()); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	resp := RefreshResponse{Refreshed: true}
	if h.publisher != nil {
		payload := events.CatalogRefresh{Reason: "requested by " + authorFrom(r).Author()}
		if err := h.publisher.PublishEvent(r.Context(), events.TopicCatalogRefresh, "catalog", events.TypeCatalogRefresh, payload); err != nil {
			h.logger.Warn("catalog refresh not announced", logging.Err(err))
		} else {
			resp.Announced = true
		}
	}
	writeData(w, http.StatusOK, resp)
}

//Personal.AI order the ending
