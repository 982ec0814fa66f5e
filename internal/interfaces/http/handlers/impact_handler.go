package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/impact"
	domain "github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
)

// ImpactService serves impact results and projections.
type ImpactService interface {
	Totals(ctx context.Context) ([]domain.Result, error)
	Annual(ctx context.Context, plantName string) ([]domain.Result, error)
	Project(ctx context.Context, req impact.ProjectionRequest) (*impact.Projection, error)
}

// ImpactHandler serves /impact.
type ImpactHandler struct {
	svc    ImpactService
	logger logging.Logger
}

// NewImpactHandler creates an ImpactHandler.
func NewImpactHandler(svc ImpactService, logger logging.Logger) *ImpactHandler {
	return &ImpactHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the impact routes.
func (h *ImpactHandler) RegisterRoutes(r chi.Router) {
	r.Get("/impact/totals", h.Totals)
	r.Get("/impact/annual", h.Annual)
	r.Post("/impact/projection", h.Projection)
}

// Totals handles GET /impact/totals.
func (h *ImpactHandler) Totals(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Totals(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, rows)
}

// Annual handles GET /impact/annual?plant=.
func (h *ImpactHandler) Annual(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Annual(r.Context(), r.URL.Query().Get("plant"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, rows)
}

// Projection handles POST /impact/projection.
func (h *ImpactHandler) Projection(w http.ResponseWriter, r *http.Request) {
	var req impact.ProjectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	p, err := h.svc.Project(r.Context(), req)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

//Personal.AI order the ending
