package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/mapview"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
)

// MapService builds map nodes and rendered scenes.
type MapService interface {
	Nodes(ctx context.Context, opts explorer.FilterOptions) (*mapview.NodeSet, error)
	Render(ctx context.Context, req mapview.RenderRequest) (*mapview.SceneSnapshot, error)
}

// MapHandler serves the map layers and the radial layout.
type MapHandler struct {
	svc    MapService
	logger logging.Logger
}

// NewMapHandler creates a MapHandler.
func NewMapHandler(svc MapService, logger logging.Logger) *MapHandler {
	return &MapHandler{svc: svc, logger: logger}
}

// LayoutRequest is the body of POST /map/layout.
type LayoutRequest struct {
	Parent mapview.ScreenPoint `json:"parent"`
	Count  int                 `json:"count"`
}

// RegisterRoutes mounts the map routes.
func (h *MapHandler) RegisterRoutes(r chi.Router) {
	r.Get("/map/nodes", h.Nodes)
	r.Post("/map/layout", h.Layout)
	r.Post("/map/render", h.Render)
}

// Nodes handles GET /map/nodes; it accepts the plant filters.
func (h *MapHandler) Nodes(w http.ResponseWriter, r *http.Request) {
	opts, err := ParseFilter(r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	set, err := h.svc.Nodes(r.Context(), opts)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, set)
}

// Layout handles POST /map/layout. It is pure geometry and needs no data.
func (h *MapHandler) Layout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	res, err := mapview.ChildLayout(req.Parent, req.Count)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// Render handles POST /map/render.
func (h *MapHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req mapview.RenderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	snap, err := h.svc.Render(r.Context(), req)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, snap)
}

//Personal.AI order the ending
