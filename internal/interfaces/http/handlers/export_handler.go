package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/storage/minio"
)

// ExportLinker presigns the latest statistics snapshot.
type ExportLinker interface {
	LatestLink(ctx context.Context) (*minio.ExportLink, error)
}

// ExportHandler serves snapshot download links.
type ExportHandler struct {
	exports ExportLinker
	logger  logging.Logger
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exports ExportLinker, logger logging.Logger) *ExportHandler {
	return &ExportHandler{exports: exports, logger: logger}
}

// RegisterRoutes mounts /exports/latest.
func (h *ExportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/exports/latest", h.Latest)
}

// Latest handles GET /exports/latest. With ?redirect=true it answers 302 to
// the presigned URL instead of returning it.
func (h *ExportHandler) Latest(w http.ResponseWriter, r *http.Request) {
	link, err := h.exports.LatestLink(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if r.URL.Query().Get("redirect") == "true" {
		http.Redirect(w, r, link.URL, http.StatusFound)
		return
	}
	writeData(w, http.StatusOK, link)
}

//Personal.AI order the ending
