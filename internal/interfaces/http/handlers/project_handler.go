package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/project"
	domain "github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// ProjectHandler serves the project editor.
type ProjectHandler struct {
	svc    project.Service
	logger logging.Logger
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(svc project.Service, logger logging.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, logger: logger}
}

// UpdateFieldRequest is the body of PATCH /projects/{id}/fields/{column}.
type UpdateFieldRequest struct {
	Value string `json:"value"`
	Note  string `json:"note,omitempty"`
}

// NoteRequest is the body of POST /projects/{id}/notes.
type NoteRequest struct {
	Note string `json:"note"`
}

// RegisterRoutes mounts the project routes.
func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/fields", h.Fields)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/fields/{column}", h.UpdateField)
		r.Post("/{id}/notes", h.AddNote)
		r.Get("/{id}/changes", h.ChangeLog)
	})
	r.Get("/changes/recent", h.RecentChanges)
}

// List handles GET /projects?country=&status=&search=&page=&page_size=.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r, project.DefaultPageSize, project.MaxPageSize)
	q := r.URL.Query()
	res, err := h.svc.List(r.Context(), project.ListInput{
		Country:  q.Get("country"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, common.NewPaginatedResponse(res.Projects, res.Pagination))
}

// Get handles GET /projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in project.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	rec, err := h.svc.Create(r.Context(), in, authorFrom(r))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, rec)
}

// Fields handles GET /projects/fields, the editable columns in form order.
func (h *ProjectHandler) Fields(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, domain.EditableFields)
}

// UpdateField handles PATCH /projects/{id}/fields/{column}.
func (h *ProjectHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req UpdateFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	res, err := h.svc.UpdateField(r.Context(), project.UpdateFieldInput{
		ProjectID: chi.URLParam(r, "id"),
		Column:    chi.URLParam(r, "column"),
		Value:     req.Value,
		Note:      req.Note,
	}, authorFrom(r))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// AddNote handles POST /projects/{id}/notes.
func (h *ProjectHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	entry, err := h.svc.AddNote(r.Context(), chi.URLParam(r, "id"), req.Note, authorFrom(r))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, entry)
}

// ChangeLog handles GET /projects/{id}/changes, newest first.
func (h *ProjectHandler) ChangeLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ChangeLog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

// RecentChanges handles GET /changes/recent?limit=.
func (h *ProjectHandler) RecentChanges(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", project.DefaultRecentLimit)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	entries, err := h.svc.RecentChanges(r.Context(), limit)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

//Personal.AI order the ending
