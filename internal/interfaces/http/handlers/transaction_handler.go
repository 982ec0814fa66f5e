package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/pipeline"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/transaction"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// PipelineService is the deal pipeline. *pipeline.Service satisfies it.
type PipelineService interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Get(ctx context.Context, id string) (*transaction.Transaction, error)
	Create(ctx context.Context, t *transaction.Transaction, author common.Identity) (*transaction.Transaction, error)
	Update(ctx context.Context, t *transaction.Transaction, author common.Identity) (*transaction.Transaction, error)
	ChangeStage(ctx context.Context, id string, stage transaction.Stage, author common.Identity) (*transaction.Transaction, error)
	SetNextSteps(ctx context.Context, id string, steps []transaction.NextStep) (*transaction.Transaction, error)
	ToggleNextStep(ctx context.Context, id string, index int) (*transaction.Transaction, error)
	Delete(ctx context.Context, id string) error
	LogActivity(ctx context.Context, id string, in pipeline.ActivityInput, author common.Identity) (*transaction.Activity, error)
	Activities(ctx context.Context, id string) ([]*transaction.Activity, error)
	PipelineSummary(ctx context.Context) ([]pipeline.StageSummary, error)
	MapNodes(ctx context.Context) ([]transaction.PlantNode, error)
}

// TransactionHandler serves the deal pipeline.
type TransactionHandler struct {
	svc    PipelineService
	logger logging.Logger
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(svc PipelineService, logger logging.Logger) *TransactionHandler {
	return &TransactionHandler{svc: svc, logger: logger}
}

// StageRequest is the body of POST /transactions/{id}/stage.
type StageRequest struct {
	Stage transaction.Stage `json:"stage"`
}

// NextStepsRequest is the body of PUT /transactions/{id}/next-steps.
type NextStepsRequest struct {
	NextSteps []transaction.NextStep `json:"next_steps"`
}

// RegisterRoutes mounts the pipeline routes.
func (h *TransactionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/map-nodes", h.MapNodes)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/stage", h.ChangeStage)
		r.Put("/{id}/next-steps", h.SetNextSteps)
		r.Post("/{id}/next-steps/{index}/toggle", h.ToggleNextStep)
		r.Get("/{id}/activities", h.Activities)
		r.Post("/{id}/activities", h.LogActivity)
	})
	r.Get("/pipeline/summary", h.Summary)
}

// List handles GET /transactions?stage=&rag=.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{
		Stage: transaction.Stage(r.URL.Query().Get("stage")),
		RAG:   transaction.RAGStatus(r.URL.Query().Get("rag")),
	}
	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, txs)
}

// Get handles GET /transactions/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, tx)
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var tx transaction.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	created, err := h.svc.Create(r.Context(), &tx, authorFrom(r))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// Update handles PUT /transactions/{id}. The path id wins over the body.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var tx transaction.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	tx.ID = chi.URLParam(r, "id")
	updated, err := h.svc.Update(r.Context(), &tx, authorFrom(r))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

// Delete handles DELETE /transactions/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeStage handles POST /transactions/{id}/stage.
func (h *TransactionHandler) ChangeStage(w http.ResponseWriter, r *http.Request) {
	var req StageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	tx, err := h.svc.ChangeStage(r.Context(), chi.URLParam(r, "id"), req.Stage, authorFrom(r))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, tx)
}

// SetNextSteps handles PUT /transactions/{id}/next-steps.
func (h *TransactionHandler) SetNextSteps(w http.ResponseWriter, r *http.Request) {
	var req NextStepsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	tx, err := h.svc.SetNextSteps(r.Context(), chi.URLParam(r, "id"), req.NextSteps)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, tx)
}

// ToggleNextStep handles POST /transactions/{id}/next-steps/{index}/toggle.
func (h *TransactionHandler) ToggleNextStep(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeAppError(w, h.logger, errors.New(errors.ErrCodeNextStepOutOfRange, "next step index must be an integer"))
		return
	}
	tx, err := h.svc.ToggleNextStep(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, tx)
}

// Activities handles GET /transactions/{id}/activities, newest first.
func (h *TransactionHandler) Activities(w http.ResponseWriter, r *http.Request) {
	acts, err := h.svc.Activities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, acts)
}

// LogActivity handles POST /transactions/{id}/activities.
func (h *TransactionHandler) LogActivity(w http.ResponseWriter, r *http.Request) {
	var in pipeline.ActivityInput
	if err := decodeJSON(r, &in); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	act, err := h.svc.LogActivity(r.Context(), chi.URLParam(r, "id"), in, authorFrom(r))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, act)
}

// Summary handles GET /pipeline/summary.
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.PipelineSummary(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, rows)
}

// MapNodes handles GET /transactions/map-nodes.
func (h *TransactionHandler) MapNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.svc.MapNodes(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, nodes)
}

//Personal.AI order the ending
