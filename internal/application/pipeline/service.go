// Package pipeline runs the deal pipeline: transactions moving through
// stages, their next-step checklists and activity history.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/transaction"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/events"
)

// EventPublisher delivers domain events. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, payload interface{}) error
}

// ActivityInput is a manually logged activity.
type ActivityInput struct {
	Type        transaction.ActivityType `json:"type"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
}

// StageSummary is one row of PipelineSummary.
type StageSummary struct {
	Stage      transaction.Stage `json:"stage"`
	Label      string            `json:"label"`
	Count      int               `json:"count"`
	CapacityMW float64           `json:"capacity_mw"`
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher publishes activity events through p.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is the pipeline application service.
type Service struct {
	deals      transaction.Repository
	activities transaction.ActivityRepository
	publisher  EventPublisher
	logger     logging.Logger
	now        func() time.Time
}

// NewService wires a Service.
func NewService(deals transaction.Repository, activities transaction.ActivityRepository, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		deals:      deals,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Transactions
// ─────────────────────────────────────────────────────────────────────────────

// List returns transactions matching filter. Zero filter fields match all.
func (s *Service) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	if filter.Stage != "" && !filter.Stage.Valid() {
		return nil, errors.Errorf(errors.ErrCodeStageInvalid, "unknown stage %q", filter.Stage)
	}
	if filter.RAG != "" && !filter.RAG.Valid() {
		return nil, errors.Errorf(errors.ErrCodeRAGInvalid, "unknown RAG status %q", filter.RAG)
	}
	txs, err := s.deals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*transaction.Transaction{}
	}
	return txs, nil
}

// Get returns one transaction.
func (s *Service) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("id", "transaction id is required")
	}
	return s.deals.GetByID(ctx, id)
}

// Create stores a new transaction. Stage defaults to identification and RAG
// to green.
func (s *Service) Create(ctx context.Context, t *transaction.Transaction, author common.Identity) (*transaction.Transaction, error) {
	if t == nil {
		return nil, errors.NewValidationError("transaction", "transaction is required")
	}
	tx := *t
	tx.Name = strings.TrimSpace(tx.Name)
	if tx.Stage == "" {
		tx.Stage = transaction.StageIdentification
	}
	if tx.RAG == "" {
		tx.RAG = transaction.RAGGreen
	}
	if strings.TrimSpace(tx.Owner) == "" {
		tx.Owner = author.Name
	}
	tx.NextSteps = cleanSteps(tx.NextSteps)
	if tx.Plants == nil {
		tx.Plants = []transaction.PlantRef{}
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tx.ID = uuid.New().String()
	tx.CreatedAt, tx.UpdatedAt = now, now
	if err := s.deals.Create(ctx, &tx); err != nil {
		return nil, err
	}
	s.logger.Info("transaction created",
		logging.String("transaction_id", tx.ID),
		logging.String("stage", string(tx.Stage)),
		logging.String("author", author.Author()))
	return &tx, nil
}

// Update replaces the editable content of a transaction. A stage change made
// here is recorded the same way as through ChangeStage.
func (s *Service) Update(ctx context.Context, t *transaction.Transaction, author common.Identity) (*transaction.Transaction, error) {
	if t == nil {
		return nil, errors.NewValidationError("transaction", "transaction is required")
	}
	current, err := s.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	tx := *t
	tx.Name = strings.TrimSpace(tx.Name)
	tx.NextSteps = cleanSteps(tx.NextSteps)
	if tx.Plants == nil {
		tx.Plants = []transaction.PlantRef{}
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	tx.CreatedAt = current.CreatedAt
	tx.UpdatedAt = s.now().UTC()
	if err := s.deals.Update(ctx, &tx); err != nil {
		return nil, err
	}

	if tx.Stage != current.Stage {
		if _, err := s.recordStageChange(ctx, &tx, current.Stage, author); err != nil {
			return nil, err
		}
	}
	return &tx, nil
}

// ChangeStage moves a transaction to stage and records a stage_change
// activity. Moving to the current stage is a no-op.
func (s *Service) ChangeStage(ctx context.Context, id string, stage transaction.Stage, author common.Identity) (*transaction.Transaction, error) {
	if !stage.Valid() {
		return nil, errors.Errorf(errors.ErrCodeStageInvalid, "unknown stage %q", stage)
	}
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Stage == stage {
		return tx, nil
	}

	from := tx.Stage
	updated := *tx
	updated.Stage = stage
	updated.UpdatedAt = s.now().UTC()
	if err := s.deals.Update(ctx, &updated); err != nil {
		return nil, err
	}
	if _, err := s.recordStageChange(ctx, &updated, from, author); err != nil {
		return nil, err
	}
	return &updated, nil
}

// StageChangeTitle is the activity title recorded for a stage move.
func StageChangeTitle(from, to transaction.Stage) string {
	return fmt.Sprintf("Stage changed from %s to %s", from.Label(), to.Label())
}

func (s *Service) recordStageChange(ctx context.Context, tx *transaction.Transaction, from transaction.Stage, author common.Identity) (*transaction.Activity, error) {
	a := &transaction.Activity{
		ID:            uuid.New().String(),
		TransactionID: tx.ID,
		Type:          transaction.ActivityStageChange,
		Title:         StageChangeTitle(from, tx.Stage),
		Author:        author.Author(),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.activities.Append(ctx, a); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "stage changed but activity append failed")
	}
	s.logger.Info("transaction stage changed",
		logging.String("transaction_id", tx.ID),
		logging.String("from", string(from)),
		logging.String("to", string(tx.Stage)))
	s.publish(ctx, a)
	return a, nil
}

// SetNextSteps replaces the checklist. Blank items are dropped.
func (s *Service) SetNextSteps(ctx context.Context, id string, steps []transaction.NextStep) (*transaction.Transaction, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *tx
	updated.NextSteps = cleanSteps(steps)
	updated.UpdatedAt = s.now().UTC()
	if err := s.deals.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ToggleNextStep flips the completion flag of the step at index.
func (s *Service) ToggleNextStep(ctx context.Context, id string, index int) (*transaction.Transaction, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(tx.NextSteps) {
		return nil, errors.Errorf(errors.ErrCodeNextStepOutOfRange, "next step %d out of range [0,%d)", index, len(tx.NextSteps))
	}
	updated := *tx
	updated.NextSteps = append([]transaction.NextStep(nil), tx.NextSteps...)
	updated.NextSteps[index].Completed = !updated.NextSteps[index].Completed
	updated.UpdatedAt = s.now().UTC()
	if err := s.deals.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewValidationError("id", "transaction id is required")
	}
	if err := s.deals.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("transaction deleted", logging.String("transaction_id", id))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Activities
// ─────────────────────────────────────────────────────────────────────────────

// LogActivity appends a manual activity. stage_change entries are written
// only by stage moves.
func (s *Service) LogActivity(ctx context.Context, id string, in ActivityInput, author common.Identity) (*transaction.Activity, error) {
	if !in.Type.Valid() || in.Type == transaction.ActivityStageChange {
		return nil, errors.Errorf(errors.ErrCodeActivityInvalid, "activity type %q cannot be logged", in.Type)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.NewValidationError("title", "title is required")
	}
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	a := &transaction.Activity{
		ID:            uuid.New().String(),
		TransactionID: tx.ID,
		Type:          in.Type,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Author:        author.Author(),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.activities.Append(ctx, a); err != nil {
		return nil, err
	}
	s.publish(ctx, a)
	return a, nil
}

// Activities returns the history of a transaction.
func (s *Service) Activities(ctx context.Context, id string) ([]*transaction.Activity, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("id", "transaction id is required")
	}
	list, err := s.activities.ListByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*transaction.Activity{}
	}
	return list, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Views
// ─────────────────────────────────────────────────────────────────────────────

// PipelineSummary counts transactions and their capacity per stage, in
// pipeline order. Empty stages are included.
func (s *Service) PipelineSummary(ctx context.Context) ([]StageSummary, error) {
	txs, err := s.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]StageSummary, len(transaction.Stages))
	for i, st := range transaction.Stages {
		out[i] = StageSummary{Stage: st, Label: st.Label()}
	}
	for _, t := range txs {
		i := t.Stage.Index()
		if i < 0 {
			continue
		}
		out[i].Count++
		out[i].CapacityMW += t.TotalCapacityMW()
	}
	return out, nil
}

// MapNodes groups every transaction's plants into map locations.
func (s *Service) MapNodes(ctx context.Context) ([]transaction.PlantNode, error) {
	txs, err := s.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, err
	}
	return transaction.GroupByPlant(txs), nil
}

func (s *Service) publish(ctx context.Context, a *transaction.Activity) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishEvent(ctx, events.TopicTransactionActivity, a.TransactionID, events.TypeTransactionActivity,
		events.TransactionActivity{
			TransactionID: a.TransactionID,
			ActivityType:  string(a.Type),
			Title:         a.Title,
			Author:        a.Author,
		})
	if err != nil {
		s.logger.Warn("transaction event publish failed",
			logging.String("transaction_id", a.TransactionID),
			logging.Err(err))
	}
}

func cleanSteps(steps []transaction.NextStep) []transaction.NextStep {
	out := make([]transaction.NextStep, 0, len(steps))
	for _, st := range steps {
		text := strings.TrimSpace(st.Text)
		if text == "" {
			continue
		}
		out = append(out, transaction.NextStep{Text: text, Completed: st.Completed})
	}
	return out
}

//Personal.AI order the ending
