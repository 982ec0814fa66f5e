// Package project is the application service behind the project editor:
// listing, creating and editing curated transition projects, with every
// write recorded in the append-only change log.
package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	domain "github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/events"
)

const (
	DefaultPageSize    = 50
	MaxPageSize        = 500
	DefaultRecentLimit = 20
	MaxRecentLimit     = 200
)

// EventPublisher delivers domain events. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, payload interface{}) error
}

// CatalogRefresher reloads in-memory table snapshots. *catalog.Loader
// satisfies it.
type CatalogRefresher interface {
	RefreshAll(ctx context.Context, tables ...string) error
	Invalidate(ctx context.Context, tables ...string) error
}

// ─────────────────────────────────────────────────────────────────────────────
// DTOs
// ─────────────────────────────────────────────────────────────────────────────

// ListInput selects a page of projects.
type ListInput struct {
	Country  string `json:"country,omitempty"`
	Status   string `json:"status,omitempty"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// ListResult is one page of projects.
type ListResult struct {
	Projects   []*domain.Record  `json:"projects"`
	Pagination common.Pagination `json:"pagination"`
}

// CreateInput carries the fields of a new project. Editable fields may be
// set here too; they are not change-logged individually.
type CreateInput struct {
	PlantName  string   `json:"plant_name"`
	UnitName   string   `json:"unit_name,omitempty"`
	CapacityMW float64  `json:"capacity_mw"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	Status                string `json:"status,omitempty"`
	PlannedRetirementYear *int   `json:"planned_retirement_year,omitempty"`
	TransitionType        string `json:"transition_type,omitempty"`
	FinancialMechanism    string `json:"financial_mechanism,omitempty"`
	Funders               string `json:"funders,omitempty"`
	Narrative             string `json:"narrative,omitempty"`
}

// Validate checks required fields and coordinate ranges.
func (in *CreateInput) Validate() error {
	if strings.TrimSpace(in.PlantName) == "" {
		return errors.NewValidationError("plant_name", "plant name is required")
	}
	if in.CapacityMW < 0 {
		return errors.NewValidationError("capacity_mw", "capacity must not be negative")
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return errors.NewValidationError("latitude", "latitude and longitude must be set together")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return errors.NewValidationError("latitude", "latitude outside [-90,90]")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return errors.NewValidationError("longitude", "longitude outside [-180,180]")
	}
	return nil
}

// UpdateFieldInput edits one column of one project.
type UpdateFieldInput struct {
	ProjectID string `json:"project_id"`
	Column    string `json:"column"`
	Value     string `json:"value"`
	Note      string `json:"note,omitempty"`
}

// UpdateResult reports the outcome of UpdateField. Entry is nil when the
// value was unchanged.
type UpdateResult struct {
	Project *domain.Record         `json:"project"`
	Entry   *domain.ChangeLogEntry `json:"entry,omitempty"`
	Changed bool                   `json:"changed"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Service
// ─────────────────────────────────────────────────────────────────────────────

// Service is the project editor.
type Service interface {
	List(ctx context.Context, in ListInput) (*ListResult, error)
	Get(ctx context.Context, id string) (*domain.Record, error)
	Create(ctx context.Context, in CreateInput, author common.Identity) (*domain.Record, error)
	UpdateField(ctx context.Context, in UpdateFieldInput, author common.Identity) (*UpdateResult, error)
	AddNote(ctx context.Context, projectID, note string, author common.Identity) (*domain.ChangeLogEntry, error)
	ChangeLog(ctx context.Context, projectID string) ([]*domain.ChangeLogEntry, error)
	RecentChanges(ctx context.Context, limit int) ([]*domain.ChangeLogEntry, error)
}

// Option configures the service.
type Option func(*serviceImpl)

// WithPublisher publishes project.changed events through p.
func WithPublisher(p EventPublisher) Option {
	return func(s *serviceImpl) { s.publisher = p }
}

// WithCatalog reloads the projects snapshot in c after every project write so
// map views pick the change up.
func WithCatalog(c CatalogRefresher) Option {
	return func(s *serviceImpl) { s.catalog = c }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

type serviceImpl struct {
	projects  domain.Repository
	changes   domain.ChangeLogRepository
	publisher EventPublisher
	catalog   CatalogRefresher
	logger    logging.Logger
	now       func() time.Time
}

// NewService wires the project editor.
func NewService(projects domain.Repository, changes domain.ChangeLogRepository, logger logging.Logger, opts ...Option) Service {
	s := &serviceImpl{
		projects: projects,
		changes:  changes,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) List(ctx context.Context, in ListInput) (*ListResult, error) {
	page := common.Pagination{Page: in.Page, PageSize: in.PageSize}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize <= 0 {
		page.PageSize = DefaultPageSize
	}
	if page.PageSize > MaxPageSize {
		page.PageSize = MaxPageSize
	}

	records, total, err := s.projects.List(ctx, domain.ListFilter{
		Country: strings.TrimSpace(in.Country),
		Status:  strings.TrimSpace(in.Status),
		Search:  strings.TrimSpace(in.Search),
		Offset:  page.Offset(),
		Limit:   page.PageSize,
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*domain.Record{}
	}
	page.Total = total
	return &ListResult{Projects: records, Pagination: page}, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (*domain.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("id", "project id is required")
	}
	return s.projects.GetByID(ctx, id)
}

func (s *serviceImpl) Create(ctx context.Context, in CreateInput, author common.Identity) (*domain.Record, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	rec := &domain.Record{
		ID:                    uuid.New().String(),
		PlantName:             strings.TrimSpace(in.PlantName),
		UnitName:              strings.TrimSpace(in.UnitName),
		CapacityMW:            in.CapacityMW,
		Country:               strings.TrimSpace(in.Country),
		Latitude:              in.Latitude,
		Longitude:             in.Longitude,
		Status:                strings.TrimSpace(in.Status),
		PlannedRetirementYear: in.PlannedRetirementYear,
		TransitionType:        strings.TrimSpace(in.TransitionType),
		FinancialMechanism:    strings.TrimSpace(in.FinancialMechanism),
		Funders:               strings.TrimSpace(in.Funders),
		Narrative:             strings.TrimSpace(in.Narrative),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.projects.Create(ctx, rec); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProjectWriteFailed, "failed to create project")
	}

	entry := s.newEntry(rec, domain.LabelCreated, author)
	if err := s.changes.Append(ctx, entry); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProjectWriteFailed, "project created but change log append failed")
	}

	s.logger.Info("project created",
		logging.String("project_id", rec.ID),
		logging.String("plant", rec.PlantName),
		logging.String("author", entry.Author))
	s.refreshCatalog(ctx)
	s.publish(ctx, events.TypeProjectCreated, entry)
	return rec, nil
}

// UpdateField writes one editable column followed by its change-log entry.
// Submitting the current value is a no-op. A failed write leaves the change
// log untouched.
func (s *serviceImpl) UpdateField(ctx context.Context, in UpdateFieldInput, author common.Identity) (*UpdateResult, error) {
	field, ok := domain.LookupField(in.Column)
	if !ok {
		return nil, errors.Errorf(errors.ErrCodeFieldNotEditable, "column %q is not editable", in.Column)
	}
	value, err := field.Parse(in.Value)
	if err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}

	oldText := rec.Value(field.Column)
	updated := *rec
	updated.Apply(field.Column, value)
	newText := updated.Value(field.Column)
	if oldText == newText {
		return &UpdateResult{Project: rec, Changed: false}, nil
	}

	if err := s.projects.UpdateField(ctx, rec.ID, field.Column, value); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProjectWriteFailed, "failed to update "+field.Label)
	}
	updated.UpdatedAt = s.now().UTC()

	entry := s.newEntry(&updated, field.Label, author)
	entry.OldValue = oldText
	entry.NewValue = newText
	entry.Note = strings.TrimSpace(in.Note)
	if err := s.changes.Append(ctx, entry); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProjectWriteFailed, "field updated but change log append failed")
	}

	s.logger.Info("project field updated",
		logging.String("project_id", rec.ID),
		logging.String("field", field.Column),
		logging.String("author", entry.Author))
	s.refreshCatalog(ctx)
	s.publish(ctx, events.TypeProjectFieldUpdated, entry)
	return &UpdateResult{Project: &updated, Entry: entry, Changed: true}, nil
}

func (s *serviceImpl) AddNote(ctx context.Context, projectID, note string, author common.Identity) (*domain.ChangeLogEntry, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, errors.NewValidationError("note", "note is required")
	}
	rec, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	entry := s.newEntry(rec, domain.LabelNote, author)
	entry.Note = note
	if err := s.changes.Append(ctx, entry); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProjectWriteFailed, "failed to add note")
	}
	s.publish(ctx, events.TypeProjectNoteAdded, entry)
	return entry, nil
}

func (s *serviceImpl) ChangeLog(ctx context.Context, projectID string) ([]*domain.ChangeLogEntry, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, errors.NewValidationError("id", "project id is required")
	}
	entries, err := s.changes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.ChangeLogEntry{}
	}
	return entries, nil
}

func (s *serviceImpl) RecentChanges(ctx context.Context, limit int) ([]*domain.ChangeLogEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	entries, err := s.changes.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.ChangeLogEntry{}
	}
	return entries, nil
}

func (s *serviceImpl) newEntry(rec *domain.Record, label string, author common.Identity) *domain.ChangeLogEntry {
	return &domain.ChangeLogEntry{
		ID:         uuid.New().String(),
		ProjectID:  rec.ID,
		PlantName:  rec.PlantName,
		FieldLabel: label,
		Author:     author.Author(),
		CreatedAt:  s.now().UTC(),
	}
}

// refreshCatalog reloads the projects snapshot. When the reload fails the
// table is left stale so the next read retries it.
func (s *serviceImpl) refreshCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	err := s.catalog.RefreshAll(ctx, catalog.TableProjects)
	if err == nil {
		return
	}
	s.logger.Warn("projects snapshot reload failed", logging.Err(err))
	if ierr := s.catalog.Invalidate(ctx, catalog.TableProjects); ierr != nil {
		s.logger.Warn("projects snapshot invalidate failed", logging.Err(ierr))
	}
}

// publish is best effort: failures are logged and never returned.
func (s *serviceImpl) publish(ctx context.Context, eventType string, e *domain.ChangeLogEntry) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishEvent(ctx, events.TopicProjectChanged, e.ProjectID, eventType, events.ProjectChanged{
		ProjectID:  e.ProjectID,
		PlantName:  e.PlantName,
		FieldLabel: e.FieldLabel,
		Author:     e.Author,
	})
	if err != nil {
		s.logger.Warn("project event publish failed",
			logging.String("project_id", e.ProjectID),
			logging.String("event_type", eventType),
			logging.Err(err))
	}
}

//Personal.AI order the ending
