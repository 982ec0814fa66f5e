package project

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	domain "github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/testutil"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/events"
)

type mockProjectRepository struct {
	mock.Mock
}

func (m *mockProjectRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Record, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Record), args.Get(1).(int64), args.Error(2)
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *mockProjectRepository) Create(ctx context.Context, r *domain.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockProjectRepository) UpdateField(ctx context.Context, id, column string, value interface{}) error {
	return m.Called(ctx, id, column, value).Error(0)
}

type mockChangeLogRepository struct {
	mock.Mock
}

func (m *mockChangeLogRepository) Append(ctx context.Context, e *domain.ChangeLogEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockChangeLogRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.ChangeLogEntry, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChangeLogEntry), args.Error(1)
}

func (m *mockChangeLogRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ChangeLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChangeLogEntry), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic, key, eventType string, payload interface{}) error {
	return m.Called(ctx, topic, key, eventType, payload).Error(0)
}

var (
	fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ada      = common.Identity{Name: "Ada", Email: "ada@example.org", Initials: "A"}
)

type fixture struct {
	projects  *mockProjectRepository
	changes   *mockChangeLogRepository
	publisher *mockPublisher
	logger    *testutil.MockLogger
	svc       Service
}

func newFixture() *fixture {
	f := &fixture{
		projects:  new(mockProjectRepository),
		changes:   new(mockChangeLogRepository),
		publisher: new(mockPublisher),
		logger:    testutil.NewMockLogger(),
	}
	f.svc = NewService(f.projects, f.changes, f.logger,
		WithPublisher(f.publisher),
		WithClock(func() time.Time { return fixedNow }))
	return f
}

func sampleRecord() *domain.Record {
	year := 2035
	return &domain.Record{
		ID:                    "p-1",
		PlantName:             "Suralaya",
		Country:               "Indonesia",
		CapacityMW:            3400,
		Status:                "operating",
		PlannedRetirementYear: &year,
	}
}

func TestList_NormalizesPaging(t *testing.T) {
	f := newFixture()
	f.projects.On("List", mock.Anything, domain.ListFilter{Country: "Indonesia", Offset: 500, Limit: 500}).
		Return([]*domain.Record{sampleRecord()}, int64(501), nil)

	res, err := f.svc.List(context.Background(), ListInput{Country: " Indonesia ", Page: 2, PageSize: 9999})
	require.NoError(t, err)
	assert.Len(t, res.Projects, 1)
	assert.Equal(t, int64(501), res.Pagination.Total)
	assert.Equal(t, MaxPageSize, res.Pagination.PageSize)
	f.projects.AssertExpectations(t)
}

func TestList_DefaultsAndEmpty(t *testing.T) {
	f := newFixture()
	f.projects.On("List", mock.Anything, domain.ListFilter{Limit: DefaultPageSize}).
		Return([]*domain.Record(nil), int64(0), nil)

	res, err := f.svc.List(context.Background(), ListInput{})
	require.NoError(t, err)
	assert.NotNil(t, res.Projects)
	assert.Equal(t, 1, res.Pagination.Page)
}

func TestGet_RequiresID(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Get(context.Background(), " ")
	assert.True(t, errors.IsValidation(err))
	f.projects.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreate_WritesRecordAndCreatedEntry(t *testing.T) {
	f := newFixture()
	f.projects.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Record) bool {
		return r.ID != "" && r.PlantName == "Suralaya" && r.CreatedAt.Equal(fixedNow)
	})).Return(nil)
	f.changes.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.ChangeLogEntry) bool {
		return e.FieldLabel == domain.LabelCreated && e.Author == "Ada <ada@example.org>" && e.PlantName == "Suralaya"
	})).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicProjectChanged, mock.Anything, events.TypeProjectCreated, mock.Anything).
		Return(nil)

	rec, err := f.svc.Create(context.Background(), CreateInput{PlantName: " Suralaya ", Country: "Indonesia", CapacityMW: 3400}, ada)
	require.NoError(t, err)
	assert.Equal(t, "Suralaya", rec.PlantName)
	assert.True(t, f.logger.HasMessage("info", "project created"))
	f.projects.AssertExpectations(t)
	f.changes.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	lat := 95.0
	lng := 10.0

	cases := []CreateInput{
		{PlantName: ""},
		{PlantName: "A", CapacityMW: -1},
		{PlantName: "A", Latitude: &lng},
		{PlantName: "A", Latitude: &lat, Longitude: &lng},
	}
	for i, in := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), in, ada)
			assert.True(t, errors.IsValidation(err))
		})
	}
	f.projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RepositoryFailureSkipsChangeLog(t *testing.T) {
	f := newFixture()
	f.projects.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("disk full"))

	_, err := f.svc.Create(context.Background(), CreateInput{PlantName: "A"}, ada)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProjectWriteFailed))
	f.changes.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestUpdateField_WritesFieldThenEntry(t *testing.T) {
	f := newFixture()
	f.projects.On("GetByID", mock.Anything, "p-1").Return(sampleRecord(), nil)
	f.projects.On("UpdateField", mock.Anything, "p-1", "planned_retirement_year", 2030).Return(nil)
	f.changes.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.ChangeLogEntry) bool {
		return e.FieldLabel == "Planned Retirement Year" && e.OldValue == "2035" && e.NewValue == "2030" && e.Note == "accelerated"
	})).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicProjectChanged, "p-1", events.TypeProjectFieldUpdated, mock.Anything).
		Return(nil)

	res, err := f.svc.UpdateField(context.Background(), UpdateFieldInput{
		ProjectID: "p-1", Column: "planned_retirement_year", Value: "2030", Note: " accelerated ",
	}, ada)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.NotNil(t, res.Project.PlannedRetirementYear)
	assert.Equal(t, 2030, *res.Project.PlannedRetirementYear)
	assert.Equal(t, fixedNow, res.Project.UpdatedAt)
	f.changes.AssertExpectations(t)
}

func TestUpdateField_UnchangedIsNoop(t *testing.T) {
	f := newFixture()
	f.projects.On("GetByID", mock.Anything, "p-1").Return(sampleRecord(), nil)

	res, err := f.svc.UpdateField(context.Background(), UpdateFieldInput{ProjectID: "p-1", Column: "status", Value: " operating "}, ada)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Nil(t, res.Entry)
	f.projects.AssertNotCalled(t, "UpdateField", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.changes.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestUpdateField_ClearingAValue(t *testing.T) {
	f := newFixture()
	f.projects.On("GetByID", mock.Anything, "p-1").Return(sampleRecord(), nil)
	f.projects.On("UpdateField", mock.Anything, "p-1", "planned_retirement_year", nil).Return(nil)
	f.changes.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.ChangeLogEntry) bool {
		return e.OldValue == "2035" && e.NewValue == ""
	})).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.UpdateField(context.Background(), UpdateFieldInput{ProjectID: "p-1", Column: "planned_retirement_year", Value: ""}, ada)
	require.NoError(t, err)
	assert.Nil(t, res.Project.PlannedRetirementYear)
}

func TestUpdateField_Rejections(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateField(context.Background(), UpdateFieldInput{ProjectID: "p-1", Column: "plant_name", Value: "X"}, ada)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFieldNotEditable))

	_, err = f.svc.UpdateField(context.Background(), UpdateFieldInput{ProjectID: "p-1", Column: "actual_retirement_year", Value: "soon"}, ada)
	assert.True(t, errors.IsValidation(err))

	f.projects.On("GetByID", mock.Anything, "missing").Return(nil, errors.New(errors.ErrCodeProjectNotFound, "project not found"))
	_, err = f.svc.UpdateField(context.Background(), UpdateFieldInput{ProjectID: "missing", Column: "status", Value: "retired"}, ada)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateField_WriteFailureLogsNothing(t *testing.T) {
	f := newFixture()
	f.projects.On("GetByID", mock.Anything, "p-1").Return(sampleRecord(), nil)
	f.projects.On("UpdateField", mock.Anything, "p-1", "status", "retired").Return(fmt.Errorf("connection reset"))

	_, err := f.svc.UpdateField(context.Background(), UpdateFieldInput{ProjectID: "p-1", Column: "status", Value: "retired"}, ada)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProjectWriteFailed))
	f.changes.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateField_PublishFailureIsNotReturned(t *testing.T) {
	f := newFixture()
	f.projects.On("GetByID", mock.Anything, "p-1").Return(sampleRecord(), nil)
	f.projects.On("UpdateField", mock.Anything, "p-1", "status", "retired").Return(nil)
	f.changes.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("broker down"))

	res, err := f.svc.UpdateField(context.Background(), UpdateFieldInput{ProjectID: "p-1", Column: "status", Value: "retired"}, ada)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, f.logger.HasMessage("warn", "project event publish failed"))
}

func TestAddNote(t *testing.T) {
	f := newFixture()
	f.projects.On("GetByID", mock.Anything, "p-1").Return(sampleRecord(), nil)
	f.changes.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.ChangeLogEntry) bool {
		return e.FieldLabel == domain.LabelNote && e.Note == "site visit done" && e.OldValue == ""
	})).Return(nil)
	f.publisher.On("PublishEvent", mock.Anything, events.TopicProjectChanged, "p-1", events.TypeProjectNoteAdded, mock.Anything).
		Return(nil)

	e, err := f.svc.AddNote(context.Background(), "p-1", "site visit done", common.Identity{})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", e.Author)

	_, err = f.svc.AddNote(context.Background(), "p-1", "  ", ada)
	assert.True(t, errors.IsValidation(err))
}

func TestChangeLogAndRecent(t *testing.T) {
	f := newFixture()
	f.changes.On("ListByProject", mock.Anything, "p-1").Return([]*domain.ChangeLogEntry(nil), nil)
	f.changes.On("ListRecent", mock.Anything, DefaultRecentLimit).Return([]*domain.ChangeLogEntry{{ID: "c-1"}}, nil)
	f.changes.On("ListRecent", mock.Anything, MaxRecentLimit).Return([]*domain.ChangeLogEntry{}, nil)

	entries, err := f.svc.ChangeLog(context.Background(), "p-1")
	require.NoError(t, err)
	assert.NotNil(t, entries)

	recent, err := f.svc.RecentChanges(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	_, err = f.svc.RecentChanges(context.Background(), 10_000)
	require.NoError(t, err)
	f.changes.AssertExpectations(t)
}

func TestCreate_ReloadsProjectsSnapshot(t *testing.T) {
	store := testutil.NewMemRowStore()
	store.Seed(catalog.TableProjects, common.Row{"id": "p-0", "plant_name": "Bukit Asam"})
	logger := testutil.NewMockLogger()
	loader := catalog.NewLoader(store, logger)
	require.NoError(t, loader.RefreshAll(context.Background(), catalog.SnapshotTables...))

	projects := new(mockProjectRepository)
	changes := new(mockChangeLogRepository)
	projects.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		r := args.Get(1).(*domain.Record)
		store.Seed(catalog.TableProjects, common.Row{"id": r.ID, "plant_name": r.PlantName})
	})
	changes.On("Append", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(projects, changes, logger, WithCatalog(loader))

	_, err := svc.Create(context.Background(), CreateInput{PlantName: "Suralaya"}, ada)
	require.NoError(t, err)

	snap, ok := loader.Current(catalog.TableProjects)
	require.True(t, ok)
	assert.Len(t, snap.Rows, 2)
	assert.False(t, loader.Stale(catalog.TableProjects))
}

func TestUpdateField_ReloadFailureMarksProjectsStale(t *testing.T) {
	store := testutil.NewMemRowStore()
	store.Seed(catalog.TableProjects, common.Row{"id": "p-1", "plant_name": "Suralaya"})
	logger := testutil.NewMockLogger()
	loader := catalog.NewLoader(store, logger)
	before, err := loader.Refresh(context.Background(), catalog.TableProjects)
	require.NoError(t, err)
	store.FailOn[catalog.TableProjects] = 1

	projects := new(mockProjectRepository)
	changes := new(mockChangeLogRepository)
	projects.On("GetByID", mock.Anything, "p-1").Return(sampleRecord(), nil)
	projects.On("UpdateField", mock.Anything, "p-1", "status", "retired").Return(nil)
	changes.On("Append", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(projects, changes, logger, WithCatalog(loader))

	res, err := svc.UpdateField(context.Background(), UpdateFieldInput{ProjectID: "p-1", Column: "status", Value: "retired"}, ada)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, logger.HasMessage("warn", "projects snapshot reload failed"))

	current, ok := loader.Current(catalog.TableProjects)
	require.True(t, ok)
	assert.Same(t, before, current)
	assert.True(t, loader.Stale(catalog.TableProjects))
}

//Personal.AI order the ending
