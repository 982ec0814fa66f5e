package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/project"
	domain "github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

type mockProjectService struct {
	mock.Mock
}

func (m *mockProjectService) List(ctx context.Context, in project.ListInput) (*project.ListResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.ListResult), args.Error(1)
}

func (m *mockProjectService) Get(ctx context.Context, id string) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *mockProjectService) Create(ctx context.Context, in project.CreateInput, author common.Identity) (*domain.Record, error) {
	args := m.Called(ctx, in, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *mockProjectService) UpdateField(ctx context.Context, in project.UpdateFieldInput, author common.Identity) (*project.UpdateResult, error) {
	args := m.Called(ctx, in, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.UpdateResult), args.Error(1)
}

func (m *mockProjectService) AddNote(ctx context.Context, projectID, note string, author common.Identity) (*domain.ChangeLogEntry, error) {
	args := m.Called(ctx, projectID, note, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChangeLogEntry), args.Error(1)
}

func (m *mockProjectService) ChangeLog(ctx context.Context, projectID string) ([]*domain.ChangeLogEntry, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChangeLogEntry), args.Error(1)
}

func (m *mockProjectService) RecentChanges(ctx context.Context, limit int) ([]*domain.ChangeLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChangeLogEntry), args.Error(1)
}

func newTestProjectHandler() (*ProjectHandler, *mockProjectService) {
	svc := new(mockProjectService)
	return NewProjectHandler(svc, logging.NewNopLogger()), svc
}

func TestProjectHandler_ListPaginates(t *testing.T) {
	h, svc := newTestProjectHandler()
	svc.On("List", mock.Anything, project.ListInput{Country: "South Africa", Page: 2, PageSize: project.MaxPageSize}).
		Return(&project.ListResult{
			Projects:   []*domain.Record{{ID: "p-1", PlantName: "Komati"}},
			Pagination: common.Pagination{Page: 2, PageSize: project.MaxPageSize, Total: 501},
		}, nil)

	w := serve(t, h, http.MethodGet, "/projects?country=South%20Africa&page=2&page_size=9999", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	records, env := decodeData[[]*domain.Record](t, w)
	require.Len(t, records, 1)
	assert.Equal(t, "Komati", records[0].PlantName)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(501), env.Pagination.Total)
}

func TestProjectHandler_CreateUsesAuthor(t *testing.T) {
	h, svc := newTestProjectHandler()
	in := project.CreateInput{PlantName: "Komati", CapacityMW: 1000, Country: "South Africa"}
	svc.On("Create", mock.Anything, in, testAuthor).Return(&domain.Record{ID: "p-9", PlantName: "Komati"}, nil)

	w := serve(t, h, http.MethodPost, "/projects", in)

	require.Equal(t, http.StatusCreated, w.Code)
	rec, _ := decodeData[domain.Record](t, w)
	assert.Equal(t, "p-9", rec.ID)
	svc.AssertExpectations(t)
}

func TestProjectHandler_CreateValidation(t *testing.T) {
	h, svc := newTestProjectHandler()
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.NewValidationError("plant_name", "plant name is required"))

	w := serve(t, h, http.MethodPost, "/projects", project.CreateInput{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "plant name is required", decodeError(t, w).Message)
}

func TestProjectHandler_Get(t *testing.T) {
	h, svc := newTestProjectHandler()
	svc.On("Get", mock.Anything, "p-1").Return(&domain.Record{ID: "p-1"}, nil)
	svc.On("Get", mock.Anything, "nope").Return(nil, errors.New(errors.ErrCodeProjectNotFound, "project not found"))

	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/projects/p-1", nil).Code)

	w := serve(t, h, http.MethodGet, "/projects/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.ErrCodeProjectNotFound.String(), decodeError(t, w).Code)
}

func TestProjectHandler_Fields(t *testing.T) {
	h, _ := newTestProjectHandler()

	w := serve(t, h, http.MethodGet, "/projects/fields", nil)

	require.Equal(t, http.StatusOK, w.Code)
	fields, _ := decodeData[[]domain.Field](t, w)
	require.Len(t, fields, len(domain.EditableFields))
	assert.Equal(t, "status", fields[0].Column)
}

func TestProjectHandler_UpdateField(t *testing.T) {
	h, svc := newTestProjectHandler()
	in := project.UpdateFieldInput{ProjectID: "p-1", Column: "status", Value: "Retired", Note: "confirmed by utility"}
	svc.On("UpdateField", mock.Anything, in, testAuthor).Return(&project.UpdateResult{
		Project: &domain.Record{ID: "p-1", Status: "Retired"},
		Entry:   &domain.ChangeLogEntry{FieldLabel: "Status", OldValue: "Operating", NewValue: "Retired", Author: testAuthor.Author()},
		Changed: true,
	}, nil)

	w := serve(t, h, http.MethodPatch, "/projects/p-1/fields/status",
		UpdateFieldRequest{Value: "Retired", Note: "confirmed by utility"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res, _ := decodeData[project.UpdateResult](t, w)
	assert.True(t, res.Changed)
	assert.Equal(t, "Operating", res.Entry.OldValue)
}

func TestProjectHandler_UpdateFieldNotEditable(t *testing.T) {
	h, svc := newTestProjectHandler()
	svc.On("UpdateField", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeFieldNotEditable, "field is not editable"))

	w := serve(t, h, http.MethodPatch, "/projects/p-1/fields/plant_name", UpdateFieldRequest{Value: "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.ErrCodeFieldNotEditable.String(), decodeError(t, w).Code)
}

func TestProjectHandler_WriteFailureIsMasked(t *testing.T) {
	h, svc := newTestProjectHandler()
	svc.On("AddNote", mock.Anything, "p-1", "call scheduled", testAuthor).
		Return(nil, errors.New(errors.ErrCodeProjectWriteFailed, "change log append failed").WithDetail("pq: connection reset"))

	w := serve(t, h, http.MethodPost, "/projects/p-1/notes", NoteRequest{Note: "call scheduled"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestProjectHandler_ChangeLogs(t *testing.T) {
	h, svc := newTestProjectHandler()
	svc.On("ChangeLog", mock.Anything, "p-1").Return([]*domain.ChangeLogEntry{{ID: "c-2"}, {ID: "c-1"}}, nil)
	svc.On("RecentChanges", mock.Anything, project.DefaultRecentLimit).Return([]*domain.ChangeLogEntry{{ID: "c-9"}}, nil)
	svc.On("RecentChanges", mock.Anything, 5).Return([]*domain.ChangeLogEntry{}, nil)

	w := serve(t, h, http.MethodGet, "/projects/p-1/changes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries, _ := decodeData[[]*domain.ChangeLogEntry](t, w)
	assert.Equal(t, "c-2", entries[0].ID)

	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/changes/recent", nil).Code)
	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/changes/recent?limit=5", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, serve(t, h, http.MethodGet, "/changes/recent?limit=many", nil).Code)
	svc.AssertExpectations(t)
}

//Personal.AI order the ending
