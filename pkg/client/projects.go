package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/project"
)

// ProjectsClient drives the project editor and its change log.
type ProjectsClient struct {
	client *Client
}

// ProjectPage is one page of projects.
type ProjectPage struct {
	Projects   []*project.Record
	Pagination common.Pagination
}

// List returns one page of projects.
func (p *ProjectsClient) List(ctx context.Context, in project.ListInput) (*ProjectPage, error) {
	q := url.Values{}
	setString(q, "country", in.Country)
	setString(q, "status", in.Status)
	setString(q, "search", in.Search)
	setInt(q, "page", in.Page)
	setInt(q, "page_size", in.PageSize)

	var env common.APIResponse[[]*project.Record]
	if err := p.client.do(ctx, http.MethodGet, withQuery("/projects", q), nil, &env); err != nil {
		return nil, err
	}
	page := &ProjectPage{Projects: env.Data}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// Get returns one project.
func (p *ProjectsClient) Get(ctx context.Context, id string) (*project.Record, error) {
	return getData[*project.Record](ctx, p.client, http.MethodGet, "/projects/"+url.PathEscape(id), nil)
}

// Create adds a project.
func (p *ProjectsClient) Create(ctx context.Context, in project.CreateInput) (*project.Record, error) {
	return getData[*project.Record](ctx, p.client, http.MethodPost, "/projects", in)
}

// Fields lists the editable columns.
func (p *ProjectsClient) Fields(ctx context.Context) ([]project.Field, error) {
	return getData[[]project.Field](ctx, p.client, http.MethodGet, "/projects/fields", nil)
}

// SetField edits one column; the server records the change.
func (p *ProjectsClient) SetField(ctx context.Context, id, column, value, note string) (*project.UpdateResult, error) {
	body := map[string]string{"value": value}
	if note != "" {
		body["note"] = note
	}
	path := "/projects/" + url.PathEscape(id) + "/fields/" + url.PathEscape(column)
	return getData[*project.UpdateResult](ctx, p.client, http.MethodPatch, path, body)
}

// AddNote appends a note-only change log entry.
func (p *ProjectsClient) AddNote(ctx context.Context, id, note string) (*project.ChangeLogEntry, error) {
	path := "/projects/" + url.PathEscape(id) + "/notes"
	return getData[*project.ChangeLogEntry](ctx, p.client, http.MethodPost, path, map[string]string{"note": note})
}

// ChangeLog returns a project's history, newest first.
func (p *ProjectsClient) ChangeLog(ctx context.Context, id string) ([]*project.ChangeLogEntry, error) {
	path := "/projects/" + url.PathEscape(id) + "/changes"
	return getData[[]*project.ChangeLogEntry](ctx, p.client, http.MethodGet, path, nil)
}

// Recent returns the latest change log entries across all projects.
func (p *ProjectsClient) Recent(ctx context.Context, limit int) ([]*project.ChangeLogEntry, error) {
	q := url.Values{}
	setInt(q, "limit", limit)
	return getData[[]*project.ChangeLogEntry](ctx, p.client, http.MethodGet, withQuery("/changes/recent", q), nil)
}

//Personal.AI order the ending
