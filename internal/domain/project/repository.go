package project

import "context"

// ListFilter narrows Repository.List.
type ListFilter struct {
	Country string
	Status  string
	Search  string
	Offset  int
	Limit   int
}

// Repository persists project records.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Record, int64, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	Create(ctx context.Context, r *Record) error
	// UpdateField writes one editable column. column must come from
	// EditableFields.
	UpdateField(ctx context.Context, id, column string, value interface{}) error
}

// ChangeLogRepository is append-only.
type ChangeLogRepository interface {
	Append(ctx context.Context, e *ChangeLogEntry) error
	ListByProject(ctx context.Context, projectID string) ([]*ChangeLogEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*ChangeLogEntry, error)
}

//Personal.AI order the ending
