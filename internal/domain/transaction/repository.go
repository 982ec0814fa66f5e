package transaction

import "context"

// ListFilter narrows Repository.List. Zero values match everything.
type ListFilter struct {
	Stage Stage
	RAG   RAGStatus
}

// Repository persists transactions.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	Create(ctx context.Context, t *Transaction) error
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, id string) error
}

// ActivityRepository is append-only.
type ActivityRepository interface {
	Append(ctx context.Context, a *Activity) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*Activity, error)
}

//Personal.AI order the ending
