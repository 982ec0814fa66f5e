package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/turtacn/CoalTransition-Atlas/pkg/types/transaction"
)

// DealsClient drives the transaction transaction.
type DealsClient struct {
	client *Client
}

func dealPath(id string, rest ...string) string {
	p := "/transactions/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// List returns transactions, optionally narrowed to one stage or RAG status.
func (d *DealsClient) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	q := url.Values{}
	setString(q, "stage", string(filter.Stage))
	setString(q, "rag", string(filter.RAG))
	return getData[[]*transaction.Transaction](ctx, d.client, http.MethodGet, withQuery("/transactions", q), nil)
}

// Get returns one transaction.
func (d *DealsClient) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	return getData[*transaction.Transaction](ctx, d.client, http.MethodGet, dealPath(id), nil)
}

// Create adds a transaction.
func (d *DealsClient) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	return getData[*transaction.Transaction](ctx, d.client, http.MethodPost, "/transactions", t)
}

// Update replaces a transaction's editable fields.
func (d *DealsClient) Update(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	return getData[*transaction.Transaction](ctx, d.client, http.MethodPut, dealPath(t.ID), t)
}

// Delete removes a transaction and its activities.
func (d *DealsClient) Delete(ctx context.Context, id string) error {
	return d.client.do(ctx, http.MethodDelete, dealPath(id), nil, nil)
}

// ChangeStage moves a transaction to stage.
func (d *DealsClient) ChangeStage(ctx context.Context, id string, stage transaction.Stage) (*transaction.Transaction, error) {
	body := map[string]transaction.Stage{"stage": stage}
	return getData[*transaction.Transaction](ctx, d.client, http.MethodPost, dealPath(id, "stage"), body)
}

// SetNextSteps replaces the checklist.
func (d *DealsClient) SetNextSteps(ctx context.Context, id string, steps []transaction.NextStep) (*transaction.Transaction, error) {
	body := map[string][]transaction.NextStep{"next_steps": steps}
	return getData[*transaction.Transaction](ctx, d.client, http.MethodPut, dealPath(id, "next-steps"), body)
}

// ToggleNextStep flips the completion flag of the step at index.
func (d *DealsClient) ToggleNextStep(ctx context.Context, id string, index int) (*transaction.Transaction, error) {
	return getData[*transaction.Transaction](ctx, d.client, http.MethodPost, dealPath(id, "next-steps", itoa(index), "toggle"), struct{}{})
}

// Activities returns the activity feed, newest first.
func (d *DealsClient) Activities(ctx context.Context, id string) ([]*transaction.Activity, error) {
	return getData[[]*transaction.Activity](ctx, d.client, http.MethodGet, dealPath(id, "activities"), nil)
}

// LogActivity records a manual activity.
func (d *DealsClient) LogActivity(ctx context.Context, id string, in transaction.ActivityInput) (*transaction.Activity, error) {
	return getData[*transaction.Activity](ctx, d.client, http.MethodPost, dealPath(id, "activities"), in)
}

// Summary returns counts and capacity per stage.
func (d *DealsClient) Summary(ctx context.Context) ([]transaction.StageSummary, error) {
	return getData[[]transaction.StageSummary](ctx, d.client, http.MethodGet, "/pipeline/summary", nil)
}

// MapNodes returns the plant nodes that carry transactions.
func (d *DealsClient) MapNodes(ctx context.Context) ([]transaction.PlantNode, error) {
	return getData[[]transaction.PlantNode](ctx, d.client, http.MethodGet, "/transactions/map-nodes", nil)
}

//Personal.AI order the ending
