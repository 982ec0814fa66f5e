package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/CoalTransition-Atlas/pkg/types/impact"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/plant"
)

// PlantsClient reads the plant catalogue and its statistics.
type PlantsClient struct {
	client *Client
}

// RefreshResult reports the outcome of a catalogue reload.
type RefreshResult struct {
	Refreshed bool `json:"refreshed"`
	Announced bool `json:"announced"`
}

// TopRequest selects a plant ranking.
type TopRequest struct {
	Metric    impact.Metric
	Ascending bool
	Limit     int
}

func filterQuery(f plant.FilterOptions) url.Values {
	q := url.Values{}
	setFloat(q, "capacity_min", f.CapacityMin)
	setFloat(q, "capacity_max", f.CapacityMax)
	setFloat(q, "max_lifetime", f.MaxRemainingLifetime)
	for _, v := range f.Countries {
		q.Add("country", v)
	}
	for _, v := range f.CombustionTech {
		q.Add("tech", v)
	}
	for _, v := range f.CoalTypes {
		q.Add("coal_type", v)
	}
	for _, v := range f.Subregions {
		q.Add("subregion", v)
	}
	setString(q, "captive", string(f.Captive))
	return q
}

// List returns the grouped plants matching f.
func (p *PlantsClient) List(ctx context.Context, f plant.FilterOptions) (*plant.PlantsResult, error) {
	return getData[*plant.PlantsResult](ctx, p.client, http.MethodGet, withQuery("/plants", filterQuery(f)), nil)
}

// Get returns one grouped plant by key.
func (p *PlantsClient) Get(ctx context.Context, key string) (*plant.Plant, error) {
	return getData[*plant.Plant](ctx, p.client, http.MethodGet, "/plants/"+url.PathEscape(key), nil)
}

// Search runs a free-text search over plant, owner and country names.
func (p *PlantsClient) Search(ctx context.Context, text string, limit int) ([]plant.PlantUnit, error) {
	q := url.Values{"q": {text}}
	setInt(q, "limit", limit)
	return getData[[]plant.PlantUnit](ctx, p.client, http.MethodGet, withQuery("/plants/search", q), nil)
}

// Facets returns the distinct filter values present in the catalogue.
func (p *PlantsClient) Facets(ctx context.Context) (*plant.Facets, error) {
	return getData[*plant.Facets](ctx, p.client, http.MethodGet, "/plants/facets", nil)
}

// Issues returns counts of catalogue rows that could not be placed.
func (p *PlantsClient) Issues(ctx context.Context) (plant.RowIssues, error) {
	return getData[plant.RowIssues](ctx, p.client, http.MethodGet, "/plants/issues", nil)
}

// Summary returns totals over the plants matching f.
func (p *PlantsClient) Summary(ctx context.Context, f plant.FilterOptions) (*plant.Summary, error) {
	return getData[*plant.Summary](ctx, p.client, http.MethodGet, withQuery("/stats/summary", filterQuery(f)), nil)
}

// Countries returns per-country totals.
func (p *PlantsClient) Countries(ctx context.Context) ([]plant.CountryStats, error) {
	return getData[[]plant.CountryStats](ctx, p.client, http.MethodGet, "/stats/countries", nil)
}

// Top returns the plant ranking for one metric.
func (p *PlantsClient) Top(ctx context.Context, req TopRequest) ([]plant.PlantRanking, error) {
	q := url.Values{}
	setString(q, "metric", string(req.Metric))
	setInt(q, "limit", req.Limit)
	if req.Ascending {
		q.Set("order", "asc")
	}
	return getData[[]plant.PlantRanking](ctx, p.client, http.MethodGet, withQuery("/stats/top", q), nil)
}

// Refresh asks the server to reload the catalogue.
func (p *PlantsClient) Refresh(ctx context.Context) (*RefreshResult, error) {
	return getData[*RefreshResult](ctx, p.client, http.MethodPost, "/catalog/refresh", struct{}{})
}

func itoa(i int) string { return strconv.Itoa(i) }

//Personal.AI order the ending
