package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/impact"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/plant"
)

// ImpactClient reads impact results, projections and map layouts.
type ImpactClient struct {
	client *Client
}

// Totals returns lifetime results per plant.
func (i *ImpactClient) Totals(ctx context.Context) ([]impact.Result, error) {
	return getData[[]impact.Result](ctx, i.client, http.MethodGet, "/impact/totals", nil)
}

// Annual returns per-year results, optionally for one plant.
func (i *ImpactClient) Annual(ctx context.Context, plantName string) ([]impact.Result, error) {
	q := url.Values{}
	setString(q, "plant", plantName)
	return getData[[]impact.Result](ctx, i.client, http.MethodGet, withQuery("/impact/annual", q), nil)
}

// Project runs a degradation projection.
func (i *ImpactClient) Project(ctx context.Context, req impact.ProjectionRequest) (*impact.Projection, error) {
	return getData[*impact.Projection](ctx, i.client, http.MethodPost, "/impact/projection", req)
}

// Layout computes the child ring around a parent screen point.
func (i *ImpactClient) Layout(ctx context.Context, parent plant.ScreenPoint, count int) (*plant.LayoutResult, error) {
	body := map[string]interface{}{"parent": parent, "count": count}
	return getData[*plant.LayoutResult](ctx, i.client, http.MethodPost, "/map/layout", body)
}

// LatestExport returns a signed link to the newest statistics snapshot.
func (i *ImpactClient) LatestExport(ctx context.Context) (*common.ExportLink, error) {
	return getData[*common.ExportLink](ctx, i.client, http.MethodGet, "/exports/latest", nil)
}

// Login exchanges credentials for a session token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*common.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	res, err := getData[*common.LoginResult](ctx, c, http.MethodPost, "/auth/login", body)
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return res, nil
}

// Me returns the identity the server resolves for the current token.
func (c *Client) Me(ctx context.Context) (common.Identity, error) {
	return getData[common.Identity](ctx, c, http.MethodGet, "/auth/me", nil)
}

//Personal.AI order the ending
