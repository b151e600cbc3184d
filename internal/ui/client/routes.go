package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// RouteInput is the body used to create or replace a route
type RouteInput struct {
	FunnelKey     string `json:"funnel_key"`
	DestinationID string `json:"destination_id"`
	Priority      int    `json:"priority"`
	Enabled       bool   `json:"is_enabled"`
}

// ListRoutes returns routes, optionally only those of one funnel (GET /admin/routes?funnel_key=)
func (c *Client) ListRoutes(ctx context.Context, funnelKey string) (json.RawMessage, error) {
	path := "/admin/routes"
	if funnelKey != "" {
		path += "?" + url.Values{"funnel_key": {funnelKey}}.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// CreateRoute adds a route (POST /admin/routes)
func (c *Client) CreateRoute(ctx context.Context, req RouteInput) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/admin/routes", req)
}

// UpdateRoute replaces a route (PUT /admin/routes/{id})
func (c *Client) UpdateRoute(ctx context.Context, id string, req RouteInput) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/admin/routes/"+url.PathEscape(id), req)
}

// DeleteRoute removes a route (DELETE /admin/routes/{id})
func (c *Client) DeleteRoute(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/admin/routes/"+url.PathEscape(id), nil)
}
