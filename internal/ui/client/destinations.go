package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// DestinationUpdate is the replacement sent when a destination is saved.
// Config is any JSON value; nil is sent as an empty object.
type DestinationUpdate struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
	Config  any    `json:"config"`
}

// ListDestinations returns all configured destinations (GET /admin/destinations)
func (c *Client) ListDestinations(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/admin/destinations", nil)
}

// UpdateDestination replaces the type, enabled flag and config of a destination (PUT /admin/destinations/{id})
func (c *Client) UpdateDestination(ctx context.Context, id string, req DestinationUpdate) (json.RawMessage, error) {
	if req.Config == nil {
		req.Config = map[string]any{}
	}
	return c.do(ctx, http.MethodPut, "/admin/destinations/"+url.PathEscape(id), req)
}

// TestDestination asks the backend to deliver a test lead to the destination (POST /admin/destinations/{id}/test)
func (c *Client) TestDestination(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/admin/destinations/"+url.PathEscape(id)+"/test", nil)
}
