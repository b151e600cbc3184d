package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type FunnelUpsert struct {
	Name    string `json:"name"`
	Enabled bool   `json:"is_enabled"`
}

// ListFunnels returns all funnels (GET /admin/funnels)
func (c *Client) ListFunnels(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/admin/funnels", nil)
}

// UpsertFunnel creates a funnel when key is empty (POST /admin/funnels),
// otherwise it replaces the funnel with that key (PUT /admin/funnels/{key})
func (c *Client) UpsertFunnel(ctx context.Context, key string, req FunnelUpsert) (json.RawMessage, error) {
	if key == "" {
		return c.do(ctx, http.MethodPost, "/admin/funnels", req)
	}
	return c.do(ctx, http.MethodPut, "/admin/funnels/"+url.PathEscape(key), req)
}

// DeleteFunnel deletes the funnel with key (DELETE /admin/funnels/{key})
func (c *Client) DeleteFunnel(ctx context.Context, key string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/admin/funnels/"+url.PathEscape(key), nil)
}
