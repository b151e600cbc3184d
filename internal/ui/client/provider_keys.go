package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type ProviderKeyUpdate struct {
	APIKey string `json:"api_key"`
}

// ListProviderKeys returns the stored provider credentials (GET /admin/provider-keys)
func (c *Client) ListProviderKeys(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/admin/provider-keys", nil)
}

// UpsertProviderKey sets the API key stored for provider (PUT /admin/provider-keys/{provider})
func (c *Client) UpsertProviderKey(ctx context.Context, provider, apiKey string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/admin/provider-keys/"+url.PathEscape(provider), ProviderKeyUpdate{APIKey: apiKey})
}
