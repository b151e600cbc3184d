package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	leadadmin "github.com/leadroute/leadadmin"
)

// ListLeadsParams selects a page of leads. A non-positive Limit uses the default page size,
// a negative Offset is treated as 0.
type ListLeadsParams struct {
	Limit  int
	Offset int
}

// ListLeads returns one page of leads (GET /admin/leads?limit=&offset=)
func (c *Client) ListLeads(ctx context.Context, params ListLeadsParams) (json.RawMessage, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = leadadmin.DefaultPageSize
	}
	offset := max(params.Offset, 0)

	return c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/leads?limit=%d&offset=%d", limit, offset), nil)
}

// GetLead returns a lead and its raw payload (GET /admin/leads/{id})
func (c *Client) GetLead(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/admin/leads/"+url.PathEscape(id), nil)
}
