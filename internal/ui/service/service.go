// Package service is the data-access boundary of the admin client.
//
// It calls the admin API through the client package and normalizes every response exactly once,
// so callers only ever see the canonical records from the types package.
// API errors are returned unchanged; their message is the server's response text.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/ui/client"
)

// API is the admin API surface used by the service (implemented by *client.Client)
type API interface {
	ListLeads(ctx context.Context, params client.ListLeadsParams) (json.RawMessage, error)
	GetLead(ctx context.Context, id string) (json.RawMessage, error)

	ListDestinations(ctx context.Context) (json.RawMessage, error)
	UpdateDestination(ctx context.Context, id string, req client.DestinationUpdate) (json.RawMessage, error)
	TestDestination(ctx context.Context, id string) (json.RawMessage, error)

	ListFunnels(ctx context.Context) (json.RawMessage, error)
	UpsertFunnel(ctx context.Context, key string, req client.FunnelUpsert) (json.RawMessage, error)
	DeleteFunnel(ctx context.Context, key string) (json.RawMessage, error)

	ListRoutes(ctx context.Context, funnelKey string) (json.RawMessage, error)
	CreateRoute(ctx context.Context, req client.RouteInput) (json.RawMessage, error)
	UpdateRoute(ctx context.Context, id string, req client.RouteInput) (json.RawMessage, error)
	DeleteRoute(ctx context.Context, id string) (json.RawMessage, error)

	ListProviderKeys(ctx context.Context) (json.RawMessage, error)
	UpsertProviderKey(ctx context.Context, provider, apiKey string) (json.RawMessage, error)
}

// Service provides the admin operations
type Service struct {
	api      API
	pageSize int
}

// New creates a Service. A non-positive pageSize uses the default of 20.
func New(api API, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = leadadmin.DefaultPageSize
	}
	return &Service{
		api:      api,
		pageSize: pageSize,
	}
}

// Service package errors.
var (
	// ErrNoMorePages is returned by LeadPager.Next when the backend reported the last page
	ErrNoMorePages = errors.New("no more leads")
	// ErrMissingID is returned when an operation is called without the id/key it acts on
	ErrMissingID = errors.New("an id is required")
)

// ConfigParseError is returned when an edited destination configuration is not valid JSON.
// It is raised before any request is sent.
type ConfigParseError struct {
	Err error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("config is not valid JSON: %v", e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}
