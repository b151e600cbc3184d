// Package types holds the canonical representation of admin API records.
//
// Backend versions disagree on envelope and field names; the normalize package maps every
// variant onto these types so nothing above the service layer branches on backend version.
package types

import (
	"encoding/json"
	"time"
)

// =============================================================================
// LEADS
// =============================================================================

// Lead is a captured lead. Leads are read-only from the admin client.
type Lead struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Funnel     string          `json:"funnel"`
	Status     string          `json:"status"`
	ReceivedAt string          `json:"received_at"` // as sent by the backend
	Received   time.Time       `json:"-"`           // zero when ReceivedAt could not be parsed
	Raw        json.RawMessage `json:"-"`
}

// LeadDetail is a single lead together with the payload it was originally submitted with
type LeadDetail struct {
	Lead       Lead            `json:"lead"`
	RawPayload json.RawMessage `json:"raw_payload"`
}

// LeadPage is one page of the lead list.
//
// The admin API does not consistently report a total count: Total and HasMore are only set when the
// backend includes them, callers must not infer either from the page length.
type LeadPage struct {
	Leads   []Lead `json:"leads"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	Total   *int   `json:"total,omitempty"`
	HasMore *bool  `json:"has_more,omitempty"`
}

// =============================================================================
// DESTINATIONS
// =============================================================================

// Destination is an external system that receives routed leads
type Destination struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Enabled bool           `json:"enabled"`
	Config  map[string]any `json:"config"`
}

// =============================================================================
// ROUTING
// =============================================================================

type Funnel struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// DisplayName returns the funnel name, falling back to its key
func (f Funnel) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Key
}

// Route binds a funnel to a destination. Priority is a sort weight; ties are broken by the backend.
type Route struct {
	ID              string `json:"id"`
	FunnelKey       string `json:"funnel_key"`
	DestinationID   string `json:"destination_id"`
	Priority        int    `json:"priority"`
	Enabled         bool   `json:"enabled"`
	DestinationName string `json:"destination_name,omitempty"`
	DestinationType string `json:"destination_type,omitempty"`
}

// RouteRow is a route annotated with the destination it points at
type RouteRow struct {
	Route
	DestinationLabel string `json:"destination_label"`
	TypeLabel        string `json:"type_label"`
}

// RoutingView is everything needed to show the routes of one funnel
type RoutingView struct {
	Funnels      []Funnel      `json:"funnels"`
	Destinations []Destination `json:"destinations"`
	SelectedKey  string        `json:"selected_key"`
	Routes       []RouteRow    `json:"routes"`
}

// =============================================================================
// PROVIDER KEYS
// =============================================================================

type ProviderKey struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}
