package normalize

import (
	"encoding/json"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/ui/types"
)

func Funnel(r Record) types.Funnel {
	return types.Funnel{
		Key:     r.String("key", "funnel_key"),
		Name:    r.String("name"),
		Enabled: r.Bool("enabled", "is_enabled"),
	}
}

// Funnels normalizes a funnel list response
func Funnels(body json.RawMessage) ([]types.Funnel, error) {
	records, err := Records(body, leadadmin.FunnelsKey)
	if err != nil {
		return nil, err
	}
	funnels := make([]types.Funnel, 0, len(records))
	for _, r := range records {
		funnels = append(funnels, Funnel(r))
	}
	return funnels, nil
}

func Route(r Record) types.Route {
	return types.Route{
		ID:              r.String("id"),
		FunnelKey:       r.String("funnel_key"),
		DestinationID:   r.String("destination_id"),
		Priority:        r.Int("priority"),
		Enabled:         r.Bool("enabled", "is_enabled"),
		DestinationName: r.String("destination_name"),
		DestinationType: r.String("destination_type"),
	}
}

// Routes normalizes a route list response
func Routes(body json.RawMessage) ([]types.Route, error) {
	records, err := Records(body, leadadmin.RoutesKey)
	if err != nil {
		return nil, err
	}
	routes := make([]types.Route, 0, len(records))
	for _, r := range records {
		routes = append(routes, Route(r))
	}
	return routes, nil
}

func ProviderKey(r Record) types.ProviderKey {
	return types.ProviderKey{
		Provider: r.String("provider"),
		APIKey:   r.String("api_key"),
	}
}

// ProviderKeys normalizes a provider key list response
func ProviderKeys(body json.RawMessage) ([]types.ProviderKey, error) {
	records, err := Records(body, leadadmin.ProviderKeysKey)
	if err != nil {
		return nil, err
	}
	keys := make([]types.ProviderKey, 0, len(records))
	for _, r := range records {
		keys = append(keys, ProviderKey(r))
	}
	return keys, nil
}
