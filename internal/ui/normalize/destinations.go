package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/ui/types"
)

// Config returns the destination configuration held in config (current) or config_json (legacy).
//
// Either may arrive as a structured object or as a JSON encoded string. Absent, null or empty string
// yields an empty map. A string that does not decode to a JSON object is an error.
func Config(r Record) (map[string]any, error) {
	v := r.Get("config", "config_json")
	if v == nil {
		return map[string]any{}, nil
	}

	if v[0] == '"' {
		s := String(v)
		if len(bytes.TrimSpace([]byte(s))) == 0 {
			return map[string]any{}, nil
		}
		v = json.RawMessage(s)
	}

	var config map[string]any
	if err := Unmarshal(v, &config); err != nil {
		return nil, fmt.Errorf("config is not a JSON object: %w", err)
	}
	if config == nil {
		config = map[string]any{}
	}
	return config, nil
}

// Destination canonicalizes one destination record
func Destination(r Record) (types.Destination, error) {
	id := r.String("id")
	config, err := Config(r)
	if err != nil {
		return types.Destination{}, fmt.Errorf("destination %s: %w", id, err)
	}
	return types.Destination{
		ID:      id,
		Name:    r.String("name"),
		Type:    r.String("type", "destination_type"),
		Enabled: r.Bool("enabled", "is_enabled"),
		Config:  config,
	}, nil
}

// Destinations normalizes a destination list response
func Destinations(body json.RawMessage) ([]types.Destination, error) {
	records, err := Records(body, leadadmin.DestinationsKey)
	if err != nil {
		return nil, err
	}
	destinations := make([]types.Destination, 0, len(records))
	for _, r := range records {
		d, err := Destination(r)
		if err != nil {
			return nil, err
		}
		destinations = append(destinations, d)
	}
	return destinations, nil
}
