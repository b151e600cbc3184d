package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leadroute/leadadmin/internal/ui/client"
	"github.com/leadroute/leadadmin/internal/ui/normalize"
	"github.com/leadroute/leadadmin/internal/ui/types"
)

// DestinationEdit is a destination as edited by an operator: ConfigText is the JSON text of the
// configuration, exactly as typed.
type DestinationEdit struct {
	Type       string
	Enabled    bool
	ConfigText string
}

// ListDestinations returns all destinations with canonical field names and a decoded config
func (s *Service) ListDestinations(ctx context.Context) ([]types.Destination, error) {
	body, err := s.api.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}

	destinations, err := normalize.Destinations(body)
	if err != nil {
		return nil, fmt.Errorf("normalizing destinations: %w", err)
	}
	return destinations, nil
}

// ParseConfigText decodes edited configuration text. Blank text is an empty object.
func ParseConfigText(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return map[string]any{}, nil
	}
	var config any
	if err := normalize.Unmarshal([]byte(text), &config); err != nil {
		return nil, &ConfigParseError{Err: err}
	}
	return config, nil
}

// FormatConfig renders a destination config as the indented JSON an operator edits
func FormatConfig(config map[string]any) string {
	if config == nil {
		config = map[string]any{}
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// UpdateDestination saves an edited destination.
// The config text is parsed first; if it is not valid JSON a *ConfigParseError is returned and
// nothing is sent to the API.
func (s *Service) UpdateDestination(ctx context.Context, id string, edit DestinationEdit) error {
	if id == "" {
		return ErrMissingID
	}

	config, err := ParseConfigText(edit.ConfigText)
	if err != nil {
		return err
	}

	_, err = s.api.UpdateDestination(ctx, id, client.DestinationUpdate{
		Type:    edit.Type,
		Enabled: edit.Enabled,
		Config:  config,
	})
	return err
}

// TestDestination asks the backend to send a test lead to the destination
func (s *Service) TestDestination(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	_, err := s.api.TestDestination(ctx, id)
	return err
}

// EnabledDestinations filters destinations to those that can be chosen for a new route
func EnabledDestinations(destinations []types.Destination) []types.Destination {
	enabled := make([]types.Destination, 0, len(destinations))
	for _, d := range destinations {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}
	return enabled
}
