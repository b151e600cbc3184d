package service

import (
	"context"
	"fmt"

	"github.com/leadroute/leadadmin/internal/ui/normalize"
	"github.com/leadroute/leadadmin/internal/ui/types"
)

func (s *Service) ListProviderKeys(ctx context.Context) ([]types.ProviderKey, error) {
	body, err := s.api.ListProviderKeys(ctx)
	if err != nil {
		return nil, err
	}

	keys, err := normalize.ProviderKeys(body)
	if err != nil {
		return nil, fmt.Errorf("normalizing provider keys: %w", err)
	}
	return keys, nil
}

// SetProviderKey stores the API key used for provider
func (s *Service) SetProviderKey(ctx context.Context, provider, apiKey string) error {
	if provider == "" {
		return ErrMissingID
	}
	_, err := s.api.UpsertProviderKey(ctx, provider, apiKey)
	return err
}
