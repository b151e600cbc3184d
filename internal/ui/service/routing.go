package service

import (
	"context"
	"fmt"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/ui/client"
	"github.com/leadroute/leadadmin/internal/ui/normalize"
	"github.com/leadroute/leadadmin/internal/ui/types"
	"golang.org/x/sync/errgroup"
)

// FunnelInput is a funnel as created or edited by an operator
type FunnelInput struct {
	Name    string
	Enabled bool
}

// RouteInput is a route as created or edited by an operator.
// A zero Priority on create is replaced with the default priority (100).
type RouteInput struct {
	FunnelKey     string
	DestinationID string
	Priority      int
	Enabled       bool
}

func (r RouteInput) request() client.RouteInput {
	return client.RouteInput{
		FunnelKey:     r.FunnelKey,
		DestinationID: r.DestinationID,
		Priority:      r.Priority,
		Enabled:       r.Enabled,
	}
}

func (s *Service) ListFunnels(ctx context.Context) ([]types.Funnel, error) {
	body, err := s.api.ListFunnels(ctx)
	if err != nil {
		return nil, err
	}

	funnels, err := normalize.Funnels(body)
	if err != nil {
		return nil, fmt.Errorf("normalizing funnels: %w", err)
	}
	return funnels, nil
}

// UpsertFunnel creates a funnel (empty key, the backend assigns one) or updates the funnel with key
func (s *Service) UpsertFunnel(ctx context.Context, key string, in FunnelInput) error {
	_, err := s.api.UpsertFunnel(ctx, key, client.FunnelUpsert{
		Name:    in.Name,
		Enabled: in.Enabled,
	})
	return err
}

func (s *Service) DeleteFunnel(ctx context.Context, key string) error {
	if key == "" {
		return ErrMissingID
	}
	_, err := s.api.DeleteFunnel(ctx, key)
	return err
}

// ListRoutes returns the routes of a funnel, or every route when funnelKey is empty
func (s *Service) ListRoutes(ctx context.Context, funnelKey string) ([]types.Route, error) {
	body, err := s.api.ListRoutes(ctx, funnelKey)
	if err != nil {
		return nil, err
	}

	routes, err := normalize.Routes(body)
	if err != nil {
		return nil, fmt.Errorf("normalizing routes: %w", err)
	}
	return routes, nil
}

func (s *Service) CreateRoute(ctx context.Context, in RouteInput) error {
	if in.Priority == 0 {
		in.Priority = leadadmin.DefaultRoutePriority
	}
	_, err := s.api.CreateRoute(ctx, in.request())
	return err
}

func (s *Service) UpdateRoute(ctx context.Context, id string, in RouteInput) error {
	if id == "" {
		return ErrMissingID
	}
	_, err := s.api.UpdateRoute(ctx, id, in.request())
	return err
}

// ToggleRoute re-sends route with its enabled flag inverted
func (s *Service) ToggleRoute(ctx context.Context, route types.Route) error {
	return s.UpdateRoute(ctx, route.ID, RouteInput{
		FunnelKey:     route.FunnelKey,
		DestinationID: route.DestinationID,
		Priority:      route.Priority,
		Enabled:       !route.Enabled,
	})
}

func (s *Service) DeleteRoute(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	_, err := s.api.DeleteRoute(ctx, id)
	return err
}

// FindRoute returns the route with id from the full route list
func (s *Service) FindRoute(ctx context.Context, id string) (types.Route, error) {
	routes, err := s.ListRoutes(ctx, "")
	if err != nil {
		return types.Route{}, err
	}
	for _, r := range routes {
		if r.ID == id {
			return r, nil
		}
	}
	return types.Route{}, fmt.Errorf("route %s not found", id)
}

// LoadRouting loads the routing view of a funnel.
//
// Funnels and destinations are fetched in parallel and both must succeed; the first failure cancels
// the other request. When funnelKey is empty the first funnel is selected. Routes are only requested
// once a funnel is selected, so an installation without funnels issues two requests.
func (s *Service) LoadRouting(ctx context.Context, funnelKey string) (*types.RoutingView, error) {
	var (
		funnels      []types.Funnel
		destinations []types.Destination
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		funnels, err = s.ListFunnels(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		destinations, err = s.ListDestinations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &types.RoutingView{
		Funnels:      funnels,
		Destinations: destinations,
		SelectedKey:  funnelKey,
		Routes:       []types.RouteRow{},
	}
	if view.SelectedKey == "" && len(funnels) > 0 {
		view.SelectedKey = funnels[0].Key
	}
	if view.SelectedKey == "" {
		return view, nil
	}

	routes, err := s.ListRoutes(ctx, view.SelectedKey)
	if err != nil {
		return nil, err
	}
	view.Routes = AnnotateRoutes(routes, destinations)
	return view, nil
}

// AnnotateRoutes labels each route with its destination's name and type. Routes pointing at a
// destination that is not in the list fall back to the route's own denormalized fields, then the id.
func AnnotateRoutes(routes []types.Route, destinations []types.Destination) []types.RouteRow {
	byID := make(map[string]types.Destination, len(destinations))
	for _, d := range destinations {
		byID[d.ID] = d
	}

	rows := make([]types.RouteRow, 0, len(routes))
	for _, r := range routes {
		row := types.RouteRow{Route: r}
		if d, ok := byID[r.DestinationID]; ok {
			row.DestinationLabel = d.Name
			row.TypeLabel = d.Type
		}
		if row.DestinationLabel == "" {
			row.DestinationLabel = r.DestinationName
		}
		if row.DestinationLabel == "" {
			row.DestinationLabel = r.DestinationID
		}
		if row.TypeLabel == "" {
			row.TypeLabel = r.DestinationType
		}
		rows = append(rows, row)
	}
	return rows
}
