package main

import (
	"fmt"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/ui/service"
	"github.com/spf13/cobra"
)

func newFunnelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funnels",
		Short: "Manage funnels",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List funnels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			funnels, err := a.svc.ListFunnels(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.Funnels(funnels)
		},
	}

	var (
		name    string
		enabled bool
	)
	upsert := &cobra.Command{
		Use:   "upsert [funnel-key]",
		Short: "Create a funnel, or replace the funnel with the given key",
		Long: `Without a key a new funnel is created and the backend assigns its key.
With a key the funnel is created or replaced under that key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			if key == "" && name == "" {
				return fmt.Errorf("--name is required when creating a funnel")
			}
			if err := a.svc.UpsertFunnel(cmd.Context(), key, service.FunnelInput{Name: name, Enabled: enabled}); err != nil {
				return err
			}
			if key == "" {
				return a.out.Message("funnel %q created", name)
			}
			return a.out.Message("funnel %s saved", key)
		},
	}
	upsert.Flags().StringVar(&name, "name", "", "display name")
	upsert.Flags().BoolVar(&enabled, "enabled", true, "whether the funnel accepts leads")

	del := &cobra.Command{
		Use:   "delete <funnel-key>",
		Short: "Delete a funnel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.DeleteFunnel(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.out.Message("funnel %s deleted", args[0])
		},
	}

	cmd.AddCommand(list, upsert, del)
	return cmd
}

// routeFlags are shared by routes create and routes update
type routeFlags struct {
	funnel      string
	destination string
	priority    int
	enabled     bool
}

func (f *routeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.funnel, "funnel", "", "funnel key")
	cmd.Flags().StringVar(&f.destination, "destination", "", "destination id")
	cmd.Flags().IntVar(&f.priority, "priority", leadadmin.DefaultRoutePriority, "sort weight, lower runs first")
	cmd.Flags().BoolVar(&f.enabled, "enabled", true, "whether the route is active")
}

func newRoutesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Manage the routes from funnels to destinations",
	}

	var funnelKey string
	list := &cobra.Command{
		Use:   "list",
		Short: "List routes, optionally of one funnel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, err := a.svc.ListRoutes(cmd.Context(), funnelKey)
			if err != nil {
				return err
			}
			return a.out.Routes(routes)
		},
	}
	list.Flags().StringVar(&funnelKey, "funnel", "", "only routes of this funnel")

	var createFlags routeFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Route a funnel's leads to a destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if createFlags.funnel == "" || createFlags.destination == "" {
				return fmt.Errorf("--funnel and --destination are required")
			}
			err := a.svc.CreateRoute(cmd.Context(), service.RouteInput{
				FunnelKey:     createFlags.funnel,
				DestinationID: createFlags.destination,
				Priority:      createFlags.priority,
				Enabled:       createFlags.enabled,
			})
			if err != nil {
				return err
			}
			return a.out.Message("route from %s to %s created", createFlags.funnel, createFlags.destination)
		},
	}
	createFlags.register(create)

	var updateFlags routeFlags
	update := &cobra.Command{
		Use:   "update <route-id>",
		Short: "Replace a route. Values not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.svc.FindRoute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := service.RouteInput{
				FunnelKey:     current.FunnelKey,
				DestinationID: current.DestinationID,
				Priority:      current.Priority,
				Enabled:       current.Enabled,
			}
			flags := cmd.Flags()
			if flags.Changed("funnel") {
				in.FunnelKey = updateFlags.funnel
			}
			if flags.Changed("destination") {
				in.DestinationID = updateFlags.destination
			}
			if flags.Changed("priority") {
				in.Priority = updateFlags.priority
			}
			if flags.Changed("enabled") {
				in.Enabled = updateFlags.enabled
			}
			if err := a.svc.UpdateRoute(cmd.Context(), current.ID, in); err != nil {
				return err
			}
			return a.out.Message("route %s saved", current.ID)
		},
	}
	updateFlags.register(update)

	toggle := &cobra.Command{
		Use:   "toggle <route-id>",
		Short: "Enable a disabled route or disable an enabled one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := a.svc.FindRoute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.svc.ToggleRoute(cmd.Context(), route); err != nil {
				return err
			}
			state := "enabled"
			if route.Enabled {
				state = "disabled"
			}
			return a.out.Message("route %s %s", route.ID, state)
		},
	}

	del := &cobra.Command{
		Use:   "delete <route-id>",
		Short: "Delete a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.DeleteRoute(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.out.Message("route %s deleted", args[0])
		},
	}

	cmd.AddCommand(list, create, update, toggle, del)
	return cmd
}

func newRoutingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routing",
		Short: "Show how funnels are routed",
	}

	show := &cobra.Command{
		Use:   "show [funnel-key]",
		Short: "Show the routes of a funnel (the first funnel when no key is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			view, err := a.svc.LoadRouting(cmd.Context(), key)
			if err != nil {
				return err
			}
			return a.out.RoutingView(view, service.EnabledDestinations(view.Destinations))
		},
	}

	cmd.AddCommand(show)
	return cmd
}
