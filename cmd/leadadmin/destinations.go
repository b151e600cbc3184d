package main

import (
	"fmt"
	"io"
	"os"

	"github.com/leadroute/leadadmin/internal/ui/service"
	"github.com/leadroute/leadadmin/internal/ui/types"
	"github.com/spf13/cobra"
)

func newDestinationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "destinations",
		Aliases: []string{"dest"},
		Short:   "Manage destination integrations (webhook, CRM, email)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			destinations, err := a.svc.ListDestinations(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.Destinations(destinations)
		},
	}

	show := &cobra.Command{
		Use:   "show <destination-id>",
		Short: "Show the configuration of a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := findDestination(cmd, a, args[0])
			if err != nil {
				return err
			}
			if a.out.JSON() {
				return a.out.Value(d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) type=%s enabled=%t\n", d.Name, d.ID, d.Type, d.Enabled)
			return a.out.RawJSON([]byte(service.FormatConfig(d.Config)))
		},
	}

	var (
		destType   string
		enabled    bool
		configText string
		configFile string
	)
	update := &cobra.Command{
		Use:   "update <destination-id>",
		Short: "Replace the type, enabled flag and configuration of a destination",
		Long: `update saves a destination. Values not given on the command line keep their current
value. The configuration must be valid JSON; it is checked before anything is sent.

  leadadmin destinations update d1 --config '{"url":"https://example.com/hook"}'
  leadadmin destinations update d1 --config-file hook.json --enabled=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			// the new config is checked before anything is requested
			newConfig, hasConfig, err := editedConfig(cmd, configText, configFile)
			if err != nil {
				return err
			}
			if hasConfig {
				if _, err := service.ParseConfigText(newConfig); err != nil {
					return err
				}
			}

			current, err := findDestination(cmd, a, args[0])
			if err != nil {
				return err
			}

			edit := service.DestinationEdit{
				Type:       current.Type,
				Enabled:    current.Enabled,
				ConfigText: service.FormatConfig(current.Config),
			}
			if flags.Changed("type") {
				edit.Type = destType
			}
			if flags.Changed("enabled") {
				edit.Enabled = enabled
			}
			if hasConfig {
				edit.ConfigText = newConfig
			}

			if err := a.svc.UpdateDestination(cmd.Context(), current.ID, edit); err != nil {
				return err
			}
			return a.out.Message("destination %s saved", current.ID)
		},
	}
	update.Flags().StringVar(&destType, "type", "", "destination type (webhook, crm_contacts, internal_notification_email, client_email)")
	update.Flags().BoolVar(&enabled, "enabled", false, "whether the destination receives leads")
	update.Flags().StringVar(&configText, "config", "", "configuration as JSON text")
	update.Flags().StringVar(&configFile, "config-file", "", "read the configuration from a file (- for stdin)")

	test := &cobra.Command{
		Use:   "test <destination-id>",
		Short: "Send a test lead to a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.TestDestination(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.out.Message("test lead sent to %s", args[0])
		},
	}

	cmd.AddCommand(list, show, update, test)
	return cmd
}

// editedConfig returns the config text given with --config or --config-file, and whether one was given
func editedConfig(cmd *cobra.Command, text, path string) (string, bool, error) {
	flags := cmd.Flags()
	switch {
	case flags.Changed("config") && flags.Changed("config-file"):
		return "", false, fmt.Errorf("use either --config or --config-file")
	case flags.Changed("config"):
		return text, true, nil
	case flags.Changed("config-file"):
		text, err := readInput(cmd, path)
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	}
	return "", false, nil
}

func findDestination(cmd *cobra.Command, a *app, id string) (types.Destination, error) {
	destinations, err := a.svc.ListDestinations(cmd.Context())
	if err != nil {
		return types.Destination{}, err
	}
	for _, d := range destinations {
		if d.ID == id {
			return d, nil
		}
	}
	return types.Destination{}, fmt.Errorf("destination %s not found", id)
}

// readInput reads a whole file, or stdin when path is "-"
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
