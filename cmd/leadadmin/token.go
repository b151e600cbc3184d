package main

import (
	"fmt"
	"strings"

	"github.com/leadroute/leadadmin/internal/ui/render"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored admin token",
		Long: `The admin token is sent as a bearer token on every admin API request.
"token set" persists it in the credentials file; ADMIN_API_TOKEN overrides the stored value.`,
	}

	set := &cobra.Command{
		Use:   "set [token]",
		Short: "Store the admin token. The token is read from stdin when not given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				text, err := readInput(cmd, "-")
				if err != nil {
					return err
				}
				token = text
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("the token must not be empty")
			}

			if err := a.store.Save(token); err != nil {
				return err
			}
			a.creds.Set(token)
			if a.cfg.AdminToken != "" {
				a.logger.Warn("ADMIN_API_TOKEN is set and takes precedence over the stored token")
			}
			return a.out.Message("token saved to %s", a.store.Path())
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			a.creds.Set("")
			return a.out.Message("token removed")
		},
	}

	var reveal bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the token in use (masked unless --reveal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := a.creds.Token()
			if token == "" {
				return a.out.Message("no token set")
			}
			source := a.store.Path()
			if a.cfg.AdminToken != "" {
				source = "ADMIN_API_TOKEN"
			}
			if !reveal {
				token = render.MaskSecret(token)
			}
			return a.out.Message("%s (from %s)", token, source)
		},
	}
	show.Flags().BoolVar(&reveal, "reveal", false, "print the token unmasked")

	cmd.AddCommand(set, clearCmd, show)
	return cmd
}
