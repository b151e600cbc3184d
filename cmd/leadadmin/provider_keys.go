package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newProviderKeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "provider-keys",
		Aliases: []string{"keys"},
		Short:   "Manage third-party provider API keys",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List provider keys (masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := a.svc.ListProviderKeys(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.ProviderKeys(keys)
		},
	}

	var apiKey string
	set := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store the API key of a provider. The key is read from stdin when --key is not given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := apiKey
			if !cmd.Flags().Changed("key") {
				text, err := readInput(cmd, "-")
				if err != nil {
					return err
				}
				key = strings.TrimSpace(text)
			}
			if key == "" {
				return fmt.Errorf("an API key is required")
			}
			if err := a.svc.SetProviderKey(cmd.Context(), args[0], key); err != nil {
				return err
			}
			return a.out.Message("key for %s saved", args[0])
		},
	}
	set.Flags().StringVar(&apiKey, "key", "", "the API key")

	cmd.AddCommand(list, set)
	return cmd
}
