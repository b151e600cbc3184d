package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leadroute/leadadmin/internal/logger"
	"github.com/leadroute/leadadmin/internal/ui/auth"
	"github.com/leadroute/leadadmin/internal/ui/client"
	"github.com/leadroute/leadadmin/internal/ui/config"
	"github.com/leadroute/leadadmin/internal/ui/render"
	"github.com/leadroute/leadadmin/internal/ui/service"
	"github.com/leadroute/leadadmin/internal/version"
	"github.com/spf13/cobra"
)

// app carries the values every command needs. It is filled in by the root command's
// PersistentPreRunE once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *auth.Store
	creds  *auth.Credentials
	svc    *service.Service
	out    *render.Renderer

	// flag values
	apiBase  string
	output   string
	logLevel string
	color    bool
}

func main() {
	a := &app{}
	cmd := newRootCmd(a)

	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leadadmin",
		Short: "Administer a lead-routing backend",
		Long: `leadadmin lists captured leads, manages destination integrations, maps funnels to
prioritized destination routes and manages provider keys through the admin API.

The API base URL is read from API_BASE_URL (default http://127.0.0.1:8787). The admin token is
read from ADMIN_API_TOKEN or from the credentials file written by "leadadmin token set".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.Version = version.Get().String()

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.apiBase, "api-base", "", "admin API base URL (overrides API_BASE_URL)")
	flags.StringVarP(&a.output, "output", "o", "", "output format: table or json (overrides OUTPUT_FORMAT)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.BoolVar(&a.color, "color", false, "syntax highlight JSON output")

	cmd.AddCommand(
		newLeadsCmd(a),
		newDestinationsCmd(a),
		newFunnelsCmd(a),
		newRoutesCmd(a),
		newRoutingCmd(a),
		newProviderKeysCmd(a),
		newTokenCmd(a),
		newStubServerCmd(),
	)
	return cmd
}

// init loads the configuration, applies flag overrides and builds the service
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-base") {
		cfg.APIBaseURL = a.apiBase
	}
	if flags.Changed("output") {
		cfg.Output = a.output
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	// logs go to stderr so stdout only carries data
	a.logger = logger.InitLogger(cmd.ErrOrStderr(), logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	a.store = auth.NewStore(cfg.TokenFile)
	token := cfg.AdminToken
	if token == "" {
		token, err = a.store.Load()
		if err != nil {
			return err
		}
	}
	a.creds = auth.NewCredentials(token)

	apiClient := client.NewClient(cfg.APIBaseURL, a.creds, a.logger)
	a.svc = service.New(apiClient, cfg.PageSize)
	a.out = render.New(cmd.OutOrStdout(), cfg.Output, a.color)

	a.logger.Debug("configuration loaded",
		slog.String("api_base_url", apiClient.BaseURL()),
		slog.String("token_file", cfg.TokenFile),
		slog.Bool("token_set", token != ""),
	)
	return nil
}

// printError writes "Error: <message>". API errors carry the server's response text; for
// authorization and connection failures a hint follows on its own line.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)

	var clientErr *client.ClientError
	if errors.As(err, &clientErr) && (clientErr.StatusCode == 0 || clientErr.StatusCode == 401) {
		if hint := clientErr.UserError(); hint != "" && hint != clientErr.Error() {
			fmt.Fprintln(w, hint)
		}
	}
}
