package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leadroute/leadadmin/internal/ui/auth"
	"github.com/leadroute/leadadmin/internal/ui/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newLeadsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List and inspect captured leads",
	}

	var (
		limit  int
		offset int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of leads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.svc.ListLeads(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			return a.out.LeadPage(page)
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "page size (default PAGE_SIZE)")
	list.Flags().IntVar(&offset, "offset", 0, "number of leads to skip")

	get := &cobra.Command{
		Use:   "get <lead-id>",
		Short: "Show a lead and the payload it was submitted with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := a.svc.GetLead(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.LeadDetail(detail)
		},
	}

	var watchOffset int
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Show a page of leads and show it again whenever the stored admin token changes",
		Long: `watch prints one page of leads, then watches the credentials file. Each time the token
is changed (e.g. by "leadadmin token set" in another terminal) the page is requested again with the
new token. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watchLeads(cmd.Context(), watchOffset)
		},
	}
	watch.Flags().IntVar(&watchOffset, "offset", 0, "number of leads to skip")

	cmd.AddCommand(list, get, watch)
	return cmd
}

func (a *app) watchLeads(ctx context.Context, offset int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.AdminToken != "" {
		a.logger.Warn("ADMIN_API_TOKEN is set, changes to the credentials file will not be used")
	}

	pager := a.svc.NewLeadPager(offset)
	show := func(page *types.LeadPage, err error) {
		if err != nil {
			printError(os.Stderr, err)
			return
		}
		if err := a.out.LeadPage(page); err != nil {
			a.logger.Error("could not render leads", slog.String("error", err.Error()))
		}
	}
	show(pager.Refresh(ctx))

	changes := a.creds.Subscribe()

	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.AdminToken == "" {
		g.Go(func() error {
			return auth.Watch(gctx, a.store, a.creds, a.logger)
		})
	}
	g.Go(func() error {
		pager.Follow(gctx, changes, func(page *types.LeadPage, err error) {
			fmt.Fprintln(os.Stderr, "admin token changed, reloading")
			show(page, err)
		})
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
