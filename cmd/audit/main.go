// Command audit runs the daily budget audit and bid maintenance tasks by hand.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"cpc_bidder/internal/application"
	"cpc_bidder/internal/config"
	"cpc_bidder/internal/domain/service/audit"
	"cpc_bidder/internal/infrastructure/persistence"
	"cpc_bidder/internal/worker"
	"cpc_bidder/pkg/contextx"
	"cpc_bidder/pkg/logx"
)

var errPurgeNotConfirmed = errors.New("refusing to purge without --yes")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1) //nolint:gocritic
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg   config.Config
		async bool
	)

	root := &cobra.Command{
		Use:          "audit",
		Short:        "Audit bids calculated within the audit window",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if async {
				return runAsync(cmd, &cfg)
			}

			return runSync(cmd, &cfg)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error

			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}

			// Logs go to stderr so stdout carries only the report.
			log := slog.New(logx.NewHandler(os.Stderr, cfg.Log.Format, logx.ParseLevel(cfg.Log.Level)))
			slog.SetDefault(log)
			cmd.SetContext(contextx.WithLogger(cmd.Context(), log))

			return nil
		},
	}

	root.Flags().BoolVar(&async, "async", false, "enqueue the audit for the worker instead of running it here")
	root.AddCommand(newPurgeCmd(&cfg))

	return root
}

func runSync(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	pg := application.NewPostgres(cfg.Postgres)
	defer pg.Close(ctx)

	auditor := audit.NewAuditor(persistence.NewBidRepository(pg.Client(ctx)), cmd.OutOrStdout()).
		WithWindow(cfg.Audit.Window)

	summary, err := auditor.Run(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("auditor.Run: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Audit completed: %d bids reviewed, %d flagged\n", summary.TotalBids, summary.FlaggedBids)

	return nil
}

func runAsync(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	client := asynq.NewClient(application.NewRedis(cfg.Redis).AsynqOpt())
	defer client.Close()

	taskID, err := worker.NewAuditEnqueuer(client, cfg.Audit.Queue, cfg.Audit.Retention).Enqueue(ctx)
	if err != nil {
		return fmt.Errorf("enqueuer.Enqueue: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Task scheduled: %s\n", taskID)

	return nil
}

func newPurgeCmd(cfg *config.Config) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every stored bid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return errPurgeNotConfirmed
			}

			ctx := cmd.Context()

			pg := application.NewPostgres(cfg.Postgres)
			defer pg.Close(ctx)

			n, err := persistence.NewBidRepository(pg.Client(ctx)).Purge(ctx)
			if err != nil {
				return fmt.Errorf("bidRepository.Purge: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d bids\n", n)

			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm deleting all bids")

	return cmd
}
