package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"cpc_bidder/internal/config"
	"cpc_bidder/internal/domain/service/audit"
	"cpc_bidder/internal/domain/service/bid"
	"cpc_bidder/internal/infrastructure/notifier"
	"cpc_bidder/internal/infrastructure/persistence"
	"cpc_bidder/internal/server"
	"cpc_bidder/internal/worker"
	"cpc_bidder/pkg/application/modules"
	"cpc_bidder/pkg/logx"
	"cpc_bidder/pkg/probe"
)

// Run поднимает HTTP API, воркер и планировщик аудита, сервера проб и метрик
// и блокируется до отмены ctx или падения одного из них.
func Run(ctx context.Context, cfg config.Config) error { //nolint:funlen
	pg := NewPostgres(cfg.Postgres)
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if cfg.Postgres.AutoMigrate {
		if err := persistence.Migrate(cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("persistence.Migrate: %w", err)
		}

		logger(ctx).Info("migrations applied")
	}

	rds := NewRedis(cfg.Redis)
	rds.Client(ctx)
	defer rds.Close(ctx)

	asynqLogger, err := NewAsynqLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("NewAsynqLogger: %w", err)
	}
	defer asynqLogger.Sync() //nolint:errcheck

	asynqClient := asynq.NewClient(rds.AsynqOpt())
	defer asynqClient.Close()

	inspector := asynq.NewInspector(rds.AsynqOpt())
	defer inspector.Close()

	bidRepo := persistence.NewBidRepository(db)

	auditor := audit.NewAuditor(bidRepo, os.Stdout).WithWindow(cfg.Audit.Window)

	if cfg.Bot.Enabled() {
		tg, err := notifier.NewTelegramNotifier(cfg.Bot.Token, cfg.Bot.ChatID, cfg.Audit.Window)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramNotifier: %w", err)
		}

		auditor = auditor.WithNotifier(tg)
	}

	enqueuer := worker.NewAuditEnqueuer(asynqClient, cfg.Audit.Queue, cfg.Audit.Retention)

	srv := server.NewServer(
		server.NewBidServer(bid.NewBidService(bidRepo)),
		server.NewAuditServer(auditor, enqueuer, worker.NewAuditResults(inspector, cfg.Audit.Queue)),
	)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{ //nolint:exhaustruct
		Addr:         cfg.HTTP.Address,
		Handler:      server.NewRouter(srv, logx.NewSensitiveDataMasker(), cfg.HTTP.LogFieldMaxLen),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	})

	modules.AsynqServer{
		Redis:       rds.AsynqOpt(),
		Concurrency: cfg.Audit.Concurrency,
		Logger:      asynqLogger,
	}.Run(ctx, g, modules.AsynqQueues{cfg.Audit.Queue: 1}, modules.AsynqHandler{
		Pattern: worker.TypeBudgetAudit,
		Handle:  worker.NewAuditHandler(auditor).ProcessTask,
	})

	if cfg.Audit.Cronspec != "" {
		loc, err := cfg.Audit.Location()
		if err != nil {
			return fmt.Errorf("cfg.Audit.Location: %w", err)
		}

		err = modules.AsynqScheduler{
			Redis:    rds.AsynqOpt(),
			Location: loc,
			Logger:   asynqLogger,
		}.Run(ctx, g, modules.AsynqPeriodicTask{
			Cronspec: cfg.Audit.Cronspec,
			Task:     worker.NewAuditTask(),
			Options:  enqueuer.Options(),
		})
		if err != nil {
			return fmt.Errorf("asynqScheduler.Run: %w", err)
		}
	}

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.Address,
		Checks: map[string]probe.Check{
			"postgres": pg.Ping,
			"redis":    rds.Ping,
		},
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.Address,
	}.Run(ctx, g)

	logger(ctx).Info(
		"application started",
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
		slog.String(logx.FieldQueue, cfg.Audit.Queue),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
