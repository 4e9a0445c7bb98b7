package modules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type AsynqPeriodicTask struct {
	Cronspec string
	Task     *asynq.Task
	Options  []asynq.Option
}

// AsynqScheduler enqueues periodic tasks; the AsynqServer executes them.
type AsynqScheduler struct {
	Redis    asynq.RedisClientOpt
	Location *time.Location
	Logger   asynq.Logger
}

func (s AsynqScheduler) Run(
	ctx context.Context,
	g *errgroup.Group,
	tasks ...AsynqPeriodicTask,
) error {
	scheduler := asynq.NewScheduler(s.Redis, &asynq.SchedulerOpts{
		Location: s.Location,
		Logger:   s.Logger,
	})

	for _, t := range tasks {
		entryID, err := scheduler.Register(t.Cronspec, t.Task, t.Options...)
		if err != nil {
			return fmt.Errorf("scheduler.Register(%s): %w", t.Task.Type(), err)
		}

		logger(ctx).Info(
			"periodic task registered",
			slog.String("entry-id", entryID),
			slog.String("cronspec", t.Cronspec),
			slog.String("task-type", t.Task.Type()),
		)
	}

	g.Go(func() error {
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}

		logger(ctx).Info("asynq scheduler started")

		<-ctx.Done()

		scheduler.Shutdown()

		logger(ctx).Info("asynq scheduler stopped")

		return nil
	})

	return nil
}
