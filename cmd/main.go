package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cpc_bidder/internal/application"
	"cpc_bidder/internal/config"
	"cpc_bidder/pkg/contextx"
	"cpc_bidder/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log := slog.New(logx.NewHandler(os.Stdout, cfg.Log.Format, logx.ParseLevel(cfg.Log.Level)))
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}
