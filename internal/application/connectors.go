package application

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cpc_bidder/internal/config"
	"cpc_bidder/pkg/application/connectors"
)

func NewPostgres(cfg config.Postgres) *connectors.Postgres {
	return &connectors.Postgres{
		DSN:             cfg.DSN,
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}

func NewRedis(cfg config.Redis) *connectors.Redis {
	return &connectors.Redis{
		Username:           cfg.Username,
		Password:           cfg.Password,
		Address:            cfg.Address,
		DatabaseNumber:     cfg.DatabaseNumber,
		PoolSize:           cfg.PoolSize,
		MinIdleConnections: cfg.MinIdleConnections,
		MaxIdleConnections: cfg.MaxIdleConnections,
	}
}

// NewAsynqLogger создаёт zap логгер для asynq. Основной логгер приложения
// остаётся slog, asynq нужны только printf-методы sugared логгера.
func NewAsynqLogger(cfg config.Log) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("zapcore.ParseLevel: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if cfg.Format == "text" {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("zapConfig.Build: %w", err)
	}

	return logger.Named("asynq").Sugar(), nil
}
