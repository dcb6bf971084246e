package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian-ledger/internal/app"
	"github.com/meridian-erp/meridian-ledger/internal/coa"
	jobmetrics "github.com/meridian-erp/meridian-ledger/internal/jobs"
	"github.com/meridian-erp/meridian-ledger/internal/ledger"
	"github.com/meridian-erp/meridian-ledger/internal/platform/cache"
	"github.com/meridian-erp/meridian-ledger/internal/voucher"
	"github.com/meridian-erp/meridian-ledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.RedisAddr == "" {
		logger.Error("worker requires LEDGER_REDIS_ADDR")
		os.Exit(1)
	}
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	refresher := &jobs.SnapshotRefresher{
		Chart:    coa.NewClient(cfg.CoABaseURL, cfg.UpstreamTimeout, logger),
		Vouchers: voucher.NewClient(cfg.VoucherBaseURL, cfg.UpstreamTimeout, logger),
		Cache:    ledger.NewSnapshotCache(redisClient, cfg.SnapshotTTL, logger),
		Logger:   logger,
		Metrics:  jobmetrics.NewMetrics(nil),
	}

	refreshTask, err := jobs.NewSnapshotRefreshTask(jobs.SnapshotRefreshPayload{})
	if err != nil {
		logger.Error("build refresh task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Refresher: refresher,
		Cron: []jobs.CronRegistration{
			{Spec: "*/5 * * * *", Task: refreshTask, Options: []asynq.Option{asynq.MaxRetry(2)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
