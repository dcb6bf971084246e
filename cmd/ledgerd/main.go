package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-erp/meridian-ledger/internal/app"
	"github.com/meridian-erp/meridian-ledger/internal/ledger"
	ledgerhttp "github.com/meridian-erp/meridian-ledger/internal/ledger/http"
	"github.com/meridian-erp/meridian-ledger/internal/observability"
	"github.com/meridian-erp/meridian-ledger/internal/platform/cache"
	"github.com/meridian-erp/meridian-ledger/jobs"
	"github.com/meridian-erp/meridian-ledger/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, snapshot cache disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	metrics := observability.NewMetrics()
	snapshotCache := ledger.NewSnapshotCache(redisClient, cfg.SnapshotTTL, logger)
	chartSource, voucherSource := buildSources(cfg, logger, metrics, snapshotCache)

	service := ledger.NewService(chartSource, voucherSource, logger).WithMetrics(metrics)

	pdfClient := report.NewClient(cfg.GotenbergURL, cfg.UpstreamTimeout)
	if err := pdfClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg unavailable, pdf export degraded", slog.Any("error", err))
	}

	reportHandler, err := ledgerhttp.NewHandler(logger, service, pdfClient, ledgerhttp.Options{
		CacheTTL:        cfg.ReportCacheTTL,
		ExportRateLimit: cfg.ExportRateLimit,
	})
	if err != nil {
		logger.Error("init report handler", slog.Any("error", err))
		os.Exit(1)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		ReportHandler: reportHandler,
		Metrics:       metrics,
	})

	// Ask the worker for an immediate cache warmup so the first report
	// request does not pay the full upstream read.
	if redisClient != nil {
		jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Warn("job client init", slog.Any("error", err))
		} else {
			if _, err := jobClient.EnqueueSnapshotRefresh(ctx, jobs.SnapshotRefreshPayload{}); err != nil {
				logger.Warn("snapshot warmup enqueue", slog.Any("error", err))
			}
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
