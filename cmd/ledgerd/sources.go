package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-erp/meridian-ledger/internal/app"
	"github.com/meridian-erp/meridian-ledger/internal/coa"
	"github.com/meridian-erp/meridian-ledger/internal/ledger"
	"github.com/meridian-erp/meridian-ledger/internal/observability"
	"github.com/meridian-erp/meridian-ledger/internal/voucher"
)

// buildSources assembles the upstream snapshot sources: HTTP clients wrapped
// with fetch-duration instrumentation, then the Redis read-through cache.
func buildSources(cfg *app.Config, logger *slog.Logger, metrics *observability.Metrics, snapshots *ledger.SnapshotCache) (ledger.ChartSource, ledger.VoucherSource) {
	chart := instrumentedChartSource{
		inner:   coa.NewClient(cfg.CoABaseURL, cfg.UpstreamTimeout, logger),
		metrics: metrics,
	}
	vouchers := instrumentedVoucherSource{
		inner:   voucher.NewClient(cfg.VoucherBaseURL, cfg.UpstreamTimeout, logger).WithPageObserver(metrics.VoucherPage),
		metrics: metrics,
	}
	return ledger.CachedChartSource{Source: chart, Cache: snapshots},
		ledger.CachedVoucherSource{Source: vouchers, Cache: snapshots}
}

type instrumentedChartSource struct {
	inner   ledger.ChartSource
	metrics *observability.Metrics
}

func (s instrumentedChartSource) FetchChart(ctx context.Context) (ledger.ChartSnapshot, []string, error) {
	start := time.Now()
	snap, warnings, err := s.inner.FetchChart(ctx)
	s.metrics.UpstreamFetch("coa", time.Since(start).Seconds())
	return snap, warnings, err
}

type instrumentedVoucherSource struct {
	inner   ledger.VoucherSource
	metrics *observability.Metrics
}

func (s instrumentedVoucherSource) FetchVouchers(ctx context.Context) ([]ledger.Voucher, error) {
	start := time.Now()
	vouchers, err := s.inner.FetchVouchers(ctx)
	s.metrics.UpstreamFetch("voucher", time.Since(start).Seconds())
	return vouchers, err
}
