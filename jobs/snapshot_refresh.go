package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-erp/meridian-ledger/internal/jobs"
	"github.com/meridian-erp/meridian-ledger/internal/ledger"
)

// SnapshotRefresher warms the snapshot cache from the upstream services.
type SnapshotRefresher struct {
	Chart    ledger.ChartSource
	Vouchers ledger.VoucherSource
	Cache    *ledger.SnapshotCache
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// Handle processes TaskSnapshotRefresh tasks. A degraded chart snapshot (one
// carrying category warnings) is not cached; the next scheduled run retries.
func (s *SnapshotRefresher) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SnapshotRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := s.Metrics.Track(TaskSnapshotRefresh)
	return tracker.End(s.refresh(ctx, payload))
}

func (s *SnapshotRefresher) refresh(ctx context.Context, payload SnapshotRefreshPayload) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !payload.SkipChart {
		snap, warnings, err := s.Chart.FetchChart(ctx)
		switch {
		case err != nil:
			logger.Error("snapshot refresh: chart fetch failed", slog.Any("error", err))
			return err
		case len(warnings) > 0:
			logger.Warn("snapshot refresh: chart degraded, not cached",
				slog.Int("warnings", len(warnings)))
		default:
			s.Cache.StoreChart(ctx, snap)
			logger.Info("snapshot refresh: chart cached",
				slog.Int("categories", len(snap.Categories)))
		}
	}
	if !payload.SkipVouchers {
		vouchers, err := s.Vouchers.FetchVouchers(ctx)
		if err != nil {
			logger.Error("snapshot refresh: voucher fetch failed", slog.Any("error", err))
			return err
		}
		s.Cache.StoreVouchers(ctx, vouchers)
		logger.Info("snapshot refresh: vouchers cached", slog.Int("count", len(vouchers)))
	}
	return nil
}
