package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chartCacheKey   = "ledger:snapshot:chart"
	voucherCacheKey = "ledger:snapshot:vouchers"
)

// SnapshotCache keeps the raw upstream snapshots in Redis so repeated report
// runs and the background refresher share one read of the external services.
// Only the inputs are cached; computed reports are always rebuilt.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotCache instantiates the cache helper. A nil client disables
// caching entirely.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotCache{client: client, ttl: ttl, logger: logger}
}

// Chart returns the cached chart snapshot when present.
func (c *SnapshotCache) Chart(ctx context.Context) (ChartSnapshot, bool) {
	var snap ChartSnapshot
	if !c.fetch(ctx, chartCacheKey, &snap) {
		return ChartSnapshot{}, false
	}
	return snap, true
}

// StoreChart caches a chart snapshot.
func (c *SnapshotCache) StoreChart(ctx context.Context, snap ChartSnapshot) {
	c.store(ctx, chartCacheKey, snap)
}

// Vouchers returns the cached voucher snapshot when present.
func (c *SnapshotCache) Vouchers(ctx context.Context) ([]Voucher, bool) {
	var vouchers []Voucher
	if !c.fetch(ctx, voucherCacheKey, &vouchers) {
		return nil, false
	}
	return vouchers, true
}

// StoreVouchers caches the full voucher list.
func (c *SnapshotCache) StoreVouchers(ctx context.Context, vouchers []Voucher) {
	c.store(ctx, voucherCacheKey, vouchers)
}

func (c *SnapshotCache) fetch(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn("snapshot cache read", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn("snapshot cache decode", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

func (c *SnapshotCache) store(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("snapshot cache encode", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot cache write", slog.String("key", key), slog.Any("error", err))
	}
}

// CachedChartSource reads through the snapshot cache. Degraded snapshots
// (ones carrying category warnings) are served but never cached, so a
// recovering category service is picked up on the next run.
type CachedChartSource struct {
	Source ChartSource
	Cache  *SnapshotCache
}

// FetchChart implements ChartSource.
func (s CachedChartSource) FetchChart(ctx context.Context) (ChartSnapshot, []string, error) {
	if snap, ok := s.Cache.Chart(ctx); ok {
		return snap, nil, nil
	}
	snap, warnings, err := s.Source.FetchChart(ctx)
	if err != nil {
		return ChartSnapshot{}, nil, err
	}
	if len(warnings) == 0 {
		s.Cache.StoreChart(ctx, snap)
	}
	return snap, warnings, nil
}

// CachedVoucherSource reads through the snapshot cache.
type CachedVoucherSource struct {
	Source VoucherSource
	Cache  *SnapshotCache
}

// FetchVouchers implements VoucherSource.
func (s CachedVoucherSource) FetchVouchers(ctx context.Context) ([]Voucher, error) {
	if vouchers, ok := s.Cache.Vouchers(ctx); ok {
		return vouchers, nil
	}
	vouchers, err := s.Source.FetchVouchers(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.StoreVouchers(ctx, vouchers)
	return vouchers, nil
}
