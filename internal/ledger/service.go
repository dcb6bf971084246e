package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrVoucherFetch marks a failed voucher page read. The voucher stream is all
// or nothing: a run never continues on a partial list.
var ErrVoucherFetch = errors.New("voucher fetch failed")

// NoticeEmptyReport is attached when the filters matched no account activity.
// The report itself stays valid, just empty.
const NoticeEmptyReport = "no account activity matched the selected filters"

// ChartSource provides the chart-of-accounts snapshot. Implementations fetch
// the five category endpoints; an individual category failure degrades to an
// empty list plus a warning instead of an error.
type ChartSource interface {
	FetchChart(ctx context.Context) (ChartSnapshot, []string, error)
}

// VoucherSource provides the full voucher snapshot, all pages concatenated.
type VoucherSource interface {
	FetchVouchers(ctx context.Context) ([]Voucher, error)
}

// RunRecorder receives per-run metrics. Satisfied by observability.Metrics.
type RunRecorder interface {
	ReportRun(report, status string, seconds float64)
}

// Service orchestrates report runs: snapshot fetches followed by the pure
// computation. Every run works on its own snapshots; nothing is shared or
// persisted between runs.
type Service struct {
	chart    ChartSource
	vouchers VoucherSource
	logger   *slog.Logger
	metrics  RunRecorder
	now      func() time.Time
}

// NewService constructs a report service instance.
func NewService(chart ChartSource, vouchers VoucherSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{chart: chart, vouchers: vouchers, logger: logger, now: time.Now}
}

// WithMetrics attaches a run recorder.
func (s *Service) WithMetrics(rec RunRecorder) *Service {
	s.metrics = rec
	return s
}

// WithClock overrides the clock for deterministic tests.
func (s *Service) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Ledger runs the general-ledger pipeline for the given filters.
func (s *Service) Ledger(ctx context.Context, f Filters) (LedgerReport, error) {
	runID := uuid.NewString()
	start := s.now()
	chart, vouchers, warnings, err := s.snapshots(ctx)
	if err != nil {
		s.record("ledger", "error", start)
		return LedgerReport{}, err
	}
	report := ComputeLedger(chart, vouchers, f)
	report.RunID = runID
	report.Notices = warnings
	if len(report.Groups) == 0 {
		report.Notices = append(report.Notices, NoticeEmptyReport)
	}
	s.record("ledger", "ok", start)
	s.logger.Info("ledger report computed",
		slog.String("run_id", runID),
		slog.Int("groups", len(report.Groups)),
		slog.Int("vouchers", len(vouchers)),
		slog.Duration("took", s.now().Sub(start)))
	return report, nil
}

// TrialBalance runs the trial-balance pipeline for the given filters.
func (s *Service) TrialBalance(ctx context.Context, f Filters) (TrialBalanceReport, error) {
	runID := uuid.NewString()
	start := s.now()
	chart, vouchers, warnings, err := s.snapshots(ctx)
	if err != nil {
		s.record("trial_balance", "error", start)
		return TrialBalanceReport{}, err
	}
	report := ComputeTrialBalance(chart, vouchers, f)
	report.RunID = runID
	report.Notices = warnings
	if len(report.Rows) == 0 {
		report.Notices = append(report.Notices, NoticeEmptyReport)
	}
	s.record("trial_balance", "ok", start)
	s.logger.Info("trial balance computed",
		slog.String("run_id", runID),
		slog.Int("rows", len(report.Rows)),
		slog.Int("vouchers", len(vouchers)),
		slog.Duration("took", s.now().Sub(start)))
	return report, nil
}

// snapshots reads both upstream snapshots for one run. Category warnings are
// passed through; a voucher failure aborts.
func (s *Service) snapshots(ctx context.Context) (ChartSnapshot, []Voucher, []string, error) {
	if s == nil || s.chart == nil || s.vouchers == nil {
		return ChartSnapshot{}, nil, nil, errors.New("ledger service not initialised")
	}
	chart, warnings, err := s.chart.FetchChart(ctx)
	if err != nil {
		return ChartSnapshot{}, nil, nil, fmt.Errorf("fetch chart of accounts: %w", err)
	}
	for _, w := range warnings {
		s.logger.Warn("chart category degraded", slog.String("detail", w))
	}
	vouchers, err := s.vouchers.FetchVouchers(ctx)
	if err != nil {
		return ChartSnapshot{}, nil, nil, fmt.Errorf("%w: %v", ErrVoucherFetch, err)
	}
	return chart, vouchers, warnings, nil
}

func (s *Service) record(report, status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReportRun(report, status, s.now().Sub(start).Seconds())
}

// Summary renders the filter choices as the free-text line the report header
// displays.
func (f Filters) Summary() string {
	var parts []string
	switch f.Mode {
	case SelectByHead:
		if f.HeadAccountID != "" {
			parts = append(parts, "Head: "+f.HeadAccountID)
		}
	case SelectRange:
		switch {
		case f.FromAccountID != "" && f.ToAccountID != "":
			parts = append(parts, "Accounts: "+f.FromAccountID+" .. "+f.ToAccountID)
		case f.FromAccountID != "":
			parts = append(parts, "Account: "+f.FromAccountID)
		case f.ToAccountID != "":
			parts = append(parts, "Account: "+f.ToAccountID)
		}
	case SelectSpecific:
		if len(f.AccountIDs) > 0 {
			parts = append(parts, "Accounts: "+strings.Join(f.AccountIDs, ", "))
		}
	}
	if !f.FromDate.IsZero() {
		parts = append(parts, "From: "+f.FromDate.Format("2006-01-02"))
	}
	if !f.ToDate.IsZero() {
		parts = append(parts, "To: "+f.ToDate.Format("2006-01-02"))
	}
	status := f.Status
	if status == "" {
		status = StatusAll
	}
	parts = append(parts, "Status: "+status)
	return strings.Join(parts, "; ")
}
