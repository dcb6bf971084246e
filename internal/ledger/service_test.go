package ledger

import (
	"context"
	"errors"
	"testing"
)

type fakeChartSource struct {
	snap     ChartSnapshot
	warnings []string
	err      error
}

func (f *fakeChartSource) FetchChart(ctx context.Context) (ChartSnapshot, []string, error) {
	return f.snap, f.warnings, f.err
}

type fakeVoucherSource struct {
	vouchers []Voucher
	err      error
}

func (f *fakeVoucherSource) FetchVouchers(ctx context.Context) ([]Voucher, error) {
	return f.vouchers, f.err
}

type fakeRecorder struct {
	report string
	status string
	calls  int
}

func (f *fakeRecorder) ReportRun(report, status string, seconds float64) {
	f.report, f.status = report, status
	f.calls++
}

func TestServiceLedgerPropagatesCategoryWarnings(t *testing.T) {
	chart := &fakeChartSource{snap: reportChart(), warnings: []string{"Liabilities: fetch failed, continuing with empty list"}}
	vouchers := &fakeVoucherSource{vouchers: scenarioVouchers()}
	svc := NewService(chart, vouchers, nil)

	report, err := svc.Ledger(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("Ledger() error = %v", err)
	}
	if report.RunID == "" {
		t.Fatalf("run id must be assigned")
	}
	if len(report.Notices) != 1 || report.Notices[0] != chart.warnings[0] {
		t.Fatalf("category warning must surface as a notice, got %v", report.Notices)
	}
	if len(report.Groups) != 3 {
		t.Fatalf("degraded chart still produces a report, got %d groups", len(report.Groups))
	}
}

func TestServiceLedgerAbortsOnVoucherFailure(t *testing.T) {
	chart := &fakeChartSource{snap: reportChart()}
	vouchers := &fakeVoucherSource{err: errors.New("page 3: connection reset")}
	rec := &fakeRecorder{}
	svc := NewService(chart, vouchers, nil).WithMetrics(rec)

	_, err := svc.Ledger(context.Background(), Filters{})
	if !errors.Is(err, ErrVoucherFetch) {
		t.Fatalf("expected ErrVoucherFetch, got %v", err)
	}
	if rec.status != "error" || rec.report != "ledger" {
		t.Fatalf("failed run must be recorded, got %+v", rec)
	}
}

func TestServiceTrialBalanceEmptyResultIsNonFatal(t *testing.T) {
	chart := &fakeChartSource{snap: reportChart()}
	vouchers := &fakeVoucherSource{}
	rec := &fakeRecorder{}
	svc := NewService(chart, vouchers, nil).WithMetrics(rec)

	report, err := svc.TrialBalance(context.Background(), Filters{Status: "Posted"})
	if err != nil {
		t.Fatalf("empty result must not error, got %v", err)
	}
	if len(report.Rows) != 0 {
		t.Fatalf("expected empty report")
	}
	found := false
	for _, n := range report.Notices {
		if n == NoticeEmptyReport {
			found = true
		}
	}
	if !found {
		t.Fatalf("empty report must carry the informational notice, got %v", report.Notices)
	}
	if rec.status != "ok" || rec.calls != 1 {
		t.Fatalf("successful empty run still records ok, got %+v", rec)
	}
}

func TestFiltersSummary(t *testing.T) {
	f := Filters{
		Mode:          SelectRange,
		FromAccountID: "101",
		ToAccountID:   "199",
		FromDate:      day("2024-01-01"),
		ToDate:        day("2024-01-31"),
		Status:        "Posted",
	}
	want := "Accounts: 101 .. 199; From: 2024-01-01; To: 2024-01-31; Status: Posted"
	if got := f.Summary(); got != want {
		t.Fatalf("Summary() = %q want %q", got, want)
	}
	if got := (Filters{}).Summary(); got != "Status: All" {
		t.Fatalf("empty filters summary = %q", got)
	}
}
