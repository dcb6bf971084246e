package ledger

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func reportChart() ChartSnapshot {
	return ChartSnapshot{Categories: []CategoryAccounts{
		{Category: CategoryAssets, Accounts: []AccountRecord{
			{ID: "101", ListID: "1.1", Description: "Cash"},
		}},
		{Category: CategoryRevenues, Accounts: []AccountRecord{
			{ID: "401", ListID: "4.1", Description: "Sales Revenue"},
		}},
		{Category: CategoryExpenses, Accounts: []AccountRecord{
			{ID: "501", ListID: "5.1", Description: "Rent Expense"},
		}},
	}}
}

func pair(narration string, a, b Leg) VoucherDetail {
	return VoucherDetail{Narration: narration, Legs: [2]Leg{a, b}}
}

func postedVoucher(no, date string, details ...VoucherDetail) Voucher {
	return Voucher{No: no, Date: day(date), DateValid: true, Status: "Posted", Details: details}
}

// Scenario: two balanced vouchers against Cash, Sales Revenue and Rent
// Expense, no date or account filter. Projected balances are signed
// debit-positive snapshots, so the revenue account runs negative.
func scenarioVouchers() []Voucher {
	return []Voucher{
		postedVoucher("V1", "2024-01-10",
			pair("cash sale",
				Leg{Account: "Cash", Debit: 500, Balance: 500},
				Leg{Account: "Sales Revenue", Credit: 500, Balance: -500},
			),
		),
		postedVoucher("V2", "2024-01-15",
			pair("rent paid",
				Leg{Account: "Cash", Credit: 200, Balance: 300},
				Leg{Account: "Rent Expense", Debit: 200, Balance: 200},
			),
		),
	}
}

func TestComputeLedgerEndToEnd(t *testing.T) {
	report := ComputeLedger(reportChart(), scenarioVouchers(), Filters{})
	if len(report.Groups) != 3 {
		t.Fatalf("expected 3 groups got %d", len(report.Groups))
	}
	// Ordered by listid: 1.1 Cash, 4.1 Sales Revenue, 5.1 Rent Expense.
	cash, revenue, expense := report.Groups[0], report.Groups[1], report.Groups[2]

	if cash.AccountID != "101" || len(cash.Rows) != 3 {
		t.Fatalf("cash group wrong: %+v", cash)
	}
	if !cash.Rows[0].Opening || cash.Rows[0].Balance != 0 {
		t.Fatalf("cash opening row must carry balance 0: %+v", cash.Rows[0])
	}
	if cash.ClosingBalance != 300 || cash.TotalDebit != 500 || cash.TotalCredit != 200 {
		t.Fatalf("cash totals wrong: %+v", cash)
	}

	if revenue.AccountID != "401" || len(revenue.Rows) != 2 {
		t.Fatalf("revenue group wrong: %+v", revenue)
	}
	if revenue.ClosingBalance != -500 || revenue.TotalCredit != 500 {
		t.Fatalf("revenue totals wrong: %+v", revenue)
	}

	if expense.AccountID != "501" || expense.ClosingBalance != 200 || expense.TotalDebit != 200 {
		t.Fatalf("expense group wrong: %+v", expense)
	}

	if report.TotalDebit != 700 || report.TotalCredit != 700 {
		t.Fatalf("grand totals wrong: debit %v credit %v", report.TotalDebit, report.TotalCredit)
	}
}

func TestComputeLedgerClosingEqualsOpeningPlusNet(t *testing.T) {
	vouchers := []Voucher{
		postedVoucher("V1", "2023-12-20",
			pair("prior period",
				Leg{Account: "Cash", Debit: 1000, Balance: 1000},
				Leg{Account: "Sales Revenue", Credit: 1000, Balance: -1000},
			),
		),
		postedVoucher("V2", "2024-01-08",
			pair("sale",
				Leg{Account: "Cash", Debit: 250, Balance: 1250},
				Leg{Account: "Sales Revenue", Credit: 250, Balance: -1250},
			),
		),
	}
	report := ComputeLedger(reportChart(), vouchers, Filters{FromDate: day("2024-01-01")})
	for _, group := range report.Groups {
		want := group.OpeningBalance + group.TotalDebit - group.TotalCredit
		if group.ClosingBalance != want {
			t.Fatalf("group %s: closing %v != opening %v + debit %v - credit %v",
				group.AccountID, group.ClosingBalance, group.OpeningBalance, group.TotalDebit, group.TotalCredit)
		}
	}
}

func TestComputeLedgerOpeningBalanceRecency(t *testing.T) {
	vouchers := []Voucher{
		postedVoucher("V1", "2024-01-01",
			pair("old", Leg{Account: "Cash", Debit: 100, Balance: 100}, Leg{Account: "Sales Revenue", Credit: 100, Balance: -100}),
		),
		postedVoucher("V2", "2024-01-05",
			pair("newer", Leg{Account: "Cash", Debit: 50, Balance: 150}, Leg{Account: "Sales Revenue", Credit: 50, Balance: -150}),
		),
	}
	report := ComputeLedger(reportChart(), vouchers, Filters{FromDate: day("2024-02-01")})
	var cash *AccountGroup
	for i := range report.Groups {
		if report.Groups[i].AccountID == "101" {
			cash = &report.Groups[i]
		}
	}
	if cash == nil {
		t.Fatalf("cash group with opening balance must be present")
	}
	if cash.OpeningBalance != 150 {
		t.Fatalf("expected latest prior balance 150 got %v", cash.OpeningBalance)
	}
	if len(cash.Rows) != 1 || !cash.Rows[0].Opening {
		t.Fatalf("expected only the opening row, got %+v", cash.Rows)
	}
	if cash.ClosingBalance != 150 {
		t.Fatalf("closing of an opening-only group is the opening balance, got %v", cash.ClosingBalance)
	}
}

func TestOpeningBalanceDateTieKeepsFirstSeen(t *testing.T) {
	vouchers := []Voucher{
		postedVoucher("V1", "2024-01-05",
			pair("first", Leg{Account: "Cash", Debit: 100, Balance: 100}, Leg{Account: "Sales Revenue", Credit: 100, Balance: -100}),
		),
		postedVoucher("V2", "2024-01-05",
			pair("second same day", Leg{Account: "Cash", Debit: 899, Balance: 999}, Leg{Account: "Sales Revenue", Credit: 899, Balance: -999}),
		),
	}
	report := ComputeLedger(reportChart(), vouchers, Filters{FromDate: day("2024-02-01")})
	for _, group := range report.Groups {
		if group.AccountID == "101" && group.OpeningBalance != 100 {
			t.Fatalf("exact date tie must keep the first-seen leg, got %v", group.OpeningBalance)
		}
	}
}

func TestComputeLedgerSortsRowsNaturally(t *testing.T) {
	vouchers := []Voucher{
		postedVoucher("V10", "2024-01-05",
			pair("later number", Leg{Account: "Cash", Debit: 10, Balance: 30}, Leg{Account: "Sales Revenue", Credit: 10, Balance: -30}),
		),
		postedVoucher("V2", "2024-01-05",
			pair("earlier number", Leg{Account: "Cash", Debit: 20, Balance: 20}, Leg{Account: "Sales Revenue", Credit: 20, Balance: -20}),
		),
	}
	report := ComputeLedger(reportChart(), vouchers, Filters{})
	cash := report.Groups[0]
	if cash.Rows[1].VoucherNo != "V2" || cash.Rows[2].VoucherNo != "V10" {
		t.Fatalf("numeric-aware sort expected V2 before V10, got %s then %s", cash.Rows[1].VoucherNo, cash.Rows[2].VoucherNo)
	}
	if cash.ClosingBalance != 30 {
		t.Fatalf("closing must be the last sorted row's balance, got %v", cash.ClosingBalance)
	}
}

func TestDateWindowIsInclusiveOfToDate(t *testing.T) {
	late := Voucher{
		No: "V1", Date: day("2024-01-31").Add(18 * time.Hour), DateValid: true, Status: "Posted",
		Details: []VoucherDetail{pair("evening entry",
			Leg{Account: "Cash", Debit: 75, Balance: 75},
			Leg{Account: "Sales Revenue", Credit: 75, Balance: -75})},
	}
	report := ComputeLedger(reportChart(), []Voucher{late}, Filters{
		FromDate: day("2024-01-01"),
		ToDate:   day("2024-01-31"),
	})
	if len(report.Groups) != 2 {
		t.Fatalf("voucher on the to-date must pass the window, got %d groups", len(report.Groups))
	}
}

func TestUnparseableDatesPassTheFilter(t *testing.T) {
	undated := Voucher{
		No: "V1", Status: "Posted",
		Details: []VoucherDetail{pair("bad date upstream",
			Leg{Account: "Cash", Debit: 10, Balance: 10},
			Leg{Account: "Sales Revenue", Credit: 10, Balance: -10})},
	}
	report := ComputeLedger(reportChart(), []Voucher{undated}, Filters{
		FromDate: day("2024-01-01"),
		ToDate:   day("2024-01-31"),
	})
	if len(report.Groups) != 2 {
		t.Fatalf("voucher with invalid date must pass by default, got %d groups", len(report.Groups))
	}
}

func TestStatusFilterIsCaseInsensitive(t *testing.T) {
	vouchers := scenarioVouchers()
	if got := ComputeLedger(reportChart(), vouchers, Filters{Status: "pOsTeD"}); len(got.Groups) != 3 {
		t.Fatalf("status match must ignore case, got %d groups", len(got.Groups))
	}
	if got := ComputeLedger(reportChart(), vouchers, Filters{Status: "all"}); len(got.Groups) != 3 {
		t.Fatalf("All bypasses the status filter, got %d groups", len(got.Groups))
	}
	if got := ComputeLedger(reportChart(), vouchers, Filters{Status: "Draft"}); len(got.Groups) != 0 {
		t.Fatalf("mismatched status must filter everything, got %d groups", len(got.Groups))
	}
}

func TestComputeLedgerGroupsLegacyNameReferences(t *testing.T) {
	vouchers := []Voucher{
		postedVoucher("V1", "2024-01-10",
			pair("legacy rows",
				Leg{Account: "  cash ", Debit: 40, Balance: 40},
				Leg{Account: "Unknown Supplier", Credit: 40, Balance: -40},
			),
		),
	}
	report := ComputeLedger(reportChart(), vouchers, Filters{})
	if len(report.Groups) != 2 {
		t.Fatalf("expected resolved and raw groups, got %d", len(report.Groups))
	}
	if report.Groups[0].AccountID != "101" {
		t.Fatalf("legacy name must resolve to the indexed account, got %+v", report.Groups[0])
	}
	raw := report.Groups[1]
	if raw.AccountID != "Unknown Supplier" || raw.Description != "Unknown Supplier" {
		t.Fatalf("unresolvable reference keeps its raw text, got %+v", raw)
	}
}

func TestNaturalCompareOrdering(t *testing.T) {
	cases := []struct {
		a, b string
		less bool
	}{
		{"V2", "V10", true},
		{"V10", "V2", false},
		{"V2", "V2", false},
		{"A1", "B1", true},
		{"CV-9", "CV-11", true},
		{"", "V1", true},
		// Digit runs past 19 characters exceed uint64; they must still
		// compare by numeric value, not overflow artifacts.
		{"V99999999999999999999", "V100000000000000000000", true},
		{"V100000000000000000000", "V99999999999999999999", false},
		{"V18446744073709551616", "V18446744073709551616", false},
		{"V007", "V8", true},
		{"V0000000000000000000002", "V10", true},
	}
	for _, tc := range cases {
		if got := naturalLess(tc.a, tc.b); got != tc.less {
			t.Fatalf("naturalLess(%q, %q) = %v want %v", tc.a, tc.b, got, tc.less)
		}
	}
}
