package ledger

import (
	"math"
	"sort"
	"strings"
)

// zeroTolerance excludes accounts whose trial-balance amount is effectively
// settled.
const zeroTolerance = 1e-6

// ComputeTrialBalance is the pure trial-balance pipeline. Unlike the ledger
// it produces a single snapshot row per account: the stored balance is
// overwritten, not accumulated, by every matching leg in voucher fetch order.
// Fetch order is not guaranteed chronological; that quirk is part of the
// upstream contract and is preserved deliberately.
func ComputeTrialBalance(chart ChartSnapshot, vouchers []Voucher, f Filters) TrialBalanceReport {
	tree := BuildChart(chart)
	idx := BuildIndex(tree)
	sel := Select(tree, idx, f)

	opening := openingBalances(vouchers, f, sel)

	balances := make(map[string]float64)
	entries := make(map[string]IndexEntry)
	var order []string
	for _, v := range vouchers {
		if !inDateRange(v, f) || !matchesStatus(v, f.Status) {
			continue
		}
		for _, detail := range v.Details {
			for _, leg := range detail.Legs {
				raw := strings.TrimSpace(leg.Account)
				if raw == "" || !sel.Matches(raw) {
					continue
				}
				key, entry, _ := groupIdentity(raw, sel)
				if _, seen := balances[key]; !seen {
					order = append(order, key)
					entries[key] = entry
				}
				balances[key] = leg.Balance
			}
		}
	}

	// Accounts quiet in the period but carrying an opening balance still
	// appear, using that balance.
	for key, open := range opening {
		if _, active := balances[key]; active {
			continue
		}
		if open.balance == 0 || !open.selected {
			continue
		}
		balances[key] = open.balance
		entries[key] = open.entry
		order = append(order, key)
	}

	report := TrialBalanceReport{FilterSummary: f.Summary()}
	report.Rows = make([]TrialBalanceRow, 0, len(order))
	for _, key := range order {
		balance := balances[key]
		if math.Abs(balance) <= zeroTolerance {
			continue
		}
		entry := entries[key]
		row := TrialBalanceRow{
			AccountID:   entry.ID,
			ListID:      entry.ListID,
			Description: entry.Description,
		}
		if balance > 0 {
			row.Debit = balance
			report.TotalDebit += balance
		} else {
			row.Credit = -balance
			report.TotalCredit += -balance
		}
		report.Rows = append(report.Rows, row)
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		return rowSortKey(report.Rows[i]) < rowSortKey(report.Rows[j])
	})
	return report
}

func rowSortKey(r TrialBalanceRow) string {
	if r.ListID != "" {
		return r.ListID
	}
	return r.Description
}
