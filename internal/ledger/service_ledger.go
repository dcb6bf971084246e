package ledger

import (
	"sort"
	"strings"
)

// OpeningRowLabel is the narration of the synthetic row prepended to every
// ledger group.
const OpeningRowLabel = "Opening Balance (previous period)"

// ComputeLedger is the pure general-ledger pipeline: hierarchy, index,
// selection, aggregation and grouping over immutable snapshots. No state
// outside the arguments is read or written.
func ComputeLedger(chart ChartSnapshot, vouchers []Voucher, f Filters) LedgerReport {
	tree := BuildChart(chart)
	idx := BuildIndex(tree)
	sel := Select(tree, idx, f)

	opening := openingBalances(vouchers, f, sel)
	groups, order := aggregate(vouchers, f, sel)

	// Accounts with an opening balance but no period activity still get a
	// group carrying just the opening row.
	for key, open := range opening {
		if _, active := groups[key]; active {
			continue
		}
		if open.balance == 0 || !open.selected {
			continue
		}
		groups[key] = &groupAccum{key: key, entry: open.entry}
		order = append(order, key)
	}

	report := LedgerReport{FilterSummary: f.Summary()}
	report.Groups = make([]AccountGroup, 0, len(order))
	for _, key := range order {
		group := groups[key]
		sortRows(group.rows)

		openBalance := opening[key].balance
		rows := make([]Row, 0, len(group.rows)+1)
		rows = append(rows, Row{
			Narration: OpeningRowLabel,
			Balance:   openBalance,
			Opening:   true,
		})
		rows = append(rows, group.rows...)

		// Closing balance is the projected-balance snapshot of the last
		// row, not a recomputed sum.
		closing := rows[len(rows)-1].Balance

		report.Groups = append(report.Groups, AccountGroup{
			AccountID:      group.entry.ID,
			ListID:         group.entry.ListID,
			Description:    group.entry.Description,
			Rows:           rows,
			TotalDebit:     group.debit,
			TotalCredit:    group.credit,
			ClosingBalance: closing,
			OpeningBalance: openBalance,
		})
		report.TotalDebit += group.debit
		report.TotalCredit += group.credit
	}

	sort.SliceStable(report.Groups, func(i, j int) bool {
		return groupSortKey(report.Groups[i]) < groupSortKey(report.Groups[j])
	})
	return report
}

func groupSortKey(g AccountGroup) string {
	if g.ListID != "" {
		return g.ListID
	}
	return g.Description
}

// sortRows orders a group chronologically, breaking date ties on voucher
// number with a numeric-aware comparison so "V2" sorts before "V10".
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return naturalLess(rows[i].VoucherNo, rows[j].VoucherNo)
	})
}

// naturalLess compares strings treating digit runs as numbers.
func naturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ia, na := digitRun(a, i)
			ib, nb := digitRun(b, j)
			if c := compareDigitRuns(na, nb); c != 0 {
				return c
			}
			i, j = ia, ib
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// digitRun returns the index past the digit run starting at position i and
// the run itself as a substring.
func digitRun(s string, i int) (int, string) {
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i, s[start:i]
}

// compareDigitRuns orders two digit runs by numeric value without ever
// converting them, so runs of any length compare exactly. Leading zeros are
// stripped first; a longer stripped run is the larger number, equal-length
// runs decide on a plain byte compare.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
