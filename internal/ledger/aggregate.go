package ledger

import (
	"strings"
	"time"
)

// matchesStatus applies the case-insensitive status filter. An empty filter
// or "All" passes every voucher.
func matchesStatus(v Voucher, status string) bool {
	if status == "" || strings.EqualFold(status, StatusAll) {
		return true
	}
	return strings.EqualFold(v.Status, status)
}

// inDateRange applies the [from, to] date window. The upper bound is pushed
// to 23:59:59.999 so the to-day is inclusive. Vouchers whose date could not
// be parsed pass by default.
func inDateRange(v Voucher, f Filters) bool {
	if !v.DateValid {
		return true
	}
	if !f.FromDate.IsZero() && v.Date.Before(f.FromDate) {
		return false
	}
	if !f.ToDate.IsZero() && v.Date.After(endOfDay(f.ToDate)) {
		return false
	}
	return true
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// openingEntry tracks the latest-dated leg seen for one account before the
// period start.
type openingEntry struct {
	date     time.Time
	balance  float64
	selected bool
	entry    IndexEntry
	resolved bool
}

// openingBalances computes, per account group key, the opening balance: the
// projected balance of the latest leg dated strictly before the period start.
// The comparison is a strict >, so on an exact date tie the first-seen leg
// wins. The status filter is honored, the account selection is not (it only
// tags each entry so the groupers can decide inclusion). Accounts with no
// qualifying prior voucher have an implicit opening balance of 0; with no
// period start there is no prior period at all.
func openingBalances(vouchers []Voucher, f Filters, sel Selection) map[string]openingEntry {
	opening := make(map[string]openingEntry)
	if f.FromDate.IsZero() {
		return opening
	}
	for _, v := range vouchers {
		if !v.DateValid || !v.Date.Before(f.FromDate) {
			continue
		}
		if !matchesStatus(v, f.Status) {
			continue
		}
		for _, detail := range v.Details {
			for _, leg := range detail.Legs {
				raw := strings.TrimSpace(leg.Account)
				if raw == "" {
					continue
				}
				key, entry, resolved := groupIdentity(raw, sel)
				prev, seen := opening[key]
				if seen && !v.Date.After(prev.date) {
					continue
				}
				opening[key] = openingEntry{
					date:     v.Date,
					balance:  leg.Balance,
					selected: sel.Matches(raw),
					entry:    entry,
					resolved: resolved,
				}
			}
		}
	}
	return opening
}

// groupAccum collects the materialized rows and running sums for one account
// group during aggregation.
type groupAccum struct {
	key    string
	entry  IndexEntry
	rows   []Row
	debit  float64
	credit float64
}

// groupIdentity maps a raw leg reference to its report group. Legs that
// resolve to an indexed account group under the account id; unresolvable
// references keep their raw text as id, listid and description.
func groupIdentity(raw string, sel Selection) (string, IndexEntry, bool) {
	if entry, ok := sel.Resolve(raw); ok {
		return entry.ID, entry, true
	}
	return normalizeKey(raw), IndexEntry{ID: raw, ListID: raw, Description: raw}, false
}

// aggregate walks the filtered vouchers and materializes one row per leg
// whose account is selected. Both legs of a detail row are evaluated
// independently; a voucher touching two selected accounts contributes one row
// to each group. Returned keys preserve first-appearance order, which is the
// fetch/pagination order of the vouchers.
func aggregate(vouchers []Voucher, f Filters, sel Selection) (map[string]*groupAccum, []string) {
	groups := make(map[string]*groupAccum)
	var order []string
	for _, v := range vouchers {
		if !inDateRange(v, f) || !matchesStatus(v, f.Status) {
			continue
		}
		for _, detail := range v.Details {
			narration := detail.Narration
			if narration == "" {
				narration = v.Narration
			}
			for _, leg := range detail.Legs {
				raw := strings.TrimSpace(leg.Account)
				if raw == "" {
					continue
				}
				if !sel.Matches(raw) {
					continue
				}
				key, entry, _ := groupIdentity(raw, sel)
				group, ok := groups[key]
				if !ok {
					group = &groupAccum{key: key, entry: entry}
					groups[key] = group
					order = append(order, key)
				}
				group.debit += leg.Debit
				group.credit += leg.Credit
				group.rows = append(group.rows, Row{
					Date:          v.Date,
					DateValid:     v.DateValid,
					VoucherNo:     v.No,
					ChequeNo:      v.ChequeNo,
					DepositSlipNo: v.DepositSlipNo,
					Narration:     narration,
					Debit:         leg.Debit,
					Credit:        leg.Credit,
					Balance:       leg.Balance,
				})
			}
		}
	}
	return groups, order
}
