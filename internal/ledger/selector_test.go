package ledger

import "testing"

func selectorFixture() (ChartSnapshot, *Chart, *Index) {
	snap := ChartSnapshot{Categories: []CategoryAccounts{
		{Category: CategoryAssets, Accounts: []AccountRecord{
			{ID: "1", ListID: "1", Description: "Current Assets"},
			{ID: "11", ListID: "1.1", Description: "Cash In Hand", ParentID: "1"},
			{ID: "12", ListID: "1.2", Description: "Bank", ParentID: "1"},
			{ID: "121", ListID: "1.2.1", Description: "Bank Alfalah", ParentID: "12"},
		}},
		{Category: CategoryRevenues, Accounts: []AccountRecord{
			{ID: "4", ListID: "4", Description: "Sales"},
		}},
	}}
	chart := BuildChart(snap)
	return snap, chart, BuildIndex(chart)
}

func selectedIDs(sel Selection, idx *Index) []string {
	var ids []string
	for _, entry := range idx.All() {
		if !sel.Empty() && sel.Matches(entry.ID) {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

func TestSelectByHeadIncludesFullSubtree(t *testing.T) {
	_, chart, idx := selectorFixture()
	sel := Select(chart, idx, Filters{Mode: SelectByHead, HeadAccountID: "12"})
	ids := selectedIDs(sel, idx)
	if len(ids) != 2 || ids[0] != "12" || ids[1] != "121" {
		t.Fatalf("expected head plus descendants, got %v", ids)
	}
	if sel.Matches("11") {
		t.Fatalf("sibling outside subtree must not match")
	}
}

func TestSelectMatchesLegacyNameKeys(t *testing.T) {
	_, chart, idx := selectorFixture()
	sel := Select(chart, idx, Filters{Mode: SelectSpecific, AccountIDs: []string{"121"}})
	// Legacy vouchers reference accounts by display name, any casing.
	if !sel.Matches("  bank ALFALAH ") {
		t.Fatalf("description key must match after trim+lowercase")
	}
	if !sel.Matches("1.2.1") {
		t.Fatalf("listid key must match")
	}
}

func TestSelectRangeIsLexicographic(t *testing.T) {
	snap := ChartSnapshot{Categories: []CategoryAccounts{
		{Category: CategoryAssets, Accounts: []AccountRecord{
			{ID: "a", ListID: "9", Description: "Nine"},
			{ID: "b", ListID: "10", Description: "Ten"},
		}},
	}}
	chart := BuildChart(snap)
	idx := BuildIndex(chart)
	sel := Select(chart, idx, Filters{Mode: SelectRange, FromAccountID: "a", ToAccountID: "b"})
	// "10" < "9" lexicographically, so the as-given interval ["9","10"] holds
	// nothing beyond its lower bound. Existing upstream behaviour, kept as-is.
	if sel.Empty() {
		t.Fatalf("inverted bounds must keep the from account, not decay to match-all")
	}
	if !sel.Matches("a") {
		t.Fatalf("listid 9 must fall inside the range")
	}
	if sel.Matches("b") {
		t.Fatalf("listid 10 must fall outside the lexicographic range")
	}
}

func TestSelectRangeOrderedBounds(t *testing.T) {
	_, chart, idx := selectorFixture()
	sel := Select(chart, idx, Filters{Mode: SelectRange, FromAccountID: "11", ToAccountID: "12"})
	ids := selectedIDs(sel, idx)
	if len(ids) != 2 || ids[0] != "11" || ids[1] != "12" {
		t.Fatalf("expected listids 1.1 through 1.2, got %v", ids)
	}
	if sel.Matches("121") {
		t.Fatalf("listid 1.2.1 sorts past the upper bound")
	}
}

func TestSelectRangeSingleBound(t *testing.T) {
	_, chart, idx := selectorFixture()
	sel := Select(chart, idx, Filters{Mode: SelectRange, FromAccountID: "11"})
	if !sel.Matches("11") {
		t.Fatalf("single bound selects exactly that account")
	}
	if sel.Matches("12") || sel.Empty() {
		t.Fatalf("single bound must not widen the selection")
	}
}

func TestSelectRangeNoBoundsIsMatchAll(t *testing.T) {
	_, chart, idx := selectorFixture()
	sel := Select(chart, idx, Filters{Mode: SelectRange})
	if !sel.Empty() {
		t.Fatalf("no bounds must produce the empty sentinel selection")
	}
	if !sel.Matches("anything at all") {
		t.Fatalf("empty selection matches every leg")
	}
}

func TestSelectSpecificDeduplicates(t *testing.T) {
	_, chart, idx := selectorFixture()
	sel := Select(chart, idx, Filters{Mode: SelectSpecific, AccountIDs: []string{"11", "11", "4"}})
	if !sel.Matches("11") || !sel.Matches("4") {
		t.Fatalf("both distinct accounts must match")
	}
	if sel.Matches("12") {
		t.Fatalf("unselected account must not match")
	}
}

func TestSelectResolveFallsBackToRawReference(t *testing.T) {
	_, chart, idx := selectorFixture()
	sel := Select(chart, idx, Filters{})
	if _, ok := sel.Resolve("Cash In Hand"); !ok {
		t.Fatalf("known description must resolve")
	}
	if _, ok := sel.Resolve("No Such Account"); ok {
		t.Fatalf("unknown reference must not resolve")
	}
}
