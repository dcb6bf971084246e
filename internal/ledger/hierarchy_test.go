package ledger

import (
	"reflect"
	"testing"
)

func snapshot(assets ...AccountRecord) ChartSnapshot {
	return ChartSnapshot{Categories: []CategoryAccounts{
		{Category: CategoryAssets, Accounts: assets},
	}}
}

func TestBuildChartAttachesChildrenToParents(t *testing.T) {
	chart := BuildChart(snapshot(
		AccountRecord{ID: "1", ListID: "1", Description: "Current Assets"},
		AccountRecord{ID: "11", ListID: "1.1", Description: "Cash", ParentID: "1"},
		AccountRecord{ID: "12", ListID: "1.2", Description: "Bank", ParentID: "1"},
		AccountRecord{ID: "111", ListID: "1.1.1", Description: "Petty Cash", ParentID: "11"},
	))
	if len(chart.Roots) != len(Categories) {
		t.Fatalf("expected %d category roots got %d", len(Categories), len(chart.Roots))
	}
	assets := chart.Roots[0]
	if assets.ID != CategoryAssets {
		t.Fatalf("expected first root %q got %q", CategoryAssets, assets.ID)
	}
	if len(assets.Children) != 1 || assets.Children[0].ID != "1" {
		t.Fatalf("expected single top-level account under Assets, got %+v", assets.Children)
	}
	head := assets.Children[0]
	if len(head.Children) != 2 {
		t.Fatalf("expected two children under account 1 got %d", len(head.Children))
	}
	if head.Children[0].ID != "11" || head.Children[1].ID != "12" {
		t.Fatalf("children out of input order: %+v", head.Children)
	}
	if len(head.Children[0].Children) != 1 || head.Children[0].Children[0].ID != "111" {
		t.Fatalf("grandchild not attached")
	}
}

func TestBuildChartDropsOrphansSilently(t *testing.T) {
	chart := BuildChart(snapshot(
		AccountRecord{ID: "1", Description: "Cash"},
		AccountRecord{ID: "2", Description: "Ghost", ParentID: "missing"},
		AccountRecord{ID: "3", Description: "Selfish", ParentID: "3"},
	))
	idx := BuildIndex(chart)
	if _, ok := idx.Get("2"); ok {
		t.Fatalf("account with unresolvable parent must be unreachable")
	}
	if _, ok := idx.Get("3"); ok {
		t.Fatalf("self-referencing account must be unreachable")
	}
	if _, ok := idx.Get("1"); !ok {
		t.Fatalf("root account must remain reachable")
	}
}

func TestBuildIndexRoundTripPreservesRelationships(t *testing.T) {
	records := []AccountRecord{
		{ID: "1", ListID: "1", Description: "Assets Head"},
		{ID: "11", ListID: "1.1", Description: "Cash", ParentID: "1"},
		{ID: "111", ListID: "1.1.1", Description: "Petty", ParentID: "11"},
		{ID: "12", ListID: "1.2", Description: "Bank", ParentID: "1"},
	}
	first := BuildChart(snapshot(records...))

	// Flatten the built tree back into records and rebuild.
	var flat []AccountRecord
	first.Walk(func(node *AccountNode) {
		if node.ID == CategoryAssets {
			return
		}
		flat = append(flat, node.AccountRecord)
	})
	second := BuildChart(snapshot(flat...))

	relations := func(c *Chart) map[string][]string {
		rel := make(map[string][]string)
		c.Walk(func(node *AccountNode) {
			for _, child := range node.Children {
				rel[node.ID] = append(rel[node.ID], child.ID)
			}
		})
		return rel
	}
	if !reflect.DeepEqual(relations(first), relations(second)) {
		t.Fatalf("rebuild changed parent/child relationships:\n%v\nvs\n%v", relations(first), relations(second))
	}
}

func TestBuildIndexFallsBackToID(t *testing.T) {
	idx := BuildIndex(BuildChart(snapshot(
		AccountRecord{ID: "acc-9"},
	)))
	entry, ok := idx.Get("acc-9")
	if !ok {
		t.Fatalf("expected account indexed")
	}
	if entry.ListID != "acc-9" || entry.Description != "acc-9" {
		t.Fatalf("blank listid/description must fall back to id, got %+v", entry)
	}
}

func TestWalkSurvivesCorruptedChildLinks(t *testing.T) {
	a := &AccountNode{AccountRecord: AccountRecord{ID: "a"}}
	b := &AccountNode{AccountRecord: AccountRecord{ID: "b"}}
	a.Children = []*AccountNode{b}
	b.Children = []*AccountNode{a} // manufactured cycle
	chart := &Chart{Roots: []*AccountNode{a}}

	visits := 0
	chart.Walk(func(*AccountNode) { visits++ })
	if visits != 2 {
		t.Fatalf("expected each node visited once, got %d visits", visits)
	}
}
