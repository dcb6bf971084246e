package ledger

import "strings"

// normalizeKey produces the canonical form legs and accounts are matched on.
// Legacy voucher rows may reference accounts by name instead of id, so every
// comparison happens on lowercased, trimmed strings.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Selection is the resolved account filter for one report run. The key set
// contains the normalized id, listid and description of every selected
// account; an empty key set is the documented sentinel for "no account
// filter", every leg matches.
type Selection struct {
	keys   map[string]struct{}
	lookup map[string]IndexEntry
}

// Select resolves the filter mode into a normalized key set over the indexed
// accounts. Unresolvable ids simply select nothing; the three modes are
// mutually exclusive and any other mode yields the empty (match-all)
// selection.
func Select(chart *Chart, idx *Index, f Filters) Selection {
	sel := Selection{
		keys:   make(map[string]struct{}),
		lookup: buildLookup(idx),
	}
	var ids []string
	switch f.Mode {
	case SelectByHead:
		ids = subtreeIDs(chart, f.HeadAccountID)
	case SelectRange:
		ids = rangeIDs(idx, f.FromAccountID, f.ToAccountID)
	case SelectSpecific:
		ids = dedupeIDs(f.AccountIDs, 2)
	}
	for _, id := range ids {
		entry, ok := idx.Get(id)
		if !ok {
			continue
		}
		sel.addKeys(entry)
	}
	return sel
}

func (s *Selection) addKeys(entry IndexEntry) {
	for _, k := range []string{entry.ID, entry.ListID, entry.Description} {
		if key := normalizeKey(k); key != "" {
			s.keys[key] = struct{}{}
		}
	}
}

// Empty reports whether the selection matches everything.
func (s Selection) Empty() bool {
	return len(s.keys) == 0
}

// Matches reports whether a raw leg account reference is selected.
func (s Selection) Matches(raw string) bool {
	if len(s.keys) == 0 {
		return true
	}
	_, ok := s.keys[normalizeKey(raw)]
	return ok
}

// Resolve maps a raw leg account reference back to its indexed account. The
// second return is false for references no chart account answers to; those
// legs still form a report group under their raw reference.
func (s Selection) Resolve(raw string) (IndexEntry, bool) {
	entry, ok := s.lookup[normalizeKey(raw)]
	return entry, ok
}

// buildLookup indexes every account under all three normalized key forms.
// First account wins on collisions, matching pre-order priority.
func buildLookup(idx *Index) map[string]IndexEntry {
	lookup := make(map[string]IndexEntry, idx.Len()*3)
	for _, entry := range idx.All() {
		for _, k := range []string{entry.ID, entry.ListID, entry.Description} {
			key := normalizeKey(k)
			if key == "" {
				continue
			}
			if _, taken := lookup[key]; !taken {
				lookup[key] = entry
			}
		}
	}
	return lookup
}

// subtreeIDs returns the head account plus every descendant, inclusive.
func subtreeIDs(chart *Chart, headID string) []string {
	if headID == "" {
		return nil
	}
	head := chart.Find(headID)
	if head == nil {
		return nil
	}
	sub := &Chart{Roots: []*AccountNode{head}}
	var ids []string
	sub.Walk(func(node *AccountNode) {
		if node.ID != "" {
			ids = append(ids, node.ID)
		}
	})
	return ids
}

// rangeIDs selects every indexed account whose listid falls lexicographically
// within the inclusive interval [from listid, to listid], taken exactly as
// given. The comparison is deliberately a plain string compare, not numeric,
// and the bounds are never reordered: listid "10" sorts before "9", so a
// "9".."10" range covers nothing beyond its lower bound and selects only "9".
// The from account is always part of the selection, so an inverted interval
// never decays into the empty match-all sentinel.
func rangeIDs(idx *Index, fromID, toID string) []string {
	from, fromOK := idx.Get(fromID)
	to, toOK := idx.Get(toID)
	switch {
	case fromOK && toOK:
		lo, hi := from.ListID, to.ListID
		var ids []string
		for _, entry := range idx.All() {
			if entry.ID == from.ID || (entry.ListID >= lo && entry.ListID <= hi) {
				ids = append(ids, entry.ID)
			}
		}
		return ids
	case fromOK:
		return []string{from.ID}
	case toOK:
		return []string{to.ID}
	default:
		return nil
	}
}

func dedupeIDs(ids []string, limit int) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, limit)
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out
}
