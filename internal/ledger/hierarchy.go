package ledger

// AccountNode is one node of the built chart-of-accounts forest. Children are
// exclusively owned by their parent and kept in input order.
type AccountNode struct {
	AccountRecord
	Children []*AccountNode
}

// Chart wraps the five synthetic category roots.
type Chart struct {
	Roots []*AccountNode
}

// BuildChart turns the flat per-category record lists into a forest under the
// five fixed synthetic roots. Construction is a two-pass arena build: an
// id→node map first, then parent attachment. A record whose ParentID does not
// resolve is neither a root nor reachable as a child; it is dropped silently.
// No error paths exist here, malformed input only shrinks the tree.
func BuildChart(snap ChartSnapshot) *Chart {
	byName := make(map[string][]AccountRecord, len(snap.Categories))
	for _, cat := range snap.Categories {
		byName[cat.Category] = cat.Accounts
	}
	chart := &Chart{Roots: make([]*AccountNode, 0, len(Categories))}
	for _, name := range Categories {
		chart.Roots = append(chart.Roots, buildCategory(name, byName[name]))
	}
	return chart
}

func buildCategory(name string, records []AccountRecord) *AccountNode {
	root := &AccountNode{AccountRecord: AccountRecord{ID: name, ListID: name, Description: name}}
	nodes := make(map[string]*AccountNode, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, ok := nodes[rec.ID]; ok {
			// duplicate id, first record wins
			continue
		}
		nodes[rec.ID] = &AccountNode{AccountRecord: rec}
	}
	attached := make(map[string]struct{}, len(nodes))
	for _, rec := range records {
		node, ok := nodes[rec.ID]
		if !ok {
			continue
		}
		if _, done := attached[rec.ID]; done {
			continue
		}
		attached[rec.ID] = struct{}{}
		if rec.ParentID == "" {
			root.Children = append(root.Children, node)
			continue
		}
		parent, ok := nodes[rec.ParentID]
		if !ok || parent == node {
			continue // orphaned: unresolvable or self-referencing parent
		}
		parent.Children = append(parent.Children, node)
	}
	return root
}

// Walk visits the forest pre-order. A visited set guards against corrupted
// parent references producing cycles.
func (c *Chart) Walk(fn func(*AccountNode)) {
	if c == nil || fn == nil {
		return
	}
	visited := make(map[*AccountNode]struct{})
	stack := make([]*AccountNode, 0, len(c.Roots))
	for i := len(c.Roots) - 1; i >= 0; i-- {
		stack = append(stack, c.Roots[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if _, seen := visited[node]; seen {
			continue
		}
		visited[node] = struct{}{}
		fn(node)
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
}

// Find returns the node with the given id, or nil.
func (c *Chart) Find(id string) *AccountNode {
	var found *AccountNode
	c.Walk(func(node *AccountNode) {
		if found == nil && node.ID == id {
			found = node
		}
	})
	return found
}

// IndexEntry is the flattened lookup record for one account. ListID and
// Description fall back to the id when blank upstream.
type IndexEntry struct {
	ID          string
	ListID      string
	Description string
}

// Index is the id-keyed lookup table flattened from a chart. It is rebuilt
// once per report run.
type Index struct {
	entries map[string]IndexEntry
	order   []string
}

// BuildIndex flattens the forest pre-order into an id-keyed table. O(n) in
// the total account count.
func BuildIndex(c *Chart) *Index {
	idx := &Index{entries: make(map[string]IndexEntry)}
	c.Walk(func(node *AccountNode) {
		if node.ID == "" {
			return
		}
		if _, ok := idx.entries[node.ID]; ok {
			return
		}
		entry := IndexEntry{ID: node.ID, ListID: node.ListID, Description: node.Description}
		if entry.ListID == "" {
			entry.ListID = node.ID
		}
		if entry.Description == "" {
			entry.Description = node.ID
		}
		idx.entries[node.ID] = entry
		idx.order = append(idx.order, node.ID)
	})
	return idx
}

// Get returns the entry for an account id.
func (idx *Index) Get(id string) (IndexEntry, bool) {
	if idx == nil {
		return IndexEntry{}, false
	}
	entry, ok := idx.entries[id]
	return entry, ok
}

// All returns the entries in pre-order.
func (idx *Index) All() []IndexEntry {
	if idx == nil {
		return nil
	}
	entries := make([]IndexEntry, 0, len(idx.order))
	for _, id := range idx.order {
		entries = append(entries, idx.entries[id])
	}
	return entries
}

// Len reports the number of indexed accounts.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.order)
}
