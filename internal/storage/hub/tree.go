// Derives the hierarchical view from the flat node list.

package hub

import (
	"github.com/maruel/ksid"
)

// Forest is the result of building the tree view.
type Forest struct {
	// Roots are the top-level nodes in input order.
	Roots []*TreeView

	// Orphans lists nodes whose parent ID did not resolve. They are placed
	// at the root level rather than dropped; callers should log them and
	// schedule a repair.
	Orphans []ksid.ID
}

// BuildTree derives a forest from a flat node list.
//
// Pure function, two passes: the first indexes every node by ID, the second
// appends each node to its parent's child list, or to the root list when the
// parent ID is zero or unresolved. Child order within a parent is input
// order. The input nodes are referenced, not copied; callers pass a snapshot.
func BuildTree(nodes []*Node) *Forest {
	byID := make(map[ksid.ID]*TreeView, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = &TreeView{Node: n}
	}

	f := &Forest{}
	for _, n := range nodes {
		tv := byID[n.ID]
		if n.ParentID.IsZero() {
			f.Roots = append(f.Roots, tv)
			continue
		}
		parent, ok := byID[n.ParentID]
		if !ok {
			f.Orphans = append(f.Orphans, n.ID)
			f.Roots = append(f.Roots, tv)
			continue
		}
		parent.Children = append(parent.Children, tv)
	}
	return f
}

// Walk calls fn for every view in the forest, parents before children.
// Traversal stops early if fn returns false.
func (f *Forest) Walk(fn func(tv *TreeView) bool) {
	var visit func(tvs []*TreeView) bool
	visit = func(tvs []*TreeView) bool {
		for _, tv := range tvs {
			if !fn(tv) {
				return false
			}
			if !visit(tv.Children) {
				return false
			}
		}
		return true
	}
	visit(f.Roots)
}
