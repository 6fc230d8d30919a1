// Prunes trees and flat listings by predicates while keeping ancestor chains.

package hub

import "strings"

// Predicate decides whether a node matches a search or filter condition.
type Predicate func(n *Node) bool

// TreeFilterResult carries a pruned forest plus the view hint that consumers
// need to honor the auto-expand rule.
type TreeFilterResult struct {
	Roots []*TreeView

	// ExpandAll is set when a non-empty search produced the result: every
	// surviving folder should be shown expanded. When the term clears, the
	// consumer reverts to its own prior expand/collapse state. A view
	// concern signaled here, never persisted.
	ExpandAll bool
}

// FilterTree prunes a forest by pred. A node survives if it matches
// directly, or if any descendant survives, so the path from the root to
// every match stays visible.
func FilterTree(roots []*TreeView, pred Predicate) []*TreeView {
	var out []*TreeView
	for _, tv := range roots {
		if kept := filterView(tv, pred); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

func filterView(tv *TreeView, pred Predicate) *TreeView {
	children := FilterTree(tv.Children, pred)
	if len(children) == 0 && !pred(tv.Node) {
		return nil
	}
	return &TreeView{Node: tv.Node, Children: children}
}

// SearchTree prunes a forest by a name search term and reports whether the
// consuming view should fully expand. An empty term keeps everything.
func SearchTree(roots []*TreeView, term string) TreeFilterResult {
	if term == "" {
		return TreeFilterResult{Roots: roots}
	}
	return TreeFilterResult{
		Roots:     FilterTree(roots, MatchesName(term)),
		ExpandAll: true,
	}
}

// MatchesName returns a predicate matching the term case-insensitively
// against the node name. Folder-panel search uses name only.
func MatchesName(term string) Predicate {
	term = strings.ToLower(term)
	return func(n *Node) bool {
		return strings.Contains(strings.ToLower(n.Name), term)
	}
}

// MatchesText returns a predicate matching the term case-insensitively
// against name, tags and inline text content. The flat file listing uses
// this wider match.
func MatchesText(term string) Predicate {
	term = strings.ToLower(term)
	return func(n *Node) bool {
		if strings.Contains(strings.ToLower(n.Name), term) {
			return true
		}
		for _, tag := range n.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				return true
			}
		}
		return n.Content != "" && strings.Contains(strings.ToLower(n.Content), term)
	}
}
