// Composes scope, predicate filtering and sorting into the ordered file list.

package hub

import (
	"cmp"
	"slices"
	"strings"

	"github.com/maruel/ksid"
)

// FilterAll is the sentinel value that disables an attribute filter.
const FilterAll = "all"

// ViewMode selects how a folder is rendered.
type ViewMode string

const (
	// ViewList renders nodes as rows.
	ViewList ViewMode = "list"
	// ViewGrid renders nodes as tiles.
	ViewGrid ViewMode = "grid"
)

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	return v == ViewList || v == ViewGrid
}

// SortBy selects the listing sort strategy.
type SortBy string

const (
	// SortFavorites sorts favorited nodes first, then by name ascending.
	SortFavorites SortBy = "favorites"
	// SortNameAsc sorts alphabetically A to Z.
	SortNameAsc SortBy = "name-asc"
	// SortNameDesc sorts alphabetically Z to A.
	SortNameDesc SortBy = "name-desc"
)

// Valid reports whether s is a known sort strategy.
func (s SortBy) Valid() bool {
	return s == SortFavorites || s == SortNameAsc || s == SortNameDesc
}

// ListFilters are the predicate stages of the listing pipeline. Attribute
// filters are exact matches disabled by "" or [FilterAll]; Text is a
// substring match across name, tags and inline content.
type ListFilters struct {
	Kind     string
	Category string
	Owner    string
	Text     string

	// Deleted is the requested deletion state: false for normal folder
	// views, true for the trash view.
	Deleted bool
}

// List runs the full pipeline for a real folder scope: scope filter,
// deletion filter, attribute filters, text filter, then sort. favorites is
// the requesting user's favorites set; it only affects [SortFavorites].
// An empty folder yields an empty slice, not an error.
func List(nodes []*Node, parentID ksid.ID, f ListFilters, sort SortBy, favorites map[ksid.ID]bool) []*Node {
	scoped := make([]*Node, 0)
	for _, n := range nodes {
		if n.ParentID == parentID {
			scoped = append(scoped, n)
		}
	}
	return Refine(scoped, f, sort, favorites)
}

// Refine applies the post-scope stages (deletion, attributes, text, sort) to
// an already-scoped candidate slice. Virtual scopes resolve their candidates
// first and come through here.
func Refine(nodes []*Node, f ListFilters, sort SortBy, favorites map[ksid.ID]bool) []*Node {
	out := make([]*Node, 0, len(nodes))
	var text Predicate
	if f.Text != "" {
		text = MatchesText(f.Text)
	}
	for _, n := range nodes {
		if n.Deleted != f.Deleted {
			continue
		}
		if !attrMatch(f.Kind, string(n.Kind)) {
			continue
		}
		if !attrMatch(f.Category, n.Category) {
			continue
		}
		if !attrMatch(f.Owner, n.CreatedByName) {
			continue
		}
		if text != nil && !text(n) {
			continue
		}
		out = append(out, n)
	}
	SortNodes(out, sort, favorites)
	return out
}

// attrMatch applies one exact-match attribute filter with the "all" sentinel.
func attrMatch(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

// SortNodes orders nodes in place.
//
// The favorites strategy is a chained comparison, not a two-way favorite
// check: favorite status first, then name ascending, then ID. The chain
// guarantees a deterministic total order even for equal names, and keeps the
// relative order of non-favorited nodes identical to name-asc regardless of
// the favorites set.
func SortNodes(nodes []*Node, sort SortBy, favorites map[ksid.ID]bool) {
	switch sort {
	case SortFavorites:
		slices.SortStableFunc(nodes, func(a, b *Node) int {
			fa, fb := favorites[a.ID], favorites[b.ID]
			if fa != fb {
				if fa {
					return -1
				}
				return 1
			}
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	case SortNameDesc:
		slices.SortStableFunc(nodes, func(a, b *Node) int {
			if c := strings.Compare(b.Name, a.Name); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	default: // SortNameAsc
		slices.SortStableFunc(nodes, func(a, b *Node) int {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}
}
