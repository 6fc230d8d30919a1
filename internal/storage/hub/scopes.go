// Maps pseudo-folders (root, starred, recent, trash) to computed queries.

package hub

import (
	"fmt"
	"slices"
	"sync"

	"github.com/maruel/ksid"
)

// VirtualScope names a computed view that is not backed by a folder node.
type VirtualScope string

const (
	// ScopeRoot lists nodes with no parent.
	ScopeRoot VirtualScope = "root"
	// ScopeStarred lists nodes starred globally or favorited by the user.
	ScopeStarred VirtualScope = "starred"
	// ScopeRecent lists the most recently opened nodes.
	ScopeRecent VirtualScope = "recent"
	// ScopeTrash lists soft-deleted nodes, flattened.
	ScopeTrash VirtualScope = "trash"
)

// Scope is the folder a listing query is evaluated against: either a real
// folder node or one of the virtual scopes.
type Scope struct {
	Virtual  VirtualScope // Set for virtual scopes; empty otherwise.
	FolderID ksid.ID      // Set for real folders; zero otherwise.
}

// ParseScope interprets a scope string: a virtual scope name or an encoded
// folder ID. The empty string means root.
func ParseScope(s string) (Scope, error) {
	switch VirtualScope(s) {
	case ScopeRoot, "":
		return Scope{Virtual: ScopeRoot}, nil
	case ScopeStarred:
		return Scope{Virtual: ScopeStarred}, nil
	case ScopeRecent:
		return Scope{Virtual: ScopeRecent}, nil
	case ScopeTrash:
		return Scope{Virtual: ScopeTrash}, nil
	}
	id, err := ksid.Parse(s)
	if err != nil {
		return Scope{}, fmt.Errorf("invalid scope %q: %w", s, err)
	}
	return Scope{FolderID: id}, nil
}

// String returns the canonical scope key, used for preferences.
func (s Scope) String() string {
	if s.Virtual != "" {
		return string(s.Virtual)
	}
	return s.FolderID.String()
}

// IsTrash reports whether the scope is the trash view.
func (s Scope) IsTrash() bool {
	return s.Virtual == ScopeTrash
}

// CreateParent returns the parent ID for a create targeting this scope.
// Creates aimed at a virtual scope are redirected to the root by convention
// rather than rejected.
func (s Scope) CreateParent() ksid.ID {
	if s.Virtual != "" {
		return ksid.ID(0)
	}
	return s.FolderID
}

// ScopeResolver turns a scope into the candidate node slice for the listing
// pipeline. Virtual scopes are queries over the repository snapshot, never
// stored rows; all scopes are read-only entry points.
type ScopeResolver struct {
	repo        *NodeRepository
	recentLimit int
}

// NewScopeResolver creates a resolver. recentLimit caps the recent view.
func NewScopeResolver(repo *NodeRepository, recentLimit int) *ScopeResolver {
	return &ScopeResolver{repo: repo, recentLimit: recentLimit}
}

// Resolve returns the candidate nodes for the scope. favorites is the
// requesting user's favorites set, consulted only by the starred scope.
// presorted is set when the scope carries its own inherent order that the
// pipeline's sort stage must not disturb (the recent view).
func (r *ScopeResolver) Resolve(s Scope, favorites map[ksid.ID]bool) (nodes []*Node, presorted bool) {
	switch s.Virtual {
	case ScopeStarred:
		for n := range r.repo.All() {
			if !n.Deleted && (n.StarredGlobal || favorites[n.ID]) {
				nodes = append(nodes, n)
			}
		}
		return nodes, false
	case ScopeRecent:
		for n := range r.repo.All() {
			if !n.Deleted && n.LastOpenedAt != nil {
				nodes = append(nodes, n)
			}
		}
		slices.SortFunc(nodes, func(a, b *Node) int {
			return b.LastOpenedAt.Compare(*a.LastOpenedAt)
		})
		if len(nodes) > r.recentLimit {
			nodes = nodes[:r.recentLimit]
		}
		return nodes, true
	case ScopeTrash:
		for n := range r.repo.All() {
			if n.Deleted {
				nodes = append(nodes, n)
			}
		}
		return nodes, false
	default:
		// Real folder, or root for the zero ID.
		for n := range r.repo.Children(s.CreateParent()) {
			nodes = append(nodes, n)
		}
		return nodes, false
	}
}

// ListingService answers listing queries by composing the scope resolver,
// the filter stages and the user's stored sort preference.
//
// The built navigation tree is cached and invalidated by the repository's
// mutation generation. Callers must treat the returned forest as read-only.
type ListingService struct {
	resolver *ScopeResolver
	prefs    *PreferenceService

	mu      sync.Mutex
	treeGen uint64
	tree    *Forest
}

// NewListingService creates a listing service.
func NewListingService(resolver *ScopeResolver, prefs *PreferenceService) *ListingService {
	return &ListingService{resolver: resolver, prefs: prefs}
}

// List returns the ordered node list for userID's view of the scope.
// sort may be empty, in which case the user's stored preference for the
// scope (or the default) applies. The deletion filter is derived from the
// scope: the trash view lists deleted nodes, everything else lists live
// ones.
func (s *ListingService) List(userID string, scope Scope, f ListFilters, sort SortBy) []*Node {
	f.Deleted = scope.IsTrash()
	if sort == "" {
		sort = s.prefs.Get(userID, scope.String()).SortBy
	}
	favorites := s.prefs.Favorites(userID)
	nodes, presorted := s.resolver.Resolve(scope, favorites)
	if presorted {
		// The recent view keeps its newest-first order; only the predicate
		// stages apply.
		out := nodes[:0:0]
		var text Predicate
		if f.Text != "" {
			text = MatchesText(f.Text)
		}
		for _, n := range nodes {
			if n.Deleted != f.Deleted {
				continue
			}
			if !attrMatch(f.Kind, string(n.Kind)) || !attrMatch(f.Category, n.Category) || !attrMatch(f.Owner, n.CreatedByName) {
				continue
			}
			if text != nil && !text(n) {
				continue
			}
			out = append(out, n)
		}
		return out
	}
	return Refine(nodes, f, sort, favorites)
}

// Tree builds the hierarchical live-node view for navigation, rooted at the
// full forest. Deleted folders and their unreachable descendants are
// excluded. The result is cached until the next repository mutation and must
// not be modified.
func (s *ListingService) Tree() *Forest {
	gen := s.resolver.repo.Generation()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree != nil && s.treeGen == gen {
		return s.tree
	}
	s.tree = s.buildTree()
	s.treeGen = gen
	return s.tree
}

func (s *ListingService) buildTree() *Forest {
	var live []*Node
	for n := range s.resolver.repo.All() {
		if !n.Deleted {
			live = append(live, n)
		}
	}
	f := BuildTree(live)
	// A live child of a deleted folder has a parent that is filtered out
	// above; BuildTree reports it as an orphan and keeps it at root level.
	// The default view must not surface it as live, so prune orphans whose
	// parent still exists in the repository.
	if len(f.Orphans) == 0 {
		return f
	}
	orphaned := make(map[ksid.ID]bool, len(f.Orphans))
	for _, id := range f.Orphans {
		orphaned[id] = true
	}
	roots := f.Roots[:0:0]
	for _, tv := range f.Roots {
		if orphaned[tv.Node.ID] {
			if parent, err := s.resolver.repo.Get(tv.Node.ParentID); err == nil && parent.Deleted {
				// Unreachable until the parent is restored.
				continue
			}
		}
		roots = append(roots, tv)
	}
	f.Roots = roots
	return f
}
