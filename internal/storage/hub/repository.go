// Owns the canonical node set and enforces the tree invariants.

package hub

import (
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hubfs/hubfs/internal/jsonldb"
	"github.com/maruel/ksid"
)

// NodeRepository stores the flat node set in a JSONL table with a secondary
// index by parent ID.
//
// It is the single enforcement point for the structural invariants: the
// parent of any node must be an existing, non-deleted folder (or the root),
// no node may become its own ancestor, and ancestor chains are bounded by
// maxDepth. Writes use optimistic concurrency; the caller supplies the
// version it last observed and gets a [VersionConflictError] if the stored
// version has advanced.
type NodeRepository struct {
	table    *jsonldb.Table[*Node]
	byParent *jsonldb.Index[ksid.ID, *Node]
	maxDepth int
	gen      genCounter
}

// genCounter counts table mutations. Derived views (the navigation tree)
// compare generations to know when a cached build is stale.
type genCounter struct {
	n atomic.Uint64
}

func (g *genCounter) OnAppend(*Node)      { g.n.Add(1) }
func (g *genCounter) OnUpdate(_, _ *Node) { g.n.Add(1) }
func (g *genCounter) OnDelete(*Node)      { g.n.Add(1) }

// Change describes the provenance of a single mutating update.
type Change struct {
	UpdatedBy string
	Summary   string
	When      time.Time
}

// NewNodeRepository opens (or creates) the node table at dir/nodes.jsonl.
func NewNodeRepository(dir string, maxDepth int) (*NodeRepository, error) {
	if maxDepth <= 0 {
		return nil, errors.New("maxDepth must be positive")
	}
	table, err := jsonldb.NewTable[*Node](filepath.Join(dir, "nodes.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to open node table: %w", err)
	}
	r := &NodeRepository{table: table, maxDepth: maxDepth}
	r.byParent = jsonldb.NewIndex(table, func(n *Node) ksid.ID { return n.ParentID })
	table.AddObserver(&r.gen)
	return r, nil
}

// Generation returns a counter that advances on every stored mutation,
// including touches. Equal generations imply an identical node set.
func (r *NodeRepository) Generation() uint64 {
	return r.gen.n.Load()
}

// Len returns the total number of stored nodes, deleted included.
func (r *NodeRepository) Len() int {
	return r.table.Len()
}

// Get returns a copy of the node with the given ID.
func (r *NodeRepository) Get(id ksid.ID) (*Node, error) {
	n := r.table.Get(id)
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

// All returns an iterator over copies of all nodes.
func (r *NodeRepository) All() iter.Seq[*Node] {
	return r.table.All()
}

// Snapshot returns all nodes as a slice, a point-in-time consistent read.
func (r *NodeRepository) Snapshot() []*Node {
	nodes := make([]*Node, 0, r.table.Len())
	for n := range r.table.All() {
		nodes = append(nodes, n)
	}
	return nodes
}

// Children returns an iterator over copies of the direct children of parentID.
// Pass the zero ID for root-level nodes.
func (r *NodeRepository) Children(parentID ksid.ID) iter.Seq[*Node] {
	return r.byParent.Iter(parentID)
}

// Insert adds a newly created node. The node must carry version 1 and a
// single-entry history; the parent invariant is checked here.
func (r *NodeRepository) Insert(n *Node) error {
	if n.Version != 1 || len(n.History) != 1 {
		return errors.New("new nodes must start at version 1")
	}
	if err := r.validateParent(n.ID, n.ParentID); err != nil {
		return err
	}
	if err := r.table.Append(n); err != nil {
		if errors.Is(err, jsonldb.ErrDuplicateID) {
			return fmt.Errorf("node %s already exists", n.ID)
		}
		return err
	}
	return nil
}

// Update applies mutate to the node under optimistic concurrency control.
//
// The stored version must equal expectedVersion or the update is rejected
// with [VersionConflictError]. On success the version is incremented, a
// history entry is appended, and the modified timestamp is bumped. If mutate
// changes the parent, the cycle, parent-kind and depth invariants are
// re-validated at update time against the current snapshot: the tree may
// have changed since the caller decided to move.
func (r *NodeRepository) Update(id ksid.ID, expectedVersion int, change Change, mutate func(*Node) error) (*Node, error) {
	// Dry run on a copy to learn the resulting parent before taking the
	// table lock; the ancestor walk reads other rows and must not run inside
	// Modify.
	curr, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if curr.Version != expectedVersion {
		return nil, &VersionConflictError{Current: curr.Version}
	}
	prevParent := curr.ParentID
	if err := mutate(curr); err != nil {
		return nil, err
	}
	if curr.ParentID != prevParent {
		if err := r.validateParent(id, curr.ParentID); err != nil {
			return nil, err
		}
	}

	updated, err := r.table.Modify(id, func(n *Node) (*Node, error) {
		if n.Version != expectedVersion {
			return nil, &VersionConflictError{Current: n.Version}
		}
		if err := mutate(n); err != nil {
			return nil, err
		}
		n.Version++
		n.UpdatedBy = change.UpdatedBy
		n.Modified = change.When
		n.History = append(n.History, VersionEntry{
			Version:       n.Version,
			UpdatedBy:     change.UpdatedBy,
			Updated:       change.When,
			ChangeSummary: change.Summary,
		})
		return n, nil
	})
	if err != nil {
		if errors.Is(err, jsonldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Touch records that the node was opened. Read tracking, not a mutation:
// the version is not bumped and no history entry is added.
func (r *NodeRepository) Touch(id ksid.ID, when time.Time) (*Node, error) {
	n, err := r.table.Modify(id, func(n *Node) (*Node, error) {
		t := when
		n.LastOpenedAt = &t
		return n, nil
	})
	if errors.Is(err, jsonldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return n, err
}

// Remove permanently deletes the node row. Callers must have verified the
// node is soft-deleted first; this is the purge path.
func (r *NodeRepository) Remove(id ksid.ID) error {
	if err := r.table.Delete(id); err != nil {
		if errors.Is(err, jsonldb.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Path derives the display path of a node by walking its parent chain.
// Not authoritative; always recomputed from the stored parent IDs.
func (r *NodeRepository) Path(id ksid.ID) (string, error) {
	var parts []string
	curr := id
	for steps := 0; !curr.IsZero(); steps++ {
		if steps > r.maxDepth {
			return "", ErrTreeTooDeep
		}
		n := r.table.Get(curr)
		if n == nil {
			return "", ErrNotFound
		}
		parts = append(parts, n.Name)
		curr = n.ParentID
	}
	slices.Reverse(parts)
	return "/" + strings.Join(parts, "/"), nil
}

// validateParent checks the structural invariants for parenting child under
// parentID: the target resolves to a live folder (or the root), the walk to
// the root stays within the depth bound, and child is never encountered on
// the way up (no cycles).
func (r *NodeRepository) validateParent(child, parentID ksid.ID) error {
	if parentID.IsZero() {
		return nil
	}
	if parentID == child {
		return ErrCycleDetected
	}
	p := r.table.Get(parentID)
	if p == nil || p.Deleted || !p.IsFolder() {
		return ErrInvalidParent
	}
	// Walk the prospective ancestor chain up to the root.
	curr := p.ParentID
	for steps := 1; !curr.IsZero(); steps++ {
		if steps >= r.maxDepth {
			return ErrTreeTooDeep
		}
		if curr == child {
			return ErrCycleDetected
		}
		a := r.table.Get(curr)
		if a == nil {
			// Dangling parent pointer; treat as root rather than failing the
			// unrelated write. The tree builder flags these for repair.
			return nil
		}
		curr = a.ParentID
	}
	return nil
}
