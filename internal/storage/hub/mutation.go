// The only writer: executes the node lifecycle state machine.

package hub

import (
	"context"
	"slices"

	"github.com/hubfs/hubfs/internal/storage"
	"github.com/maruel/ksid"
)

// Actor identifies who performs a mutation. Supplied by the external
// identity provider; this core does not authenticate it.
type Actor struct {
	ID   string
	Name string
}

// CreateRequest carries the attributes of a new node.
type CreateRequest struct {
	ParentID    ksid.ID
	Kind        NodeKind
	Name        string
	Category    string
	Tags        []string
	Size        int64
	MimeType    string
	ContentRef  string
	Content     string
	Permissions Permissions
}

// Result is the per-item outcome of a bulk operation. Bulk operations never
// fail atomically: each ID is processed independently and fully reported.
type Result struct {
	ID   ksid.ID
	Node *Node
	Err  error
	// Warn is set for non-fatal conditions, e.g. [WarnParentStillDeleted]
	// on a restore whose parent is still in the trash.
	Warn error
}

// MutationService executes create, rename, move, soft-delete, restore and
// purge, singly and in bulk. Per node the lifecycle is
// Active -> Deleted -> Active (restored) or Purged (terminal). The only
// concurrency control is the repository's per-node optimistic versioning;
// conflicting writes to the same node collide with [VersionConflictError]
// and the caller re-reads and retries.
type MutationService struct {
	repo     *NodeRepository
	clock    storage.Clock
	maxNodes int
}

// NewMutationService creates a mutation service. maxNodes of 0 disables the
// quota check.
func NewMutationService(repo *NodeRepository, clock storage.Clock, maxNodes int) *MutationService {
	return &MutationService{repo: repo, clock: clock, maxNodes: maxNodes}
}

// Create validates the parent and inserts a new node at version 1.
func (s *MutationService) Create(ctx context.Context, actor Actor, req CreateRequest) (*Node, error) {
	if s.maxNodes > 0 && s.repo.Len() >= s.maxNodes {
		return nil, ErrQuotaExceeded
	}
	now := s.clock.Now()
	n := &Node{
		ID:            ksid.NewID(),
		ParentID:      req.ParentID,
		Name:          req.Name,
		Kind:          req.Kind,
		Category:      req.Category,
		Tags:          slices.Clone(req.Tags),
		Size:          req.Size,
		MimeType:      req.MimeType,
		ContentRef:    req.ContentRef,
		Content:       req.Content,
		Permissions:   req.Permissions.clone(),
		CreatedBy:     actor.ID,
		CreatedByName: actor.Name,
		Created:       now,
		UpdatedBy:     actor.ID,
		Modified:      now,
		Version:       1,
		History: []VersionEntry{{
			Version:       1,
			UpdatedBy:     actor.ID,
			Updated:       now,
			ChangeSummary: "created",
		}},
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Rename changes the display name.
func (s *MutationService) Rename(ctx context.Context, actor Actor, id ksid.ID, version int, name string) (*Node, error) {
	return s.repo.Update(id, version, s.change(actor, "renamed"), func(n *Node) error {
		n.Name = name
		return nil
	})
}

// Retag replaces the tag set.
func (s *MutationService) Retag(ctx context.Context, actor Actor, id ksid.ID, version int, tags []string) (*Node, error) {
	return s.repo.Update(id, version, s.change(actor, "retagged"), func(n *Node) error {
		n.Tags = slices.Clone(tags)
		return nil
	})
}

// ContentPatch updates the content reference of a node. Nil fields are left
// unchanged. Bytes live in the external blob store; only the reference and
// small inline text are recorded here.
type ContentPatch struct {
	ContentRef *string
	Content    *string
	Size       *int64
	MimeType   *string
}

// UpdateContent applies a content patch.
func (s *MutationService) UpdateContent(ctx context.Context, actor Actor, id ksid.ID, version int, patch ContentPatch) (*Node, error) {
	return s.repo.Update(id, version, s.change(actor, "content updated"), func(n *Node) error {
		if patch.ContentRef != nil {
			n.ContentRef = *patch.ContentRef
		}
		if patch.Content != nil {
			n.Content = *patch.Content
		}
		if patch.Size != nil {
			n.Size = *patch.Size
		}
		if patch.MimeType != nil {
			n.MimeType = *patch.MimeType
		}
		return nil
	})
}

// SetStarred flips the legacy node-level starred flag. Per-user favorites
// live in the preference store; this flag is kept for backward
// compatibility.
func (s *MutationService) SetStarred(ctx context.Context, actor Actor, id ksid.ID, version int, starred bool) (*Node, error) {
	return s.repo.Update(id, version, s.change(actor, "starred flag changed"), func(n *Node) error {
		n.StarredGlobal = starred
		return nil
	})
}

// Move reparents a node. The cycle and parent-kind invariants are
// re-validated at move time by the repository, not merely at read time: the
// tree may have changed since the caller decided to move.
func (s *MutationService) Move(ctx context.Context, actor Actor, id ksid.ID, version int, newParent ksid.ID) (*Node, error) {
	return s.repo.Update(id, version, s.change(actor, "moved"), func(n *Node) error {
		n.ParentID = newParent
		return nil
	})
}

// SoftDelete marks each node deleted, one independent outcome per ID.
//
// Non-cascading: children of a deleted folder stay deleted=false in storage
// and merely become unreachable from live listings, keeping the operation
// O(1) regardless of subtree size. [MutationService.CascadeDelete] is the
// explicit follow-on repair.
func (s *MutationService) SoftDelete(ctx context.Context, actor Actor, ids []ksid.ID) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, s.softDeleteOne(actor, id))
	}
	return results
}

func (s *MutationService) softDeleteOne(actor Actor, id ksid.ID) Result {
	curr, err := s.repo.Get(id)
	if err != nil {
		return Result{ID: id, Err: err}
	}
	if curr.Deleted {
		// Already in the trash; idempotent.
		return Result{ID: id, Node: curr}
	}
	now := s.clock.Now()
	n, err := s.repo.Update(id, curr.Version, s.change(actor, "deleted"), func(n *Node) error {
		n.Deleted = true
		t := now
		n.DeletedAt = &t
		return nil
	})
	return Result{ID: id, Node: n, Err: err}
}

// Restore brings soft-deleted nodes back, one independent outcome per ID.
// Restoring a node whose parent is itself still deleted succeeds with a
// [WarnParentStillDeleted] warning: the node is live but unreachable through
// navigation until the parent is restored, matching "restore this item"
// semantics.
func (s *MutationService) Restore(ctx context.Context, actor Actor, ids []ksid.ID) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, s.restoreOne(actor, id))
	}
	return results
}

func (s *MutationService) restoreOne(actor Actor, id ksid.ID) Result {
	curr, err := s.repo.Get(id)
	if err != nil {
		return Result{ID: id, Err: err}
	}
	if !curr.Deleted {
		return Result{ID: id, Node: curr}
	}
	n, err := s.repo.Update(id, curr.Version, s.change(actor, "restored"), func(n *Node) error {
		n.Deleted = false
		n.DeletedAt = nil
		return nil
	})
	res := Result{ID: id, Node: n, Err: err}
	if err == nil && !n.ParentID.IsZero() {
		if parent, perr := s.repo.Get(n.ParentID); perr == nil && parent.Deleted {
			res.Warn = WarnParentStillDeleted
		}
	}
	return res
}

// Purge permanently removes nodes and their version history. Only valid
// from the deleted state; purging an active node fails [ErrNotDeleted] as a
// guard against accidental permanent loss. Irreversible.
func (s *MutationService) Purge(ctx context.Context, ids []ksid.ID) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, s.purgeOne(id))
	}
	return results
}

func (s *MutationService) purgeOne(id ksid.ID) Result {
	curr, err := s.repo.Get(id)
	if err != nil {
		return Result{ID: id, Err: err}
	}
	if !curr.Deleted {
		return Result{ID: id, Err: ErrNotDeleted}
	}
	if err := s.repo.Remove(id); err != nil {
		return Result{ID: id, Err: err}
	}
	return Result{ID: id}
}

// CascadeDelete soft-deletes every live descendant of folderID. The repair
// companion to the non-cascading soft delete, meant to run out-of-band, off
// any user-facing critical path. The folder itself is not touched.
func (s *MutationService) CascadeDelete(ctx context.Context, actor Actor, folderID ksid.ID) []Result {
	var results []Result
	queue := []ksid.ID{folderID}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for child := range s.repo.Children(parent) {
			if child.IsFolder() {
				queue = append(queue, child.ID)
			}
			if child.Deleted {
				continue
			}
			results = append(results, s.softDeleteOne(actor, child.ID))
		}
	}
	return results
}

// Touch records that a node was opened, feeding the recent view. Not a
// content or metadata mutation: no version bump.
func (s *MutationService) Touch(ctx context.Context, id ksid.ID) (*Node, error) {
	return s.repo.Touch(id, s.clock.Now())
}

func (s *MutationService) change(actor Actor, summary string) Change {
	return Change{UpdatedBy: actor.ID, Summary: summary, When: s.clock.Now()}
}
