// Package hub implements the hierarchical document/file metadata store.
//
// Nodes (folders, documents, media, links) form a forest keyed by parent ID.
// The package is split along read/write lines: [NodeRepository] owns the
// canonical flat node set and enforces the tree invariants on every write,
// [MutationService] is the only writer, and the tree builder, listing
// pipeline and virtual scope resolver are pure read-side projections.
package hub

import (
	"errors"
	"slices"
	"time"

	"github.com/maruel/ksid"
)

// NodeKind classifies a node. Immutable after creation; changing the kind
// requires delete and recreate.
type NodeKind string

const (
	// KindFolder is the only kind that may parent other nodes.
	KindFolder NodeKind = "folder"
	// KindDocument is a rich-text document.
	KindDocument NodeKind = "document"
	// KindSheet is a spreadsheet.
	KindSheet NodeKind = "sheet"
	// KindPDF is a PDF file.
	KindPDF NodeKind = "pdf"
	// KindVideo is a video file.
	KindVideo NodeKind = "video"
	// KindImage is an image file.
	KindImage NodeKind = "image"
	// KindLink is a bookmarked URL.
	KindLink NodeKind = "link"
	// KindAudio is an audio file.
	KindAudio NodeKind = "audio"
	// KindArchive is a compressed archive.
	KindArchive NodeKind = "archive"
	// KindOther is any file not covered by the kinds above.
	KindOther NodeKind = "other"
)

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool {
	switch k {
	case KindFolder, KindDocument, KindSheet, KindPDF, KindVideo, KindImage,
		KindLink, KindAudio, KindArchive, KindOther:
		return true
	default:
		return false
	}
}

// Visibility is the recorded access level of a node. Recording only; this
// core does not enforce access control.
type Visibility string

const (
	// VisibilityPrivate means visible to the owner only.
	VisibilityPrivate Visibility = "private"
	// VisibilityTeam means visible to assigned users.
	VisibilityTeam Visibility = "team"
	// VisibilityPublic means visible to everyone.
	VisibilityPublic Visibility = "public"
)

// Permissions records who a node is shared with and what it links to.
type Permissions struct {
	Visibility     Visibility `json:"visibility,omitempty"`
	AssignedTo     []string   `json:"assigned_to,omitempty"`
	LinkedProjects []string   `json:"linked_projects,omitempty"`
	LinkedTasks    []string   `json:"linked_tasks,omitempty"`
}

func (p Permissions) clone() Permissions {
	p.AssignedTo = slices.Clone(p.AssignedTo)
	p.LinkedProjects = slices.Clone(p.LinkedProjects)
	p.LinkedTasks = slices.Clone(p.LinkedTasks)
	return p
}

// VersionEntry is one line of a node's version history.
type VersionEntry struct {
	Version       int       `json:"version"`
	UpdatedBy     string    `json:"updated_by,omitempty"`
	Updated       time.Time `json:"updated"`
	ChangeSummary string    `json:"change_summary,omitempty"`
}

// Node is a single entry in the hierarchy: a folder or a leaf content item.
//
// ParentID zero means the node lives at the root scope. Content bytes are
// never stored here; ContentRef points at the external blob store, Content
// holds small inline text only.
type Node struct {
	ID       ksid.ID  `json:"id"`
	ParentID ksid.ID  `json:"parent_id,omitempty"`
	Name     string   `json:"name"`
	Kind     NodeKind `json:"kind"`
	Category string   `json:"category,omitempty"`

	Size       int64    `json:"size,omitempty"`
	MimeType   string   `json:"mime_type,omitempty"`
	ContentRef string   `json:"content_ref,omitempty"`
	Content    string   `json:"content,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	// StarredGlobal is the legacy node-level starred flag. The per-user
	// favorites set in the preference store is authoritative for new behavior.
	StarredGlobal bool `json:"starred,omitempty"`

	Deleted   bool       `json:"deleted,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	Permissions Permissions `json:"permissions"`

	CreatedBy     string     `json:"created_by,omitempty"`
	CreatedByName string     `json:"created_by_name,omitempty"`
	Created       time.Time  `json:"created"`
	UpdatedBy     string     `json:"updated_by,omitempty"`
	Modified      time.Time  `json:"modified"`
	LastOpenedAt  *time.Time `json:"last_opened_at,omitempty"`

	Version int            `json:"version"`
	History []VersionEntry `json:"history"`
}

// Clone returns a deep copy of the Node.
func (n *Node) Clone() *Node {
	c := *n
	c.Tags = slices.Clone(n.Tags)
	c.History = slices.Clone(n.History)
	c.Permissions = n.Permissions.clone()
	if n.DeletedAt != nil {
		t := *n.DeletedAt
		c.DeletedAt = &t
	}
	if n.LastOpenedAt != nil {
		t := *n.LastOpenedAt
		c.LastOpenedAt = &t
	}
	return &c
}

// GetID returns the node's ID.
func (n *Node) GetID() ksid.ID {
	return n.ID
}

// Validate checks the node's intrinsic invariants: non-empty name, known
// kind, version/history agreement, and deleted/deletedAt set together.
func (n *Node) Validate() error {
	if n.ID.IsZero() {
		return errors.New("node ID is required")
	}
	if n.Name == "" {
		return errors.New("node name cannot be empty")
	}
	if !n.Kind.Valid() {
		return errors.New("unknown node kind: " + string(n.Kind))
	}
	if n.Version < 1 {
		return errors.New("node version must be at least 1")
	}
	if len(n.History) != n.Version {
		return errors.New("version history length must equal version")
	}
	if n.Deleted != (n.DeletedAt != nil) {
		return errors.New("deleted flag and deleted_at must be set together")
	}
	for _, tag := range n.Tags {
		if tag == "" {
			return errors.New("tags cannot be empty strings")
		}
	}
	return nil
}

// IsFolder reports whether the node can parent other nodes.
func (n *Node) IsFolder() bool {
	return n.Kind == KindFolder
}

// TreeView is one node of the derived hierarchical view.
type TreeView struct {
	Node     *Node       `json:"node"`
	Children []*TreeView `json:"children,omitempty"`
}
