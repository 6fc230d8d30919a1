package handlers

import (
	"context"

	"github.com/hubfs/hubfs/internal/server/dto"
	"github.com/hubfs/hubfs/internal/storage/hub"
	"github.com/maruel/ksid"
)

// NodeHandler handles node lifecycle and listing requests.
type NodeHandler struct {
	svc *Services
}

// NewNodeHandler creates a new node handler.
func NewNodeHandler(svc *Services) *NodeHandler {
	return &NodeHandler{svc: svc}
}

// List returns the ordered node listing for a scope.
func (h *NodeHandler) List(ctx context.Context, actor hub.Actor, req *dto.ListNodesRequest) (*dto.ListNodesResponse, error) {
	scope, err := hub.ParseScope(req.Scope)
	if err != nil {
		return nil, dto.BadRequest(err.Error())
	}
	filters := hub.ListFilters{
		Kind:     req.Kind,
		Category: req.Category,
		Owner:    req.Owner,
		Text:     req.Text,
	}
	nodes := h.svc.Listing.List(actor.ID, scope, filters, hub.SortBy(req.Sort))
	favorites := h.svc.Prefs.Favorites(actor.ID)
	return &dto.ListNodesResponse{
		Nodes:     toNodeResponses(nodes, favorites),
		ExpandAll: req.Text != "",
	}, nil
}

// Tree returns the hierarchical live-node navigation tree, optionally pruned
// by a name search that keeps ancestor chains visible.
func (h *NodeHandler) Tree(ctx context.Context, actor hub.Actor, req *dto.GetTreeRequest) (*dto.GetTreeResponse, error) {
	forest := h.svc.Listing.Tree()
	result := hub.SearchTree(forest.Roots, req.Query)
	favorites := h.svc.Prefs.Favorites(actor.ID)
	return &dto.GetTreeResponse{
		Roots:     toTreeNodes(result.Roots, favorites),
		ExpandAll: result.ExpandAll,
	}, nil
}

// Get retrieves a single node with its version history.
func (h *NodeHandler) Get(ctx context.Context, actor hub.Actor, req *dto.GetNodeRequest) (*dto.NodeResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Repo.Get(id)
	if err != nil {
		return nil, mapDomainError(err)
	}
	resp := toNodeResponse(n, h.svc.Prefs.Favorites(actor.ID))
	return &resp, nil
}

// GetPath returns a node's breadcrumb path from the root.
func (h *NodeHandler) GetPath(ctx context.Context, actor hub.Actor, req *dto.GetNodePathRequest) (*dto.GetNodePathResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	path, err := h.svc.Repo.Path(id)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &dto.GetNodePathResponse{Path: path}, nil
}

// Create creates a node in a scope. Creates aimed at a virtual scope land at
// the root.
func (h *NodeHandler) Create(ctx context.Context, actor hub.Actor, req *dto.CreateNodeRequest) (*dto.NodeResponse, error) {
	scope, err := hub.ParseScope(req.Scope)
	if err != nil {
		return nil, dto.BadRequest(err.Error())
	}
	kind := hub.NodeKind(req.Kind)
	if !kind.Valid() {
		return nil, dto.BadRequest("unknown kind: " + req.Kind)
	}
	n, err := h.svc.Mutations.Create(ctx, actor, hub.CreateRequest{
		ParentID:   scope.CreateParent(),
		Kind:       kind,
		Name:       req.Name,
		Category:   req.Category,
		Tags:       req.Tags,
		Size:       req.Size,
		MimeType:   req.MimeType,
		ContentRef: req.ContentRef,
		Content:    req.Content,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}
	resp := toNodeResponse(n, nil)
	return &resp, nil
}

// Rename changes a node's display name.
func (h *NodeHandler) Rename(ctx context.Context, actor hub.Actor, req *dto.RenameNodeRequest) (*dto.NodeResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Mutations.Rename(ctx, actor, id, req.Version, req.Name)
	if err != nil {
		return nil, mapDomainError(err)
	}
	resp := toNodeResponse(n, nil)
	return &resp, nil
}

// Move reparents a node. An empty parent_id moves it to the root.
func (h *NodeHandler) Move(ctx context.Context, actor hub.Actor, req *dto.MoveNodeRequest) (*dto.NodeResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	var parentID ksid.ID
	if req.ParentID != "" {
		parentID, err = parseID(req.ParentID)
		if err != nil {
			return nil, err
		}
	}
	n, err := h.svc.Mutations.Move(ctx, actor, id, req.Version, parentID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	resp := toNodeResponse(n, nil)
	return &resp, nil
}

// Retag replaces a node's tag set.
func (h *NodeHandler) Retag(ctx context.Context, actor hub.Actor, req *dto.RetagNodeRequest) (*dto.NodeResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Mutations.Retag(ctx, actor, id, req.Version, req.Tags)
	if err != nil {
		return nil, mapDomainError(err)
	}
	resp := toNodeResponse(n, nil)
	return &resp, nil
}

// UpdateContent applies a content patch to a node.
func (h *NodeHandler) UpdateContent(ctx context.Context, actor hub.Actor, req *dto.UpdateContentRequest) (*dto.NodeResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Mutations.UpdateContent(ctx, actor, id, req.Version, hub.ContentPatch{
		ContentRef: req.ContentRef,
		Content:    req.Content,
		Size:       req.Size,
		MimeType:   req.MimeType,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}
	resp := toNodeResponse(n, nil)
	return &resp, nil
}

// Star flips the global starred flag.
func (h *NodeHandler) Star(ctx context.Context, actor hub.Actor, req *dto.StarNodeRequest) (*dto.NodeResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Mutations.SetStarred(ctx, actor, id, req.Version, req.Starred)
	if err != nil {
		return nil, mapDomainError(err)
	}
	resp := toNodeResponse(n, nil)
	return &resp, nil
}

// Delete soft-deletes nodes in bulk, one outcome per ID.
func (h *NodeHandler) Delete(ctx context.Context, actor hub.Actor, req *dto.BulkNodesRequest) (*dto.BulkNodesResponse, error) {
	ids, err := parseIDs(req.IDs)
	if err != nil {
		return nil, err
	}
	return toBulkResponse(h.svc.Mutations.SoftDelete(ctx, actor, ids)), nil
}

// Restore brings soft-deleted nodes back, one outcome per ID.
func (h *NodeHandler) Restore(ctx context.Context, actor hub.Actor, req *dto.BulkNodesRequest) (*dto.BulkNodesResponse, error) {
	ids, err := parseIDs(req.IDs)
	if err != nil {
		return nil, err
	}
	return toBulkResponse(h.svc.Mutations.Restore(ctx, actor, ids)), nil
}

// Purge permanently removes trashed nodes, one outcome per ID.
func (h *NodeHandler) Purge(ctx context.Context, actor hub.Actor, req *dto.BulkNodesRequest) (*dto.BulkNodesResponse, error) {
	ids, err := parseIDs(req.IDs)
	if err != nil {
		return nil, err
	}
	return toBulkResponse(h.svc.Mutations.Purge(ctx, ids)), nil
}

// CascadeDelete soft-deletes every live descendant of a folder.
func (h *NodeHandler) CascadeDelete(ctx context.Context, actor hub.Actor, req *dto.CascadeDeleteRequest) (*dto.BulkNodesResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	if _, err := h.svc.Repo.Get(id); err != nil {
		return nil, mapDomainError(err)
	}
	return toBulkResponse(h.svc.Mutations.CascadeDelete(ctx, actor, id)), nil
}

// Touch records that a node was opened, feeding the recent view.
func (h *NodeHandler) Touch(ctx context.Context, actor hub.Actor, req *dto.TouchNodeRequest) (*dto.NodeResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Mutations.Touch(ctx, id)
	if err != nil {
		return nil, mapDomainError(err)
	}
	resp := toNodeResponse(n, nil)
	return &resp, nil
}
