// Converts hub domain types to dto wire types.

package handlers

import (
	"errors"
	"time"

	"github.com/hubfs/hubfs/internal/server/dto"
	"github.com/hubfs/hubfs/internal/storage/hub"
	"github.com/maruel/ksid"
)

func timeString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optTimeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeString(*t)
}

func idString(id ksid.ID) string {
	if id.IsZero() {
		return ""
	}
	return id.String()
}

// toNodeResponse converts a node. favorites is the caller's favorites set and
// may be nil.
func toNodeResponse(n *hub.Node, favorites map[ksid.ID]bool) dto.NodeResponse {
	out := dto.NodeResponse{
		ID:            n.ID.String(),
		ParentID:      idString(n.ParentID),
		Name:          n.Name,
		Kind:          string(n.Kind),
		Category:      n.Category,
		Size:          n.Size,
		MimeType:      n.MimeType,
		ContentRef:    n.ContentRef,
		Content:       n.Content,
		Tags:          n.Tags,
		Starred:       n.StarredGlobal,
		Favorite:      favorites[n.ID],
		Deleted:       n.Deleted,
		DeletedAt:     optTimeString(n.DeletedAt),
		CreatedBy:     n.CreatedBy,
		CreatedByName: n.CreatedByName,
		Created:       timeString(n.Created),
		UpdatedBy:     n.UpdatedBy,
		Modified:      timeString(n.Modified),
		LastOpenedAt:  optTimeString(n.LastOpenedAt),
		Version:       n.Version,
	}
	for _, h := range n.History {
		out.History = append(out.History, dto.VersionEntry{
			Version:       h.Version,
			UpdatedBy:     h.UpdatedBy,
			Updated:       timeString(h.Updated),
			ChangeSummary: h.ChangeSummary,
		})
	}
	return out
}

func toNodeResponses(nodes []*hub.Node, favorites map[ksid.ID]bool) []dto.NodeResponse {
	out := make([]dto.NodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = toNodeResponse(n, favorites)
	}
	return out
}

func toTreeNodes(views []*hub.TreeView, favorites map[ksid.ID]bool) []*dto.TreeNode {
	out := make([]*dto.TreeNode, len(views))
	for i, tv := range views {
		out[i] = &dto.TreeNode{
			Node:     toNodeResponse(tv.Node, favorites),
			Children: toTreeNodes(tv.Children, favorites),
		}
	}
	return out
}

// toBulkResponse converts per-item results. Item errors go through the domain
// mapping so each carries a structured code.
func toBulkResponse(results []hub.Result) *dto.BulkNodesResponse {
	out := &dto.BulkNodesResponse{Results: make([]dto.BulkItemResult, len(results))}
	for i, r := range results {
		item := dto.BulkItemResult{ID: r.ID.String()}
		if r.Node != nil {
			n := toNodeResponse(r.Node, nil)
			item.Node = &n
		}
		if r.Err != nil {
			mapped := mapDomainError(r.Err)
			var ews dto.ErrorWithStatus
			if errors.As(mapped, &ews) {
				item.Error = &dto.ErrorDetails{Code: ews.Code(), Message: ews.Error()}
			} else {
				item.Error = &dto.ErrorDetails{Code: dto.ErrorCodeInternal, Message: mapped.Error()}
			}
		}
		if r.Warn != nil {
			item.Warning = r.Warn.Error()
		}
		out.Results[i] = item
	}
	return out
}

// parseIDs decodes a bulk ID list, rejecting the whole request on a malformed
// ID: a typo'd ID is a client bug, not a per-item outcome.
func parseIDs(raw []string) ([]ksid.ID, error) {
	ids := make([]ksid.ID, len(raw))
	for i, s := range raw {
		id, err := ksid.Parse(s)
		if err != nil {
			return nil, dto.BadRequest("invalid node ID: " + s)
		}
		ids[i] = id
	}
	return ids, nil
}

func parseID(s string) (ksid.ID, error) {
	id, err := ksid.Parse(s)
	if err != nil {
		return 0, dto.BadRequest("invalid node ID: " + s)
	}
	return id, nil
}
