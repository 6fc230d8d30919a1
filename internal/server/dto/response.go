package dto

// --- Common Responses ---

// OkResponse is a simple success response.
type OkResponse struct {
	Ok bool `json:"ok"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// --- Node Responses ---

// NodeResponse is the wire form of a node. Timestamps are RFC3339; optional
// timestamps are empty strings when unset.
type NodeResponse struct {
	ID            string              `json:"id"`
	ParentID      string              `json:"parent_id,omitempty"`
	Name          string              `json:"name"`
	Kind          string              `json:"kind"`
	Category      string              `json:"category,omitempty"`
	Size          int64               `json:"size,omitempty"`
	MimeType      string              `json:"mime_type,omitempty"`
	ContentRef    string              `json:"content_ref,omitempty"`
	Content       string              `json:"content,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	Starred       bool                `json:"starred,omitempty"`
	Favorite      bool                `json:"favorite,omitempty"`
	Deleted       bool                `json:"deleted,omitempty"`
	DeletedAt     string              `json:"deleted_at,omitempty"`
	CreatedBy     string              `json:"created_by"`
	CreatedByName string              `json:"created_by_name,omitempty"`
	Created       string              `json:"created"`
	UpdatedBy     string              `json:"updated_by"`
	Modified      string              `json:"modified"`
	LastOpenedAt  string              `json:"last_opened_at,omitempty"`
	Version       int                 `json:"version"`
	History       []VersionEntry      `json:"history,omitempty"`
}

// VersionEntry is one recorded change in a node's history.
type VersionEntry struct {
	Version       int    `json:"version"`
	UpdatedBy     string `json:"updated_by"`
	Updated       string `json:"updated"`
	ChangeSummary string `json:"change_summary,omitempty"`
}

// ListNodesResponse is the ordered listing of a scope.
type ListNodesResponse struct {
	Nodes []NodeResponse `json:"nodes"`
	// ExpandAll signals the client to expand every surviving branch, set
	// when a text search shaped the result.
	ExpandAll bool `json:"expand_all,omitempty"`
}

// TreeNode is one node of the hierarchical navigation tree.
type TreeNode struct {
	Node     NodeResponse `json:"node"`
	Children []*TreeNode  `json:"children,omitempty"`
}

// GetTreeResponse is the live navigation tree. ExpandAll is set when a
// search produced the result: every surviving folder should render expanded.
type GetTreeResponse struct {
	Roots     []*TreeNode `json:"roots"`
	ExpandAll bool        `json:"expand_all,omitempty"`
}

// GetNodePathResponse is a node's breadcrumb path from the root.
type GetNodePathResponse struct {
	Path string `json:"path"`
}

// BulkItemResult is the outcome for one ID of a bulk operation.
type BulkItemResult struct {
	ID      string        `json:"id"`
	Node    *NodeResponse `json:"node,omitempty"`
	Error   *ErrorDetails `json:"error,omitempty"`
	Warning string        `json:"warning,omitempty"`
}

// BulkNodesResponse reports every item of a bulk operation; partial failure
// is normal, not an HTTP error.
type BulkNodesResponse struct {
	Results []BulkItemResult `json:"results"`
}

// --- Preference Responses ---

// PreferenceResponse is the caller's view preference for a scope.
type PreferenceResponse struct {
	Scope    string `json:"scope"`
	ViewMode string `json:"view_mode"`
	SortBy   string `json:"sort_by"`
}

// FavoriteResponse reports a node's favorite state for the caller.
type FavoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// ListFavoritesResponse lists the caller's favorited node IDs.
type ListFavoritesResponse struct {
	IDs []string `json:"ids"`
}
