package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxNameLength bounds node display names.
const MaxNameLength = 255

// MaxBulkIDs bounds the number of IDs in one bulk request.
const MaxBulkIDs = 100

// --- Health ---

// HealthRequest is a request for the health check.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}

// --- Listing ---

// ListNodesRequest is a request to list a scope. Scope is a folder ID or one
// of the virtual scopes (root, starred, recent, trash).
type ListNodesRequest struct {
	Scope    string `path:"scope" json:"-"`
	Kind     string `query:"kind" json:"-"`
	Category string `query:"category" json:"-"`
	Owner    string `query:"owner" json:"-"`
	Text     string `query:"q" json:"-"`
	Sort     string `query:"sort" json:"-"`
}

// Validate validates the list request fields.
func (r *ListNodesRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Sort, validation.In("favorites", "name-asc", "name-desc")),
	); err != nil {
		return BadRequest(err.Error())
	}
	return nil
}

// GetTreeRequest is a request for the hierarchical navigation tree. A
// non-empty Query prunes the tree to matching names plus their ancestors.
type GetTreeRequest struct {
	Query string `query:"q" json:"-"`
}

// Validate is a no-op for GetTreeRequest.
func (r *GetTreeRequest) Validate() error {
	return nil
}

// GetNodeRequest is a request to get one node.
type GetNodeRequest struct {
	ID string `path:"id" json:"-"`
}

// Validate validates the get request fields.
func (r *GetNodeRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// GetNodePathRequest is a request for a node's breadcrumb path.
type GetNodePathRequest struct {
	ID string `path:"id" json:"-"`
}

// Validate validates the path request fields.
func (r *GetNodePathRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// --- Mutations ---

// CreateNodeRequest is a request to create a node in a scope. Creates
// targeting a virtual scope land at the root.
type CreateNodeRequest struct {
	Scope      string   `path:"scope" json:"-"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Size       int64    `json:"size,omitempty"`
	MimeType   string   `json:"mime_type,omitempty"`
	ContentRef string   `json:"content_ref,omitempty"`
	Content    string   `json:"content,omitempty"`
}

// Validate validates the create request fields.
func (r *CreateNodeRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Kind, validation.Required),
		validation.Field(&r.Tags, validation.Each(validation.Required)),
	); err != nil {
		return BadRequest(err.Error())
	}
	return nil
}

// RenameNodeRequest is a request to rename a node.
type RenameNodeRequest struct {
	ID      string `path:"id" json:"-"`
	Version int    `json:"version"`
	Name    string `json:"name"`
}

// Validate validates the rename request fields.
func (r *RenameNodeRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Version, validation.Required, validation.Min(1)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
	); err != nil {
		return BadRequest(err.Error())
	}
	return nil
}

// MoveNodeRequest is a request to reparent a node. An empty parent_id moves
// the node to the root.
type MoveNodeRequest struct {
	ID       string `path:"id" json:"-"`
	Version  int    `json:"version"`
	ParentID string `json:"parent_id"`
}

// Validate validates the move request fields.
func (r *MoveNodeRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if r.Version < 1 {
		return BadRequest("version must be at least 1")
	}
	return nil
}

// RetagNodeRequest is a request to replace a node's tag set.
type RetagNodeRequest struct {
	ID      string   `path:"id" json:"-"`
	Version int      `json:"version"`
	Tags    []string `json:"tags"`
}

// Validate validates the retag request fields.
func (r *RetagNodeRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Version, validation.Required, validation.Min(1)),
		validation.Field(&r.Tags, validation.Each(validation.Required)),
	); err != nil {
		return BadRequest(err.Error())
	}
	return nil
}

// UpdateContentRequest is a request to update a node's content reference.
// Nil fields are left unchanged.
type UpdateContentRequest struct {
	ID         string  `path:"id" json:"-"`
	Version    int     `json:"version"`
	ContentRef *string `json:"content_ref,omitempty"`
	Content    *string `json:"content,omitempty"`
	Size       *int64  `json:"size,omitempty"`
	MimeType   *string `json:"mime_type,omitempty"`
}

// Validate validates the content update request fields.
func (r *UpdateContentRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if r.Version < 1 {
		return BadRequest("version must be at least 1")
	}
	return nil
}

// StarNodeRequest is a request to flip the global starred flag.
type StarNodeRequest struct {
	ID      string `path:"id" json:"-"`
	Version int    `json:"version"`
	Starred bool   `json:"starred"`
}

// Validate validates the star request fields.
func (r *StarNodeRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if r.Version < 1 {
		return BadRequest("version must be at least 1")
	}
	return nil
}

// BulkNodesRequest carries the IDs for a bulk delete, restore or purge.
type BulkNodesRequest struct {
	IDs []string `json:"ids"`
}

// Validate validates the bulk request fields.
func (r *BulkNodesRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.IDs,
			validation.Required,
			validation.Length(1, MaxBulkIDs),
			validation.Each(validation.Required),
		),
	); err != nil {
		return BadRequest(err.Error())
	}
	return nil
}

// CascadeDeleteRequest is a request to soft-delete every live descendant of a
// folder.
type CascadeDeleteRequest struct {
	ID string `path:"id" json:"-"`
}

// Validate validates the cascade request fields.
func (r *CascadeDeleteRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// TouchNodeRequest records that a node was opened.
type TouchNodeRequest struct {
	ID string `path:"id" json:"-"`
}

// Validate validates the touch request fields.
func (r *TouchNodeRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// --- Preferences and favorites ---

// GetPreferenceRequest is a request for the caller's view preference of a
// scope.
type GetPreferenceRequest struct {
	Scope string `path:"scope" json:"-"`
}

// Validate validates the get preference request fields.
func (r *GetPreferenceRequest) Validate() error {
	if r.Scope == "" {
		return MissingField("scope")
	}
	return nil
}

// SetPreferenceRequest is a partial preference update. Nil fields keep their
// stored value.
type SetPreferenceRequest struct {
	Scope    string  `path:"scope" json:"-"`
	ViewMode *string `json:"view_mode,omitempty"`
	SortBy   *string `json:"sort_by,omitempty"`
}

// Validate validates the set preference request fields.
func (r *SetPreferenceRequest) Validate() error {
	if r.Scope == "" {
		return MissingField("scope")
	}
	if err := validation.ValidateStruct(r,
		validation.Field(&r.ViewMode, validation.In("list", "grid")),
		validation.Field(&r.SortBy, validation.In("favorites", "name-asc", "name-desc")),
	); err != nil {
		return BadRequest(err.Error())
	}
	return nil
}

// ListFavoritesRequest is a request for the caller's favorites.
type ListFavoritesRequest struct{}

// Validate is a no-op for ListFavoritesRequest.
func (r *ListFavoritesRequest) Validate() error {
	return nil
}

// SetFavoriteRequest adds or removes a node from the caller's favorites.
type SetFavoriteRequest struct {
	ID       string `path:"id" json:"-"`
	Favorite bool   `json:"favorite"`
}

// Validate validates the set favorite request fields.
func (r *SetFavoriteRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// ToggleFavoriteRequest flips a node's membership in the caller's favorites.
type ToggleFavoriteRequest struct {
	ID string `path:"id" json:"-"`
}

// Validate validates the toggle favorite request fields.
func (r *ToggleFavoriteRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}
