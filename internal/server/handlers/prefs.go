package handlers

import (
	"context"
	"slices"

	"github.com/hubfs/hubfs/internal/server/dto"
	"github.com/hubfs/hubfs/internal/storage/hub"
)

// PreferenceHandler handles per-user view preferences and favorites.
type PreferenceHandler struct {
	svc *Services
}

// NewPreferenceHandler creates a new preference handler.
func NewPreferenceHandler(svc *Services) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

// Get returns the caller's preference for a scope, or the default when none
// is stored.
func (h *PreferenceHandler) Get(ctx context.Context, actor hub.Actor, req *dto.GetPreferenceRequest) (*dto.PreferenceResponse, error) {
	scope, err := hub.ParseScope(req.Scope)
	if err != nil {
		return nil, dto.BadRequest(err.Error())
	}
	pref := h.svc.Prefs.Get(actor.ID, scope.String())
	return &dto.PreferenceResponse{
		Scope:    scope.String(),
		ViewMode: string(pref.ViewMode),
		SortBy:   string(pref.SortBy),
	}, nil
}

// Set merges a partial preference update for a scope.
func (h *PreferenceHandler) Set(ctx context.Context, actor hub.Actor, req *dto.SetPreferenceRequest) (*dto.PreferenceResponse, error) {
	scope, err := hub.ParseScope(req.Scope)
	if err != nil {
		return nil, dto.BadRequest(err.Error())
	}
	var patch hub.PreferencePatch
	if req.ViewMode != nil {
		v := hub.ViewMode(*req.ViewMode)
		patch.ViewMode = &v
	}
	if req.SortBy != nil {
		s := hub.SortBy(*req.SortBy)
		patch.SortBy = &s
	}
	pref, err := h.svc.Prefs.Set(actor.ID, scope.String(), patch)
	if err != nil {
		return nil, dto.BadRequest(err.Error())
	}
	return &dto.PreferenceResponse{
		Scope:    scope.String(),
		ViewMode: string(pref.ViewMode),
		SortBy:   string(pref.SortBy),
	}, nil
}

// ListFavorites returns the caller's favorited node IDs.
func (h *PreferenceHandler) ListFavorites(ctx context.Context, actor hub.Actor, req *dto.ListFavoritesRequest) (*dto.ListFavoritesResponse, error) {
	favorites := h.svc.Prefs.Favorites(actor.ID)
	ids := make([]string, 0, len(favorites))
	for id := range favorites {
		ids = append(ids, id.String())
	}
	slices.Sort(ids)
	return &dto.ListFavoritesResponse{IDs: ids}, nil
}

// SetFavorite adds or removes a node from the caller's favorites. The target
// node must exist, but may be live or trashed.
func (h *PreferenceHandler) SetFavorite(ctx context.Context, actor hub.Actor, req *dto.SetFavoriteRequest) (*dto.FavoriteResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	if _, err := h.svc.Repo.Get(id); err != nil {
		return nil, mapDomainError(err)
	}
	if err := h.svc.Prefs.SetFavorite(actor.ID, id, req.Favorite); err != nil {
		return nil, mapDomainError(err)
	}
	return &dto.FavoriteResponse{ID: req.ID, Favorite: req.Favorite}, nil
}

// ToggleFavorite flips a node's membership in the caller's favorites and
// returns the new state.
func (h *PreferenceHandler) ToggleFavorite(ctx context.Context, actor hub.Actor, req *dto.ToggleFavoriteRequest) (*dto.FavoriteResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	if _, err := h.svc.Repo.Get(id); err != nil {
		return nil, mapDomainError(err)
	}
	now, err := h.svc.Prefs.ToggleFavorite(actor.ID, id)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &dto.FavoriteResponse{ID: req.ID, Favorite: now}, nil
}
