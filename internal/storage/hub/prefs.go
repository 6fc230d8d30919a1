// Per-user view preferences and favorites, independent of node lifecycle.

package hub

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/hubfs/hubfs/internal/jsonldb"
	"github.com/maruel/ksid"
)

// Preference is the per-(user, scope) view configuration.
type Preference struct {
	ViewMode ViewMode `json:"view_mode"`
	SortBy   SortBy   `json:"sort_by"`
}

// DefaultPreference is returned when no record exists. Absence is not an
// error.
func DefaultPreference() Preference {
	return Preference{ViewMode: ViewList, SortBy: SortNameAsc}
}

// PreferencePatch is a partial preference update. Nil fields are left as-is;
// the merge is field-wise, so updating the view mode alone never resets the
// sort order.
type PreferencePatch struct {
	ViewMode *ViewMode `json:"view_mode,omitempty"`
	SortBy   *SortBy   `json:"sort_by,omitempty"`
}

// prefRecord is the stored form of one (user, scope) preference.
type prefRecord struct {
	ID       ksid.ID  `json:"id"`
	UserID   string   `json:"user_id"`
	Scope    string   `json:"scope"`
	ViewMode ViewMode `json:"view_mode"`
	SortBy   SortBy   `json:"sort_by"`
}

func (p *prefRecord) Clone() *prefRecord {
	c := *p
	return &c
}

func (p *prefRecord) GetID() ksid.ID {
	return p.ID
}

func (p *prefRecord) Validate() error {
	if p.ID.IsZero() {
		return errors.New("preference ID is required")
	}
	if p.UserID == "" {
		return errors.New("preference user ID is required")
	}
	if p.Scope == "" {
		return errors.New("preference scope is required")
	}
	if !p.ViewMode.Valid() {
		return fmt.Errorf("unknown view mode: %s", p.ViewMode)
	}
	if !p.SortBy.Valid() {
		return fmt.Errorf("unknown sort: %s", p.SortBy)
	}
	return nil
}

// favRecord stores one user's favorites set.
type favRecord struct {
	ID     ksid.ID   `json:"id"`
	UserID string    `json:"user_id"`
	Nodes  []ksid.ID `json:"nodes,omitempty"`
}

func (f *favRecord) Clone() *favRecord {
	c := *f
	c.Nodes = slices.Clone(f.Nodes)
	return &c
}

func (f *favRecord) GetID() ksid.ID {
	return f.ID
}

func (f *favRecord) Validate() error {
	if f.ID.IsZero() {
		return errors.New("favorites ID is required")
	}
	if f.UserID == "" {
		return errors.New("favorites user ID is required")
	}
	return nil
}

type prefKey struct {
	user  string
	scope string
}

// PreferenceService stores per-user view preferences keyed by (user, scope)
// and the per-user favorites sets. Its lifecycle is independent of the node
// repository: preference records survive node deletion and are created
// lazily on first write. Virtual scope names are valid scope keys.
type PreferenceService struct {
	prefs     *jsonldb.Table[*prefRecord]
	prefByKey *jsonldb.UniqueIndex[prefKey, *prefRecord]
	favs      *jsonldb.Table[*favRecord]
	favByUser *jsonldb.UniqueIndex[string, *favRecord]
}

// NewPreferenceService opens (or creates) the preference tables in dir.
func NewPreferenceService(dir string) (*PreferenceService, error) {
	prefs, err := jsonldb.NewTable[*prefRecord](filepath.Join(dir, "preferences.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to open preference table: %w", err)
	}
	favs, err := jsonldb.NewTable[*favRecord](filepath.Join(dir, "favorites.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites table: %w", err)
	}
	s := &PreferenceService{prefs: prefs, favs: favs}
	s.prefByKey = jsonldb.NewUniqueIndex(prefs, func(p *prefRecord) prefKey {
		return prefKey{user: p.UserID, scope: p.Scope}
	})
	s.favByUser = jsonldb.NewUniqueIndex(favs, func(f *favRecord) string {
		return f.UserID
	})
	return s, nil
}

// Get returns the preference for (userID, scope), or the default when no
// record exists.
func (s *PreferenceService) Get(userID, scope string) Preference {
	rec := s.prefByKey.Get(prefKey{user: userID, scope: scope})
	if rec == nil {
		return DefaultPreference()
	}
	return Preference{ViewMode: rec.ViewMode, SortBy: rec.SortBy}
}

// Set merges patch into the stored preference (or the default) and persists
// the result. The record is created lazily on first write.
func (s *PreferenceService) Set(userID, scope string, patch PreferencePatch) (Preference, error) {
	if patch.ViewMode != nil && !patch.ViewMode.Valid() {
		return Preference{}, fmt.Errorf("unknown view mode: %s", *patch.ViewMode)
	}
	if patch.SortBy != nil && !patch.SortBy.Valid() {
		return Preference{}, fmt.Errorf("unknown sort: %s", *patch.SortBy)
	}

	rec := s.prefByKey.Get(prefKey{user: userID, scope: scope})
	if rec == nil {
		def := DefaultPreference()
		rec = &prefRecord{
			ID:       ksid.NewID(),
			UserID:   userID,
			Scope:    scope,
			ViewMode: def.ViewMode,
			SortBy:   def.SortBy,
		}
		applyPrefPatch(rec, patch)
		if err := s.prefs.Append(rec); err != nil {
			return Preference{}, err
		}
		return Preference{ViewMode: rec.ViewMode, SortBy: rec.SortBy}, nil
	}

	updated, err := s.prefs.Modify(rec.ID, func(r *prefRecord) (*prefRecord, error) {
		applyPrefPatch(r, patch)
		return r, nil
	})
	if err != nil {
		return Preference{}, err
	}
	return Preference{ViewMode: updated.ViewMode, SortBy: updated.SortBy}, nil
}

func applyPrefPatch(rec *prefRecord, patch PreferencePatch) {
	if patch.ViewMode != nil {
		rec.ViewMode = *patch.ViewMode
	}
	if patch.SortBy != nil {
		rec.SortBy = *patch.SortBy
	}
}

// Favorites returns userID's favorites as a set. Never nil.
func (s *PreferenceService) Favorites(userID string) map[ksid.ID]bool {
	out := map[ksid.ID]bool{}
	rec := s.favByUser.Get(userID)
	if rec == nil {
		return out
	}
	for _, id := range rec.Nodes {
		out[id] = true
	}
	return out
}

// SetFavorite adds or removes nodeID from userID's favorites set and
// persists immediately. Setting an already-set state is a no-op.
func (s *PreferenceService) SetFavorite(userID string, nodeID ksid.ID, favorite bool) error {
	rec := s.favByUser.Get(userID)
	if rec == nil {
		if !favorite {
			return nil
		}
		return s.favs.Append(&favRecord{
			ID:     ksid.NewID(),
			UserID: userID,
			Nodes:  []ksid.ID{nodeID},
		})
	}
	_, err := s.favs.Modify(rec.ID, func(r *favRecord) (*favRecord, error) {
		i := slices.Index(r.Nodes, nodeID)
		switch {
		case favorite && i < 0:
			r.Nodes = append(r.Nodes, nodeID)
		case !favorite && i >= 0:
			r.Nodes = slices.Delete(r.Nodes, i, i+1)
		}
		return r, nil
	})
	return err
}

// ToggleFavorite flips nodeID's membership in userID's favorites set and
// returns the new state.
func (s *PreferenceService) ToggleFavorite(userID string, nodeID ksid.ID) (bool, error) {
	now := s.Favorites(userID)[nodeID]
	if err := s.SetFavorite(userID, nodeID, !now); err != nil {
		return now, err
	}
	return !now, nil
}
