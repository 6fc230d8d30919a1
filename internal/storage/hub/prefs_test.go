package hub

import (
	"testing"

	"github.com/maruel/ksid"
)

func TestPreferenceDefault(t *testing.T) {
	e := newTestEnv(t)
	got := e.prefs.Get("u-1", "root")
	want := DefaultPreference()
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestPreferenceFieldWiseMerge(t *testing.T) {
	e := newTestEnv(t)
	sort := SortNameDesc
	if _, err := e.prefs.Set("u-1", "root", PreferencePatch{SortBy: &sort}); err != nil {
		t.Fatal(err)
	}

	// Updating the view mode alone must not reset the sort order.
	view := ViewGrid
	got, err := e.prefs.Set("u-1", "root", PreferencePatch{ViewMode: &view})
	if err != nil {
		t.Fatal(err)
	}
	if got.SortBy != SortNameDesc || got.ViewMode != ViewGrid {
		t.Errorf("Set() = %+v, want grid + name-desc", got)
	}
	if back := e.prefs.Get("u-1", "root"); back != got {
		t.Errorf("Get() = %+v, want %+v", back, got)
	}
}

func TestPreferenceScopesAreIndependent(t *testing.T) {
	e := newTestEnv(t)
	folder := ksid.NewID()
	view := ViewGrid
	if _, err := e.prefs.Set("u-1", folder.String(), PreferencePatch{ViewMode: &view}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.prefs.Set("u-1", string(ScopeStarred), PreferencePatch{ViewMode: &view}); err != nil {
		t.Fatal(err)
	}

	if got := e.prefs.Get("u-1", "root"); got != DefaultPreference() {
		t.Errorf("root scope = %+v, want default", got)
	}
	if got := e.prefs.Get("u-2", folder.String()); got != DefaultPreference() {
		t.Errorf("other user = %+v, want default", got)
	}
	if got := e.prefs.Get("u-1", string(ScopeStarred)); got.ViewMode != ViewGrid {
		t.Errorf("starred scope = %+v, want grid", got)
	}
}

func TestPreferenceRejectsUnknownValues(t *testing.T) {
	e := newTestEnv(t)
	bad := ViewMode("mosaic")
	if _, err := e.prefs.Set("u-1", "root", PreferencePatch{ViewMode: &bad}); err == nil {
		t.Fatal("Set() with unknown view mode succeeded")
	}
	badSort := SortBy("size")
	if _, err := e.prefs.Set("u-1", "root", PreferencePatch{SortBy: &badSort}); err == nil {
		t.Fatal("Set() with unknown sort succeeded")
	}
}

func TestFavorites(t *testing.T) {
	e := newTestEnv(t)
	n1 := ksid.NewID()
	n2 := ksid.NewID()

	if favs := e.prefs.Favorites("u-1"); favs == nil || len(favs) != 0 {
		t.Fatalf("Favorites() = %v, want empty non-nil set", favs)
	}

	if err := e.prefs.SetFavorite("u-1", n1, true); err != nil {
		t.Fatal(err)
	}
	if err := e.prefs.SetFavorite("u-1", n2, true); err != nil {
		t.Fatal(err)
	}
	// Idempotent.
	if err := e.prefs.SetFavorite("u-1", n1, true); err != nil {
		t.Fatal(err)
	}

	favs := e.prefs.Favorites("u-1")
	if !favs[n1] || !favs[n2] || len(favs) != 2 {
		t.Errorf("Favorites() = %v, want {%v %v}", favs, n1, n2)
	}

	if err := e.prefs.SetFavorite("u-1", n1, false); err != nil {
		t.Fatal(err)
	}
	if favs := e.prefs.Favorites("u-1"); favs[n1] || !favs[n2] {
		t.Errorf("after unset: %v", favs)
	}

	// Other users are unaffected.
	if favs := e.prefs.Favorites("u-2"); len(favs) != 0 {
		t.Errorf("u-2 favorites = %v, want empty", favs)
	}
}

func TestToggleFavorite(t *testing.T) {
	e := newTestEnv(t)
	id := ksid.NewID()

	on, err := e.prefs.ToggleFavorite("u-1", id)
	if err != nil || !on {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", on, err)
	}
	off, err := e.prefs.ToggleFavorite("u-1", id)
	if err != nil || off {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", off, err)
	}
	if favs := e.prefs.Favorites("u-1"); len(favs) != 0 {
		t.Errorf("after toggle off: %v", favs)
	}
}

func TestPreferencePersistence(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewPreferenceService(dir)
	if err != nil {
		t.Fatal(err)
	}
	view := ViewGrid
	if _, err := svc.Set("u-1", "root", PreferencePatch{ViewMode: &view}); err != nil {
		t.Fatal(err)
	}
	id := ksid.NewID()
	if err := svc.SetFavorite("u-1", id, true); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewPreferenceService(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Get("u-1", "root"); got.ViewMode != ViewGrid {
		t.Errorf("reloaded pref = %+v, want grid", got)
	}
	if favs := reopened.Favorites("u-1"); !favs[id] {
		t.Errorf("reloaded favorites = %v, want {%v}", favs, id)
	}
}
