package hub

import (
	"context"
	"slices"
	"testing"

	"github.com/maruel/ksid"
)

func TestParseScope(t *testing.T) {
	folder := ksid.NewID()
	cases := []struct {
		in   string
		want Scope
	}{
		{"", Scope{Virtual: ScopeRoot}},
		{"root", Scope{Virtual: ScopeRoot}},
		{"starred", Scope{Virtual: ScopeStarred}},
		{"recent", Scope{Virtual: ScopeRecent}},
		{"trash", Scope{Virtual: ScopeTrash}},
		{folder.String(), Scope{FolderID: folder}},
	}
	for _, tc := range cases {
		got, err := ParseScope(tc.in)
		if err != nil {
			t.Errorf("ParseScope(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseScope(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseScope("not-an-id!"); err == nil {
		t.Error("ParseScope() accepted garbage")
	}
}

func TestScopeCreateParent(t *testing.T) {
	folder := ksid.NewID()
	if got := (Scope{FolderID: folder}).CreateParent(); got != folder {
		t.Errorf("folder scope parent = %v, want %v", got, folder)
	}
	// Creates aimed at virtual scopes land at root.
	for _, v := range []VirtualScope{ScopeRoot, ScopeStarred, ScopeRecent, ScopeTrash} {
		if got := (Scope{Virtual: v}).CreateParent(); !got.IsZero() {
			t.Errorf("%s scope parent = %v, want zero", v, got)
		}
	}
}

func TestResolveStarred(t *testing.T) {
	e := newTestEnv(t)
	global := e.mkDoc(t, 0, "global")
	personal := e.mkDoc(t, 0, "personal")
	plain := e.mkDoc(t, 0, "plain")
	gone := e.mkDoc(t, 0, "gone")

	if _, err := e.svc.SetStarred(context.Background(), testActor, global.ID, global.Version, true); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.SetStarred(context.Background(), testActor, gone.ID, gone.Version, true); err != nil {
		t.Fatal(err)
	}
	e.svc.SoftDelete(context.Background(), testActor, []ksid.ID{gone.ID})

	r := NewScopeResolver(e.repo, 5)
	favs := map[ksid.ID]bool{personal.ID: true}
	nodes, presorted := r.Resolve(Scope{Virtual: ScopeStarred}, favs)
	if presorted {
		t.Error("starred scope must not be presorted")
	}
	SortNodes(nodes, SortNameAsc, nil)
	got := names(nodes)
	if !slices.Equal(got, []string{"global", "personal"}) {
		t.Errorf("starred = %v, want [global personal] (deleted and %q excluded)", got, plain.Name)
	}
}

func TestResolveRecent(t *testing.T) {
	e := newTestEnv(t)
	var docs []*Node
	for _, name := range []string{"a", "b", "c", "d"} {
		docs = append(docs, e.mkDoc(t, 0, name))
	}
	// Open a, then c, then b; d is never opened.
	for _, n := range []*Node{docs[0], docs[2], docs[1]} {
		e.clock.Advance(60e9)
		if _, err := e.svc.Touch(context.Background(), n.ID); err != nil {
			t.Fatal(err)
		}
	}

	r := NewScopeResolver(e.repo, 5)
	nodes, presorted := r.Resolve(Scope{Virtual: ScopeRecent}, nil)
	if !presorted {
		t.Error("recent scope must be presorted")
	}
	if !slices.Equal(names(nodes), []string{"b", "c", "a"}) {
		t.Errorf("recent = %v, want newest-first [b c a]", names(nodes))
	}

	t.Run("capped", func(t *testing.T) {
		r := NewScopeResolver(e.repo, 2)
		nodes, _ := r.Resolve(Scope{Virtual: ScopeRecent}, nil)
		if !slices.Equal(names(nodes), []string{"b", "c"}) {
			t.Errorf("capped recent = %v, want [b c]", names(nodes))
		}
	})

	t.Run("reopening moves to front", func(t *testing.T) {
		e.clock.Advance(60e9)
		if _, err := e.svc.Touch(context.Background(), docs[0].ID); err != nil {
			t.Fatal(err)
		}
		nodes, _ := r.Resolve(Scope{Virtual: ScopeRecent}, nil)
		if !slices.Equal(names(nodes), []string{"a", "b", "c"}) {
			t.Errorf("recent after reopen = %v, want [a b c]", names(nodes))
		}
	})
}

func TestResolveTrashAndRoot(t *testing.T) {
	e := newTestEnv(t)
	folder := e.mkFolder(t, 0, "Docs")
	rootDoc := e.mkDoc(t, 0, "top.md")
	nested := e.mkDoc(t, folder.ID, "deep.md")
	e.svc.SoftDelete(context.Background(), testActor, []ksid.ID{nested.ID})

	r := NewScopeResolver(e.repo, 5)
	trash, _ := r.Resolve(Scope{Virtual: ScopeTrash}, nil)
	// The trash is flat: nesting does not matter.
	if !slices.Equal(names(trash), []string{"deep.md"}) {
		t.Errorf("trash = %v", names(trash))
	}

	root, _ := r.Resolve(Scope{Virtual: ScopeRoot}, nil)
	SortNodes(root, SortNameAsc, nil)
	got := names(root)
	if !slices.Equal(got, []string{"Docs", "top.md"}) {
		t.Errorf("root = %v, want [Docs %s]", got, rootDoc.Name)
	}
}

func TestListingServiceSortPreference(t *testing.T) {
	e := newTestEnv(t)
	e.mkDoc(t, 0, "banana")
	e.mkDoc(t, 0, "apple")
	lister := e.lister(5)
	scope := Scope{Virtual: ScopeRoot}

	// Without a stored preference, the default name-asc applies.
	got := lister.List("u-1", scope, ListFilters{}, "")
	if !slices.Equal(names(got), []string{"apple", "banana"}) {
		t.Fatalf("default sort = %v", names(got))
	}

	sort := SortNameDesc
	if _, err := e.prefs.Set("u-1", scope.String(), PreferencePatch{SortBy: &sort}); err != nil {
		t.Fatal(err)
	}
	got = lister.List("u-1", scope, ListFilters{}, "")
	if !slices.Equal(names(got), []string{"banana", "apple"}) {
		t.Errorf("stored preference sort = %v", names(got))
	}

	// An explicit sort overrides the stored preference.
	got = lister.List("u-1", scope, ListFilters{}, SortNameAsc)
	if !slices.Equal(names(got), []string{"apple", "banana"}) {
		t.Errorf("explicit sort = %v", names(got))
	}
}

func TestListingServiceFavoritesSort(t *testing.T) {
	e := newTestEnv(t)
	e.mkDoc(t, 0, "alpha")
	fav := e.mkDoc(t, 0, "zulu")
	if err := e.prefs.SetFavorite("u-1", fav.ID, true); err != nil {
		t.Fatal(err)
	}

	got := e.lister(5).List("u-1", Scope{Virtual: ScopeRoot}, ListFilters{}, SortFavorites)
	if !slices.Equal(names(got), []string{"zulu", "alpha"}) {
		t.Errorf("favorites sort = %v, want [zulu alpha]", names(got))
	}

	// Another user without the favorite sees plain name order.
	got = e.lister(5).List("u-2", Scope{Virtual: ScopeRoot}, ListFilters{}, SortFavorites)
	if !slices.Equal(names(got), []string{"alpha", "zulu"}) {
		t.Errorf("other user favorites sort = %v", names(got))
	}
}

func TestListingServiceTrashView(t *testing.T) {
	e := newTestEnv(t)
	live := e.mkDoc(t, 0, "live.md")
	dead := e.mkDoc(t, 0, "dead.md")
	e.svc.SoftDelete(context.Background(), testActor, []ksid.ID{dead.ID})
	lister := e.lister(5)

	got := lister.List("u-1", Scope{Virtual: ScopeTrash}, ListFilters{}, SortNameAsc)
	if !slices.Equal(names(got), []string{"dead.md"}) {
		t.Errorf("trash view = %v", names(got))
	}
	got = lister.List("u-1", Scope{Virtual: ScopeRoot}, ListFilters{}, SortNameAsc)
	if !slices.Equal(names(got), []string{live.Name}) {
		t.Errorf("root view = %v", names(got))
	}
}

func TestListingServiceRecentKeepsOrder(t *testing.T) {
	e := newTestEnv(t)
	a := e.mkDoc(t, 0, "a")
	z := e.mkDoc(t, 0, "z")
	for _, n := range []*Node{a, z} {
		e.clock.Advance(60e9)
		if _, err := e.svc.Touch(context.Background(), n.ID); err != nil {
			t.Fatal(err)
		}
	}

	// Even under a name sort request the recent view keeps newest-first.
	got := e.lister(5).List("u-1", Scope{Virtual: ScopeRecent}, ListFilters{}, SortNameAsc)
	if !slices.Equal(names(got), []string{"z", "a"}) {
		t.Errorf("recent listing = %v, want [z a]", names(got))
	}

	t.Run("filters still apply", func(t *testing.T) {
		got := e.lister(5).List("u-1", Scope{Virtual: ScopeRecent}, ListFilters{Text: "a"}, "")
		if !slices.Equal(names(got), []string{"a"}) {
			t.Errorf("filtered recent = %v", names(got))
		}
	})
}

func TestListingServiceTree(t *testing.T) {
	e := newTestEnv(t)
	docs := e.mkFolder(t, 0, "Docs")
	sub := e.mkFolder(t, docs.ID, "2026")
	e.mkDoc(t, sub.ID, "Report.pdf")
	misc := e.mkFolder(t, 0, "Misc")
	stranded := e.mkDoc(t, misc.ID, "stranded.md")

	// Deleting Misc without cascading: stranded.md stays live in storage but
	// must not surface in the tree.
	e.svc.SoftDelete(context.Background(), testActor, []ksid.ID{misc.ID})

	f := e.lister(5).Tree()
	if !slices.Equal(treeNames(f.Roots), []string{"Docs"}) {
		t.Fatalf("tree roots = %v, want [Docs]", treeNames(f.Roots))
	}
	if !slices.Equal(treeNames(f.Roots[0].Children), []string{"2026"}) {
		t.Errorf("Docs children = %v", treeNames(f.Roots[0].Children))
	}

	// Restoring the folder brings the subtree back.
	e.svc.Restore(context.Background(), testActor, []ksid.ID{misc.ID})
	f = e.lister(5).Tree()
	if !slices.Equal(treeNames(f.Roots), []string{"Docs", "Misc"}) {
		t.Errorf("tree roots after restore = %v", treeNames(f.Roots))
	}
	var found bool
	f.Walk(func(tv *TreeView) bool {
		if tv.Node.ID == stranded.ID {
			found = true
		}
		return true
	})
	if !found {
		t.Error("stranded child missing from tree after parent restore")
	}
}

func treeNames(views []*TreeView) []string {
	out := make([]string, len(views))
	for i, tv := range views {
		out[i] = tv.Node.Name
	}
	return out
}

func TestListingServiceTreeCache(t *testing.T) {
	e := newTestEnv(t)
	docs := e.mkFolder(t, 0, "Docs")
	e.mkDoc(t, docs.ID, "Report.pdf")
	l := e.lister(5)

	f1 := l.Tree()
	f2 := l.Tree()
	if f1 != f2 {
		t.Error("Tree() rebuilt without an intervening mutation")
	}

	if _, err := e.svc.Rename(context.Background(), testActor, docs.ID, docs.Version, "Archive"); err != nil {
		t.Fatalf("Rename() error: %v", err)
	}
	f3 := l.Tree()
	if f3 == f1 {
		t.Fatal("Tree() served a stale cache after a mutation")
	}
	if got := treeNames(f3.Roots); !slices.Equal(got, []string{"Archive"}) {
		t.Errorf("roots after rename = %v", got)
	}
}
