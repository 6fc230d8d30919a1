package hub

import (
	"testing"

	"github.com/maruel/ksid"
)

func TestFilterTreeAncestorPreservation(t *testing.T) {
	// root/A/B/C where only C matches: A and B must survive as the path to C.
	rootID := ksid.NewID()
	aID := ksid.NewID()
	bID := ksid.NewID()
	cID := ksid.NewID()
	f := BuildTree([]*Node{
		node(rootID, 0, "root", KindFolder),
		node(aID, rootID, "A", KindFolder),
		node(bID, aID, "B", KindFolder),
		node(cID, bID, "C-match", KindDocument),
	})

	pruned := FilterTree(f.Roots, MatchesName("c-match"))
	if len(pruned) != 1 {
		t.Fatalf("pruned roots = %d, want 1", len(pruned))
	}
	r := pruned[0]
	if r.Node.Name != "root" || len(r.Children) != 1 {
		t.Fatalf("root pruned wrongly: %+v", r)
	}
	a := r.Children[0]
	if a.Node.Name != "A" || len(a.Children) != 1 {
		t.Fatalf("A pruned wrongly: %+v", a)
	}
	b := a.Children[0]
	if b.Node.Name != "B" || len(b.Children) != 1 || b.Children[0].Node.Name != "C-match" {
		t.Fatalf("B/C pruned wrongly: %+v", b)
	}
}

func TestFilterTreeRemovesNonMatchingBranches(t *testing.T) {
	rootID := ksid.NewID()
	keepID := ksid.NewID()
	dropID := ksid.NewID()
	f := BuildTree([]*Node{
		node(rootID, 0, "root", KindFolder),
		node(keepID, rootID, "invoice", KindDocument),
		node(dropID, rootID, "photo", KindImage),
	})

	pruned := FilterTree(f.Roots, MatchesName("invoice"))
	if len(pruned) != 1 || len(pruned[0].Children) != 1 {
		t.Fatalf("pruned = %+v, want root with single child", pruned)
	}
	if pruned[0].Children[0].Node.Name != "invoice" {
		t.Errorf("kept %q, want invoice", pruned[0].Children[0].Node.Name)
	}
}

func TestFilterTreeDoesNotMutateInput(t *testing.T) {
	rootID := ksid.NewID()
	childID := ksid.NewID()
	f := BuildTree([]*Node{
		node(rootID, 0, "root", KindFolder),
		node(childID, rootID, "child", KindDocument),
	})

	_ = FilterTree(f.Roots, func(n *Node) bool { return false })
	if len(f.Roots) != 1 || len(f.Roots[0].Children) != 1 {
		t.Error("FilterTree mutated the input forest")
	}
}

func TestSearchTree(t *testing.T) {
	rootID := ksid.NewID()
	f := BuildTree([]*Node{node(rootID, 0, "root", KindFolder)})

	t.Run("empty term keeps everything, no expand", func(t *testing.T) {
		res := SearchTree(f.Roots, "")
		if res.ExpandAll {
			t.Error("ExpandAll set for empty term")
		}
		if len(res.Roots) != 1 {
			t.Errorf("roots = %d, want 1", len(res.Roots))
		}
	})

	t.Run("non-empty term sets expand flag", func(t *testing.T) {
		res := SearchTree(f.Roots, "ro")
		if !res.ExpandAll {
			t.Error("ExpandAll not set for non-empty term")
		}
	})

	t.Run("match is case-insensitive", func(t *testing.T) {
		res := SearchTree(f.Roots, "ROOT")
		if len(res.Roots) != 1 {
			t.Errorf("case-insensitive search found %d roots, want 1", len(res.Roots))
		}
	})
}

func TestMatchesText(t *testing.T) {
	n := &Node{
		ID:      ksid.NewID(),
		Name:    "Quarterly Report",
		Kind:    KindDocument,
		Tags:    []string{"finance", "q3"},
		Content: "Revenue grew by twelve percent.",
	}

	cases := []struct {
		term string
		want bool
	}{
		{"quarterly", true},
		{"FINANCE", true},
		{"revenue", true},
		{"twelve percent", true},
		{"missing", false},
	}
	for _, tc := range cases {
		if got := MatchesText(tc.term)(n); got != tc.want {
			t.Errorf("MatchesText(%q) = %v, want %v", tc.term, got, tc.want)
		}
	}

	t.Run("name-only matcher ignores tags and content", func(t *testing.T) {
		if MatchesName("finance")(n) {
			t.Error("MatchesName matched a tag")
		}
		if !MatchesName("report")(n) {
			t.Error("MatchesName missed the name")
		}
	})
}
