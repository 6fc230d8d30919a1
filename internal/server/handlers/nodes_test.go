package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/hubfs/hubfs/internal/server/dto"
)

func apiStatus(t *testing.T, err error) (int, dto.ErrorCode) {
	t.Helper()
	var ews dto.ErrorWithStatus
	if !errors.As(err, &ews) {
		t.Fatalf("error %v does not carry a status", err)
	}
	return ews.StatusCode(), ews.Code()
}

func TestNodeHandlerCreateAndGet(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))

	folder := mustCreate(t, nh, "root", "folder", "Docs")
	doc := mustCreate(t, nh, folder.ID, "pdf", "Report.pdf")
	if doc.ParentID != folder.ID {
		t.Errorf("ParentID = %q, want %q", doc.ParentID, folder.ID)
	}
	if doc.Version != 1 || doc.Created == "" {
		t.Errorf("new node = v%d created %q", doc.Version, doc.Created)
	}

	got, err := nh.Get(context.Background(), testActor, &dto.GetNodeRequest{ID: doc.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Report.pdf" || got.Kind != "pdf" {
		t.Errorf("Get() = %s/%s", got.Name, got.Kind)
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := nh.Create(context.Background(), testActor, &dto.CreateNodeRequest{
			Scope: "root", Kind: "hologram", Name: "x",
		})
		if status, _ := apiStatus(t, err); status != http.StatusBadRequest {
			t.Errorf("status = %d", status)
		}
	})

	t.Run("missing node", func(t *testing.T) {
		_, err := nh.Get(context.Background(), testActor, &dto.GetNodeRequest{ID: folder.ID + "zz"})
		if err == nil {
			t.Fatal("Get() on garbage ID succeeded")
		}
	})
}

func TestNodeHandlerVersionConflict(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))
	doc := mustCreate(t, nh, "root", "document", "draft.md")

	if _, err := nh.Rename(context.Background(), testActor, &dto.RenameNodeRequest{
		ID: doc.ID, Version: doc.Version, Name: "v2.md",
	}); err != nil {
		t.Fatal(err)
	}

	// Replay with the stale version.
	_, err := nh.Rename(context.Background(), testActor, &dto.RenameNodeRequest{
		ID: doc.ID, Version: doc.Version, Name: "v3.md",
	})
	status, code := apiStatus(t, err)
	if status != http.StatusConflict || code != dto.ErrorCodeVersionConflict {
		t.Fatalf("stale rename = %d/%s", status, code)
	}
	var ews dto.ErrorWithStatus
	errors.As(err, &ews)
	if got := ews.Details()["currentVersion"]; got != 2 {
		t.Errorf("currentVersion detail = %v, want 2", got)
	}
}

func TestNodeHandlerMoveErrors(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))
	folder := mustCreate(t, nh, "root", "folder", "A")
	sub := mustCreate(t, nh, folder.ID, "folder", "B")
	doc := mustCreate(t, nh, "root", "document", "doc.md")

	t.Run("cycle", func(t *testing.T) {
		_, err := nh.Move(context.Background(), testActor, &dto.MoveNodeRequest{
			ID: folder.ID, Version: 1, ParentID: sub.ID,
		})
		if _, code := apiStatus(t, err); code != dto.ErrorCodeCycleDetected {
			t.Errorf("code = %s", code)
		}
	})

	t.Run("parent not a folder", func(t *testing.T) {
		_, err := nh.Move(context.Background(), testActor, &dto.MoveNodeRequest{
			ID: sub.ID, Version: 1, ParentID: doc.ID,
		})
		if _, code := apiStatus(t, err); code != dto.ErrorCodeInvalidParent {
			t.Errorf("code = %s", code)
		}
	})

	t.Run("to root", func(t *testing.T) {
		got, err := nh.Move(context.Background(), testActor, &dto.MoveNodeRequest{
			ID: sub.ID, Version: 1, ParentID: "",
		})
		if err != nil {
			t.Fatal(err)
		}
		if got.ParentID != "" {
			t.Errorf("ParentID = %q, want empty for root", got.ParentID)
		}
	})
}

func TestNodeHandlerBulkDeleteRestore(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))
	a := mustCreate(t, nh, "root", "document", "a.md")
	b := mustCreate(t, nh, "root", "document", "b.md")

	resp, err := nh.Delete(context.Background(), testActor, &dto.BulkNodesRequest{IDs: []string{a.ID, b.ID}})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Error != nil {
			t.Errorf("item %s failed: %+v", r.ID, r.Error)
		}
		if r.Node == nil || !r.Node.Deleted {
			t.Errorf("item %s not deleted", r.ID)
		}
	}

	// Trash view lists both; root view is empty.
	trash, err := nh.List(context.Background(), testActor, &dto.ListNodesRequest{Scope: "trash"})
	if err != nil {
		t.Fatal(err)
	}
	if len(trash.Nodes) != 2 {
		t.Errorf("trash = %d nodes", len(trash.Nodes))
	}
	root, err := nh.List(context.Background(), testActor, &dto.ListNodesRequest{Scope: "root"})
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Nodes) != 0 {
		t.Errorf("root = %d nodes", len(root.Nodes))
	}

	restored, err := nh.Restore(context.Background(), testActor, &dto.BulkNodesRequest{IDs: []string{a.ID}})
	if err != nil {
		t.Fatal(err)
	}
	if restored.Results[0].Node.Deleted {
		t.Error("restore left node deleted")
	}
}

func TestNodeHandlerBulkPartialFailure(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))
	a := mustCreate(t, nh, "root", "document", "a.md")

	// Purging a live node fails per item without failing the request.
	resp, err := nh.Purge(context.Background(), testActor, &dto.BulkNodesRequest{IDs: []string{a.ID}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Results[0].Error == nil || resp.Results[0].Error.Code != dto.ErrorCodeNotDeleted {
		t.Errorf("purge of live node = %+v", resp.Results[0].Error)
	}
}

func TestNodeHandlerListFilters(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))
	mustCreate(t, nh, "root", "pdf", "a.pdf")
	mustCreate(t, nh, "root", "image", "b.png")

	resp, err := nh.List(context.Background(), testActor, &dto.ListNodesRequest{Scope: "root", Kind: "pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Nodes) != 1 || resp.Nodes[0].Name != "a.pdf" {
		t.Errorf("filtered list = %+v", resp.Nodes)
	}
	if resp.ExpandAll {
		t.Error("ExpandAll set without a text search")
	}

	search, err := nh.List(context.Background(), testActor, &dto.ListNodesRequest{Scope: "root", Text: "png"})
	if err != nil {
		t.Fatal(err)
	}
	if !search.ExpandAll {
		t.Error("ExpandAll not set for text search")
	}
}

func TestNodeHandlerTreeAndPath(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))
	docs := mustCreate(t, nh, "root", "folder", "Docs")
	year := mustCreate(t, nh, docs.ID, "folder", "2026")
	report := mustCreate(t, nh, year.ID, "pdf", "Report.pdf")

	tree, err := nh.Tree(context.Background(), testActor, &dto.GetTreeRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Roots) != 1 || tree.Roots[0].Node.Name != "Docs" {
		t.Fatalf("tree roots = %+v", tree.Roots)
	}
	if len(tree.Roots[0].Children) != 1 || tree.Roots[0].Children[0].Node.Name != "2026" {
		t.Errorf("Docs children wrong")
	}

	// A tree search keeps the ancestor chain of every match and asks the
	// view to expand.
	pruned, err := nh.Tree(context.Background(), testActor, &dto.GetTreeRequest{Query: "report"})
	if err != nil {
		t.Fatal(err)
	}
	if !pruned.ExpandAll {
		t.Error("ExpandAll not set for a search result")
	}
	if len(pruned.Roots) != 1 || pruned.Roots[0].Node.Name != "Docs" {
		t.Fatalf("pruned roots = %+v", pruned.Roots)
	}
	if pruned.Roots[0].Children[0].Children[0].Node.ID != report.ID {
		t.Error("match not reachable through its ancestors")
	}

	noHit, err := nh.Tree(context.Background(), testActor, &dto.GetTreeRequest{Query: "zzz"})
	if err != nil {
		t.Fatal(err)
	}
	if len(noHit.Roots) != 0 {
		t.Errorf("no-hit search roots = %+v", noHit.Roots)
	}

	path, err := nh.GetPath(context.Background(), testActor, &dto.GetNodePathRequest{ID: report.ID})
	if err != nil {
		t.Fatal(err)
	}
	if path.Path != "/Docs/2026/Report.pdf" {
		t.Errorf("Path = %q", path.Path)
	}
}

func TestNodeHandlerTouchAndRecent(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))
	doc := mustCreate(t, nh, "root", "document", "a.md")

	touched, err := nh.Touch(context.Background(), testActor, &dto.TouchNodeRequest{ID: doc.ID})
	if err != nil {
		t.Fatal(err)
	}
	if touched.LastOpenedAt == "" {
		t.Error("LastOpenedAt not set")
	}
	if touched.Version != doc.Version {
		t.Errorf("touch bumped version to %d", touched.Version)
	}

	recent, err := nh.List(context.Background(), testActor, &dto.ListNodesRequest{Scope: "recent"})
	if err != nil {
		t.Fatal(err)
	}
	if len(recent.Nodes) != 1 || recent.Nodes[0].ID != doc.ID {
		t.Errorf("recent = %+v", recent.Nodes)
	}
}

func TestNodeHandlerCascadeDelete(t *testing.T) {
	nh := NewNodeHandler(newTestServices(t))
	folder := mustCreate(t, nh, "root", "folder", "Docs")
	mustCreate(t, nh, folder.ID, "document", "a.md")
	mustCreate(t, nh, folder.ID, "document", "b.md")

	resp, err := nh.CascadeDelete(context.Background(), testActor, &dto.CascadeDeleteRequest{ID: folder.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("cascade touched %d nodes, want 2", len(resp.Results))
	}
}
