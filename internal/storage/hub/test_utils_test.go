package hub

import (
	"context"
	"testing"
	"time"

	"github.com/hubfs/hubfs/internal/storage"
	"github.com/maruel/ksid"
)

var testActor = Actor{ID: "u-1", Name: "Ada"}

type testEnv struct {
	repo  *NodeRepository
	svc   *MutationService
	prefs *PreferenceService
	clock *storage.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewNodeRepository(dir, 1000)
	if err != nil {
		t.Fatalf("NewNodeRepository() error: %v", err)
	}
	prefs, err := NewPreferenceService(dir)
	if err != nil {
		t.Fatalf("NewPreferenceService() error: %v", err)
	}
	clock := &storage.FakeClock{Current: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
	return &testEnv{
		repo:  repo,
		svc:   NewMutationService(repo, clock, 0),
		prefs: prefs,
		clock: clock,
	}
}

func (e *testEnv) lister(recentLimit int) *ListingService {
	return NewListingService(NewScopeResolver(e.repo, recentLimit), e.prefs)
}

func (e *testEnv) mkFolder(t *testing.T, parent ksid.ID, name string) *Node {
	t.Helper()
	n, err := e.svc.Create(context.Background(), testActor, CreateRequest{
		ParentID: parent,
		Kind:     KindFolder,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("Create(folder %s) error: %v", name, err)
	}
	return n
}

func (e *testEnv) mkDoc(t *testing.T, parent ksid.ID, name string) *Node {
	t.Helper()
	n, err := e.svc.Create(context.Background(), testActor, CreateRequest{
		ParentID: parent,
		Kind:     KindDocument,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("Create(document %s) error: %v", name, err)
	}
	return n
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
