package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/hubfs/hubfs/internal/server/dto"
	"github.com/hubfs/hubfs/internal/storage"
	"github.com/hubfs/hubfs/internal/storage/hub"
)

var testActor = hub.Actor{ID: "u-1", Name: "Ada"}

func newTestServices(t *testing.T) *Services {
	t.Helper()
	dir := t.TempDir()
	repo, err := hub.NewNodeRepository(dir, 1000)
	if err != nil {
		t.Fatalf("NewNodeRepository() error: %v", err)
	}
	prefs, err := hub.NewPreferenceService(dir)
	if err != nil {
		t.Fatalf("NewPreferenceService() error: %v", err)
	}
	clock := &storage.FakeClock{Current: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
	return &Services{
		Repo:      repo,
		Mutations: hub.NewMutationService(repo, clock, 0),
		Listing:   hub.NewListingService(hub.NewScopeResolver(repo, 5), prefs),
		Prefs:     prefs,
	}
}

func mustCreate(t *testing.T, nh *NodeHandler, scope, kind, name string) *dto.NodeResponse {
	t.Helper()
	resp, err := nh.Create(context.Background(), testActor, &dto.CreateNodeRequest{
		Scope: scope,
		Kind:  kind,
		Name:  name,
	})
	if err != nil {
		t.Fatalf("Create(%s %s in %s) error: %v", kind, name, scope, err)
	}
	return resp
}
