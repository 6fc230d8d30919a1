// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/hubfs/hubfs/internal/server/handlers"
	"github.com/hubfs/hubfs/internal/server/ratelimit"
)

// NewRouter creates and configures the HTTP router. Every endpoint except
// the health check requires a bearer token from the external identity
// provider.
func NewRouter(svc *handlers.Services, cfg *handlers.Config, limits *ratelimit.Config) http.Handler {
	mux := &http.ServeMux{}
	nh := handlers.NewNodeHandler(svc)
	ph := handlers.NewPreferenceHandler(svc)

	// Health check
	hh := handlers.NewHealthHandler(cfg.Version)
	mux.Handle("GET /api/health", Wrap(hh.Health, cfg))

	// Scoped listing and creation. {scope} is a folder ID or one of the
	// virtual scopes root, starred, recent, trash.
	mux.Handle("GET /api/scopes/{scope}/nodes", WrapAuth(nh.List, cfg, limits))
	mux.Handle("POST /api/scopes/{scope}/nodes", WrapAuth(nh.Create, cfg, limits))

	// Navigation tree
	mux.Handle("GET /api/tree", WrapAuth(nh.Tree, cfg, limits))

	// Single node
	mux.Handle("GET /api/nodes/{id}", WrapAuth(nh.Get, cfg, limits))
	mux.Handle("GET /api/nodes/{id}/path", WrapAuth(nh.GetPath, cfg, limits))
	mux.Handle("PUT /api/nodes/{id}/name", WrapAuth(nh.Rename, cfg, limits))
	mux.Handle("PUT /api/nodes/{id}/parent", WrapAuth(nh.Move, cfg, limits))
	mux.Handle("PUT /api/nodes/{id}/tags", WrapAuth(nh.Retag, cfg, limits))
	mux.Handle("PATCH /api/nodes/{id}/content", WrapAuth(nh.UpdateContent, cfg, limits))
	mux.Handle("PUT /api/nodes/{id}/starred", WrapAuth(nh.Star, cfg, limits))
	mux.Handle("POST /api/nodes/{id}/open", WrapAuth(nh.Touch, cfg, limits))
	mux.Handle("POST /api/nodes/{id}/cascade-delete", WrapAuth(nh.CascadeDelete, cfg, limits))

	// Bulk lifecycle
	mux.Handle("POST /api/nodes/delete", WrapAuth(nh.Delete, cfg, limits))
	mux.Handle("POST /api/nodes/restore", WrapAuth(nh.Restore, cfg, limits))
	mux.Handle("POST /api/nodes/purge", WrapAuth(nh.Purge, cfg, limits))

	// Preferences and favorites
	mux.Handle("GET /api/preferences/{scope}", WrapAuth(ph.Get, cfg, limits))
	mux.Handle("PUT /api/preferences/{scope}", WrapAuth(ph.Set, cfg, limits))
	mux.Handle("GET /api/favorites", WrapAuth(ph.ListFavorites, cfg, limits))
	mux.Handle("PUT /api/favorites/{id}", WrapAuth(ph.SetFavorite, cfg, limits))
	mux.Handle("POST /api/favorites/{id}/toggle", WrapAuth(ph.ToggleFavorite, cfg, limits))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	})

	return RequestIDMiddleware(LoggingMiddleware(c.Handler(mux)))
}
