// Defines shared service dependencies for handlers.

package handlers

import (
	"github.com/hubfs/hubfs/internal/storage/hub"
)

// Services holds all service dependencies for handlers.
type Services struct {
	Repo      *hub.NodeRepository
	Mutations *hub.MutationService
	Listing   *hub.ListingService
	Prefs     *hub.PreferenceService
}

// Config holds configuration values needed by handlers.
type Config struct {
	JWTSecret           string
	Version             string
	MaxRequestBodyBytes int64
}
