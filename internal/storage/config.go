// Manages server configuration stored in server_config.yaml.

package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig stores all server-wide configuration.
// Loaded from server_config.yaml, created with defaults if missing.
type ServerConfig struct {
	// JWTSecret is the secret used to verify bearer tokens.
	// Auto-generated if empty on first load.
	JWTSecret string `yaml:"jwt_secret"`

	// MaxTreeDepth bounds ancestor-chain walks. Moves that would nest a node
	// deeper than this are rejected.
	MaxTreeDepth int `yaml:"max_tree_depth"`

	// RecentLimit is the number of entries shown in the recent view.
	RecentLimit int `yaml:"recent_limit"`

	// MaxNodes limits the total number of nodes. 0 means unlimited.
	MaxNodes int `yaml:"max_nodes"`

	// RateLimits defines rate limiting configuration.
	RateLimits RateLimits `yaml:"rate_limits"`
}

// RateLimits defines rate limiting configuration (requests per minute).
type RateLimits struct {
	// WriteRatePerMin limits write operations (POST/PUT/DELETE).
	// 0 means unlimited.
	WriteRatePerMin int `yaml:"write_rate_per_min"`

	// ReadRatePerMin limits read operations.
	// 0 means unlimited.
	ReadRatePerMin int `yaml:"read_rate_per_min"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.WriteRatePerMin < 0 {
		return errors.New("write_rate_per_min must be non-negative")
	}
	if r.ReadRatePerMin < 0 {
		return errors.New("read_rate_per_min must be non-negative")
	}
	return nil
}

// DefaultRateLimits returns the default rate limits.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		WriteRatePerMin: 120,
		ReadRatePerMin:  6000,
	}
}

// Validate checks that the configuration is valid.
func (c *ServerConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 bytes")
	}
	if c.MaxTreeDepth <= 0 {
		return errors.New("max_tree_depth must be positive")
	}
	if c.RecentLimit <= 0 {
		return errors.New("recent_limit must be positive")
	}
	if c.MaxNodes < 0 {
		return errors.New("max_nodes must be non-negative")
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	return nil
}

// DefaultServerConfig returns the default configuration without a secret.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		MaxTreeDepth: 1000,
		RecentLimit:  5,
		MaxNodes:     0,
		RateLimits:   DefaultRateLimits(),
	}
}

// ConfigPath returns the path of the config file within dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "server_config.yaml")
}

// LoadServerConfig loads configuration from dataDir/server_config.yaml.
// Creates the file with defaults if it doesn't exist.
// Auto-generates JWTSecret if empty.
func LoadServerConfig(dataDir string) (*ServerConfig, error) {
	path := ConfigPath(dataDir)
	cfg := DefaultServerConfig()

	created := false
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir, not user input
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		created = true
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.JWTSecret == "" {
		var b [32]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(b[:])
		created = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if created {
		if err := saveServerConfig(path, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func saveServerConfig(path string, cfg *ServerConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
