// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"strings"
	"time"
)

// Tier defines a rate limit tier with its limiter.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Config holds the write and read limiters. Reads dominate traffic (folder
// navigation polls listings), so they get a far higher budget than mutations.
type Config struct {
	Write Tier
	Read  Tier
}

// NewConfig creates a Config from per-minute budgets. Burst is a sixth of the
// per-minute budget, at least 5.
func NewConfig(writePerMin, readPerMin int) *Config {
	return &Config{
		Write: Tier{
			Name:    "write",
			Limiter: NewLimiter(writePerMin, time.Minute, max(writePerMin/6, 5)),
		},
		Read: Tier{
			Name:    "read",
			Limiter: NewLimiter(readPerMin, time.Minute, max(readPerMin/6, 5)),
		},
	}
}

// Update applies new per-minute budgets to the existing limiters, typically
// after a config reload. In-flight bucket state is preserved.
func (c *Config) Update(writePerMin, readPerMin int) {
	c.Write.Limiter.SetRate(writePerMin, time.Minute, max(writePerMin/6, 5))
	c.Read.Limiter.SetRate(readPerMin, time.Minute, max(readPerMin/6, 5))
}

// Match returns the tier for a request, or nil for paths that should not be
// rate limited.
func (c *Config) Match(method, path string) *Tier {
	// Skip health check
	if path == "/api/health" {
		return nil
	}

	// Touch is technically a POST but behaves like a read: it fires on every
	// open and must not eat the write budget.
	if method == "POST" && strings.HasSuffix(path, "/open") {
		return &c.Read
	}

	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return &c.Write
	case "GET":
		return &c.Read
	}
	return nil
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	c.Write.Limiter.Close()
	c.Read.Limiter.Close()
}
