package ratelimit

import "testing"

func TestConfigMatch(t *testing.T) {
	c := NewConfig(120, 6000)
	defer c.Close()

	tests := []struct {
		method string
		path   string
		want   string // tier name, "" for none
	}{
		{"GET", "/api/health", ""},
		{"GET", "/api/scopes/root/nodes", "read"},
		{"GET", "/api/nodes/abc", "read"},
		{"POST", "/api/scopes/root/nodes", "write"},
		{"PUT", "/api/nodes/abc/name", "write"},
		{"PATCH", "/api/nodes/abc/content", "write"},
		{"DELETE", "/api/nodes", "write"},
		{"POST", "/api/nodes/abc/open", "read"},
		{"OPTIONS", "/api/nodes/abc", ""},
	}
	for _, tt := range tests {
		tier := c.Match(tt.method, tt.path)
		got := ""
		if tier != nil {
			got = tier.Name
		}
		if got != tt.want {
			t.Errorf("Match(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestBuildKey(t *testing.T) {
	if got := BuildKey("u-1", "write"); got != "user:u-1:write" {
		t.Errorf("BuildKey() = %q", got)
	}
}

func TestConfigUpdate(t *testing.T) {
	c := NewConfig(60, 600)
	defer c.Close()

	c.Update(120, 1200)
	if r := c.Write.Limiter.Allow("user:u-1:write"); r.Limit != 120 {
		t.Errorf("write Limit = %d, want 120", r.Limit)
	}
	if r := c.Read.Limiter.Allow("user:u-1:read"); r.Limit != 1200 {
		t.Errorf("read Limit = %d, want 1200", r.Limit)
	}
}
