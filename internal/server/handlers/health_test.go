package handlers

import (
	"context"
	"testing"

	"github.com/hubfs/hubfs/internal/server/dto"
)

func TestHealth(t *testing.T) {
	h := NewHealthHandler("1.2.3")
	resp, err := h.Health(context.Background(), &dto.HealthRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Version != "1.2.3" {
		t.Errorf("Health() = %+v", resp)
	}
}
