package cache

import (
	"context"
	"testing"
)

func TestControlCacheDefaults(t *testing.T) {
	ctx := context.Background()
	c := NewControlCache(newTestClient(t))

	ctrl, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ctrl.CurrentQuestion != 0 || ctrl.RoundOpen || ctrl.GameStarted || ctrl.SessionID != "" {
		t.Fatalf("expected zero-value control record, got %+v", ctrl)
	}
}

func TestControlCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewControlCache(newTestClient(t))

	if err := c.SetCurrentQuestion(ctx, 4); err != nil {
		t.Fatalf("set question failed: %v", err)
	}
	if err := c.SetRoundOpen(ctx, true); err != nil {
		t.Fatalf("set round failed: %v", err)
	}
	if err := c.SetGameStarted(ctx, true); err != nil {
		t.Fatalf("set started failed: %v", err)
	}
	if err := c.SetSessionID(ctx, "1756000000000"); err != nil {
		t.Fatalf("set session failed: %v", err)
	}

	ctrl, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ctrl.CurrentQuestion != 4 || !ctrl.RoundOpen || !ctrl.GameStarted || ctrl.SessionID != "1756000000000" {
		t.Fatalf("round trip mismatch: %+v", ctrl)
	}
}

func TestControlCacheIncrement(t *testing.T) {
	ctx := context.Background()
	c := NewControlCache(newTestClient(t))

	// Absent field counts as 0, so the first increment lands on 1.
	next, err := c.IncrementCurrentQuestion(ctx)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if next != 1 {
		t.Fatalf("expected 1, got %d", next)
	}

	next, err = c.IncrementCurrentQuestion(ctx)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if next != 2 {
		t.Fatalf("expected 2, got %d", next)
	}

	ctrl, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ctrl.CurrentQuestion != 2 {
		t.Fatalf("expected persisted index 2, got %d", ctrl.CurrentQuestion)
	}
}

func TestControlCacheNegativeIndexClamped(t *testing.T) {
	ctx := context.Background()
	c := NewControlCache(newTestClient(t))

	if err := c.SetCurrentQuestion(ctx, -5); err != nil {
		t.Fatalf("set question failed: %v", err)
	}
	ctrl, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ctrl.CurrentQuestion != 0 {
		t.Fatalf("expected clamp to 0, got %d", ctrl.CurrentQuestion)
	}
}
