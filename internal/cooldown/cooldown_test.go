package cooldown

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGuard_Claim(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewMemoryGuard()
	g.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := g.Claim(ctx, "game-1", 30*time.Minute)
	if err != nil || !ok {
		t.Fatalf("first claim = %v, %v, want true", ok, err)
	}

	ok, err = g.Claim(ctx, "game-1", 30*time.Minute)
	if err != nil || ok {
		t.Fatalf("claim within cooldown = %v, %v, want false", ok, err)
	}

	// a different key is independent
	ok, err = g.Claim(ctx, "game-2", 30*time.Minute)
	if err != nil || !ok {
		t.Fatalf("claim for other key = %v, %v, want true", ok, err)
	}

	now = now.Add(31 * time.Minute)
	ok, err = g.Claim(ctx, "game-1", 30*time.Minute)
	if err != nil || !ok {
		t.Fatalf("claim after cooldown = %v, %v, want true", ok, err)
	}
}

func TestMemoryGuard_PrunesExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewMemoryGuard()
	g.now = func() time.Time { return now }
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if ok, _ := g.Claim(ctx, key, time.Minute); !ok {
			t.Fatalf("claim %s failed", key)
		}
	}
	if len(g.expires) != 3 {
		t.Fatalf("entries = %d, want 3", len(g.expires))
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := g.Claim(ctx, "d", time.Minute); !ok {
		t.Fatal("claim d failed")
	}
	// the expired a, b and c are gone, only d remains
	if len(g.expires) != 1 {
		t.Fatalf("entries = %d, want 1 after pruning", len(g.expires))
	}
}
