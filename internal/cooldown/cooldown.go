package cooldown

import (
	"context"
	"sync"
	"time"
)

// MemoryGuard is a process-local claim guard for single-instance
// deploys and tests. Expired entries are pruned lazily on claim.
type MemoryGuard struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Claim reports whether the caller acquired the cooldown slot for key.
// A successful claim blocks further claims until ttl passes.
func (g *MemoryGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if until, ok := g.expires[key]; ok && now.Before(until) {
		return false, nil
	}
	for k, until := range g.expires {
		if !now.Before(until) {
			delete(g.expires, k)
		}
	}
	g.expires[key] = now.Add(ttl)
	return true, nil
}
