package dedupe

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	id        string
	expiresAt time.Time
}

// MemoryGuard is a process-local Guard for tests and single-instance
// deployments. Expired entries are swept by a background janitor; Close
// stops the janitor.
type MemoryGuard struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	config  config

	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryGuard creates an in-memory Guard and starts its janitor.
func NewMemoryGuard(opts ...Option) *MemoryGuard {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	g := &MemoryGuard{
		entries: make(map[string]memoryEntry),
		config:  cfg,
		done:    make(chan struct{}),
	}
	go g.janitor()
	return g
}

func (g *MemoryGuard) Mark(ctx context.Context, userID, key, id string) (string, bool, error) {
	k := guardKey(userID, key)
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.entries[k]; ok && e.expiresAt.After(now) {
		return e.id, true, nil
	}
	g.entries[k] = memoryEntry{id: id, expiresAt: now.Add(g.config.window)}
	return "", false, nil
}

func (g *MemoryGuard) Release(ctx context.Context, userID, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, guardKey(userID, key))
	return nil
}

// Close stops the background janitor. Safe to call more than once.
func (g *MemoryGuard) Close() {
	g.stopOnce.Do(func() { close(g.done) })
}

func (g *MemoryGuard) janitor() {
	ticker := time.NewTicker(g.config.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-g.done:
			return
		case now := <-ticker.C:
			g.mu.Lock()
			for k, e := range g.entries {
				if !e.expiresAt.After(now) {
					delete(g.entries, k)
				}
			}
			g.mu.Unlock()
		}
	}
}
