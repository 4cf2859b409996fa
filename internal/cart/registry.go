package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry keeps one cart per till session.
type Registry struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

func (r *Registry) Create() (string, *Cart) {
	id := uuid.NewString()
	c := New()

	r.mu.Lock()
	r.carts[id] = c
	r.mu.Unlock()

	return id, c
}

func (r *Registry) Get(id string) (*Cart, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[id]
	return c, ok
}

// Delete discards a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[id]; !ok {
		return false
	}
	delete(r.carts, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}

// PruneCommitted drops carts that were checked out before cutoff and returns
// how many were removed. Open carts are never pruned.
func (r *Registry) PruneCommitted(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, c := range r.carts {
		if at, ok := c.CommittedAt(); ok && at.Before(cutoff) {
			delete(r.carts, id)
			removed++
		}
	}
	return removed
}

// Janitor prunes carts committed more than retention ago, every interval,
// until ctx is done.
func (r *Registry) Janitor(ctx context.Context, retention, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.PruneCommitted(now.Add(-retention)); n > 0 {
				logger.Info("pruned committed carts", "count", n, "open", r.Len())
			}
		}
	}
}
