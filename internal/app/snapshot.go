package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"family-hub-service/internal/domain"
)

// ChildSnapshot caches the full child list with a TTL so the trivia
// engine and summary renderer do not hit the store on every read. Writes
// go through ProfileService, which invalidates the cache.
type ChildSnapshot struct {
	store ProfileStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	children  []domain.ChildRecord
	expiresAt time.Time
}

func NewChildSnapshot(store ProfileStore, ttl time.Duration) *ChildSnapshot {
	return &ChildSnapshot{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Children returns the cached child list, refreshing it from the store
// when expired. Concurrent refreshes are collapsed.
func (r *ChildSnapshot) Children(ctx context.Context) ([]domain.ChildRecord, error) {
	now := r.clock()

	r.mu.RLock()
	if r.expiresAt.After(now) {
		children := r.children
		r.mu.RUnlock()
		return children, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("children", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.expiresAt.After(now) {
			children := r.children
			r.mu.RUnlock()
			return children, nil
		}
		r.mu.RUnlock()

		children, err := r.store.LoadChildren(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.children = children
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return children, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ChildRecord), nil
}

// Invalidate drops the cached list so the next read reloads.
func (r *ChildSnapshot) Invalidate() {
	r.mu.Lock()
	r.children = nil
	r.expiresAt = time.Time{}
	r.mu.Unlock()
}

func (r *ChildSnapshot) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
