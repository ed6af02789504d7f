package memory

import (
	"context"
	"sync"

	"family-hub-service/internal/domain"
)

// ProfileStore is the in-memory implementation of app.ProfileStore.
// Loads return deep copies so callers can never mutate stored state
// behind the store's back.
type ProfileStore struct {
	mu       sync.RWMutex
	children []domain.ChildRecord
	threads  map[string][]domain.MessageRecord
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		threads: make(map[string][]domain.MessageRecord),
	}
}

func (s *ProfileStore) LoadChildren(_ context.Context) ([]domain.ChildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneChildren(s.children), nil
}

func (s *ProfileStore) SaveChildren(_ context.Context, children []domain.ChildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = cloneChildren(children)
	return nil
}

func (s *ProfileStore) LoadMessages(_ context.Context) (map[string][]domain.MessageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneThreads(s.threads), nil
}

func (s *ProfileStore) SaveMessages(_ context.Context, threads map[string][]domain.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads = cloneThreads(threads)
	return nil
}

func cloneChildren(children []domain.ChildRecord) []domain.ChildRecord {
	out := make([]domain.ChildRecord, len(children))
	copy(out, children)
	for i := range out {
		if out[i].Attributes == nil {
			continue
		}
		attrs := make(map[string]domain.AttributeValue, len(out[i].Attributes))
		for k, v := range out[i].Attributes {
			attrs[k] = v
		}
		out[i].Attributes = attrs
	}
	return out
}

func cloneThreads(threads map[string][]domain.MessageRecord) map[string][]domain.MessageRecord {
	out := make(map[string][]domain.MessageRecord, len(threads))
	for id, msgs := range threads {
		copied := make([]domain.MessageRecord, len(msgs))
		copy(copied, msgs)
		out[id] = copied
	}
	return out
}
