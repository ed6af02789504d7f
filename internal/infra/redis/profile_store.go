package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"family-hub-service/internal/domain"
)

const (
	childrenKey = "family:kids"
	messagesKey = "family:messages"
)

// ProfileStore keeps each collection as one JSON document under a single
// key, read and written whole. Documents never expire; this is the system
// of record, not a cache.
type ProfileStore struct {
	client *goredis.Client
}

func NewProfileStore(client *goredis.Client) *ProfileStore {
	return &ProfileStore{client: client}
}

func (s *ProfileStore) LoadChildren(ctx context.Context) ([]domain.ChildRecord, error) {
	raw, err := s.client.Get(ctx, childrenKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load children: %w", err)
	}
	var children []domain.ChildRecord
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	return children, nil
}

func (s *ProfileStore) SaveChildren(ctx context.Context, children []domain.ChildRecord) error {
	raw, err := json.Marshal(children)
	if err != nil {
		return fmt.Errorf("encode children: %w", err)
	}
	if err := s.client.Set(ctx, childrenKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save children: %w", err)
	}
	return nil
}

func (s *ProfileStore) LoadMessages(ctx context.Context) (map[string][]domain.MessageRecord, error) {
	raw, err := s.client.Get(ctx, messagesKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return map[string][]domain.MessageRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	var threads map[string][]domain.MessageRecord
	if err := json.Unmarshal(raw, &threads); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if threads == nil {
		threads = map[string][]domain.MessageRecord{}
	}
	return threads, nil
}

func (s *ProfileStore) SaveMessages(ctx context.Context, threads map[string][]domain.MessageRecord) error {
	raw, err := json.Marshal(threads)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	if err := s.client.Set(ctx, messagesKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save messages: %w", err)
	}
	return nil
}
