package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"family-hub-service/internal/domain"
)

const (
	childrenDoc = "familyKids"
	messagesDoc = "familyMessages"
)

// ProfileStore persists each collection as one JSONB row in
// family_documents, keyed by document name. The whole document is read
// and written at once; there are no partial updates.
type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

func (s *ProfileStore) LoadChildren(ctx context.Context) ([]domain.ChildRecord, error) {
	raw, err := s.loadDoc(ctx, childrenDoc)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
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
	return s.saveDoc(ctx, childrenDoc, raw)
}

func (s *ProfileStore) LoadMessages(ctx context.Context) (map[string][]domain.MessageRecord, error) {
	raw, err := s.loadDoc(ctx, messagesDoc)
	if err != nil {
		return nil, err
	}
	threads := map[string][]domain.MessageRecord{}
	if raw == nil {
		return threads, nil
	}
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
	return s.saveDoc(ctx, messagesDoc, raw)
}

func (s *ProfileStore) loadDoc(ctx context.Context, name string) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM family_documents WHERE name=$1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", name, err)
	}
	return raw, nil
}

func (s *ProfileStore) saveDoc(ctx context.Context, name string, raw []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO family_documents (name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		name, raw)
	if err != nil {
		return fmt.Errorf("save document %s: %w", name, err)
	}
	return nil
}
