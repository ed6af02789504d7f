package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"family-hub-service/internal/domain"
)

// ProfileStore abstracts the key-value persistence surface (in-memory,
// Redis, Postgres). Both collections use get-all/set-all semantics only:
// no partial updates, no transactions.
type ProfileStore interface {
	LoadChildren(ctx context.Context) ([]domain.ChildRecord, error)
	SaveChildren(ctx context.Context, children []domain.ChildRecord) error
	LoadMessages(ctx context.Context) (map[string][]domain.MessageRecord, error)
	SaveMessages(ctx context.Context, threads map[string][]domain.MessageRecord) error
}

// ProfileService owns child records and their message threads.
type ProfileService struct {
	store    ProfileStore
	snapshot *ChildSnapshot
	now      func() time.Time
	newID    func() string
}

// NewProfileService wires the service over a store. snapshot may be nil;
// when present it is invalidated after every write so read paths see
// fresh data.
func NewProfileService(store ProfileStore, snapshot *ChildSnapshot) *ProfileService {
	return &ProfileService{
		store:    store,
		snapshot: snapshot,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateChild registers a new child record. Name must be non-empty and
// age positive; the color tag defaults when unset or unknown.
func (s *ProfileService) CreateChild(ctx context.Context, name string, age int, colorTag string) (domain.ChildRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" || age <= 0 {
		return domain.ChildRecord{}, domain.ErrInvalidChild
	}

	children, err := s.store.LoadChildren(ctx)
	if err != nil {
		return domain.ChildRecord{}, err
	}

	child := domain.ChildRecord{
		ID:           s.newID(),
		DisplayName:  name,
		AgeYears:     age,
		ColorTag:     domain.CanonicalColorTag(colorTag),
		Attributes:   map[string]domain.AttributeValue{},
		LastModified: s.now(),
	}
	children = append(children, child)
	if err := s.store.SaveChildren(ctx, children); err != nil {
		return domain.ChildRecord{}, err
	}
	s.invalidate()
	return child, nil
}

// ListChildren returns every child record, applying the one-time legacy
// color remap. A remapped list is written back best-effort.
func (s *ProfileService) ListChildren(ctx context.Context) ([]domain.ChildRecord, error) {
	children, err := s.store.LoadChildren(ctx)
	if err != nil {
		return nil, err
	}
	migrated := false
	for i := range children {
		canonical := domain.CanonicalColorTag(children[i].ColorTag)
		if canonical != children[i].ColorTag {
			children[i].ColorTag = canonical
			migrated = true
		}
	}
	if migrated {
		_ = s.store.SaveChildren(ctx, children)
		s.invalidate()
	}
	return children, nil
}

// CachedChildren returns the child list through the snapshot cache when
// one is configured. Read-heavy views take this path; every write
// invalidates the cache, so they never see stale data after an edit.
func (s *ProfileService) CachedChildren(ctx context.Context) ([]domain.ChildRecord, error) {
	if s.snapshot != nil {
		return s.snapshot.Children(ctx)
	}
	return s.ListChildren(ctx)
}

// GetChild returns one child record by identifier.
func (s *ProfileService) GetChild(ctx context.Context, id string) (domain.ChildRecord, error) {
	children, err := s.ListChildren(ctx)
	if err != nil {
		return domain.ChildRecord{}, err
	}
	for _, child := range children {
		if child.ID == id {
			return child, nil
		}
	}
	return domain.ChildRecord{}, domain.ErrChildNotFound
}

// SaveProfile replaces a child's attribute mapping wholesale and bumps
// the modification timestamp. There are no per-field updates; the form
// always submits the full mapping.
func (s *ProfileService) SaveProfile(ctx context.Context, id string, attrs map[string]domain.AttributeValue) (domain.ChildRecord, error) {
	children, err := s.store.LoadChildren(ctx)
	if err != nil {
		return domain.ChildRecord{}, err
	}
	for i := range children {
		if children[i].ID != id {
			continue
		}
		if attrs == nil {
			attrs = map[string]domain.AttributeValue{}
		}
		children[i].Attributes = attrs
		children[i].LastModified = s.now()
		if err := s.store.SaveChildren(ctx, children); err != nil {
			return domain.ChildRecord{}, err
		}
		s.invalidate()
		return children[i], nil
	}
	return domain.ChildRecord{}, domain.ErrChildNotFound
}

// Messages returns the thread for one child, oldest first.
func (s *ProfileService) Messages(ctx context.Context, childID string) ([]domain.MessageRecord, error) {
	if _, err := s.GetChild(ctx, childID); err != nil {
		return nil, err
	}
	threads, err := s.store.LoadMessages(ctx)
	if err != nil {
		return nil, err
	}
	return threads[childID], nil
}

// SendMessage appends one message to a child's thread. The sender label
// defaults when blank; the body is required after trimming.
func (s *ProfileService) SendMessage(ctx context.Context, childID, sender, body string) (domain.MessageRecord, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.MessageRecord{}, domain.ErrEmptyMessage
	}
	if _, err := s.GetChild(ctx, childID); err != nil {
		return domain.MessageRecord{}, err
	}
	sender = strings.TrimSpace(sender)
	if sender == "" {
		sender = domain.DefaultSenderLabel
	}

	threads, err := s.store.LoadMessages(ctx)
	if err != nil {
		return domain.MessageRecord{}, err
	}
	if threads == nil {
		threads = map[string][]domain.MessageRecord{}
	}
	msg := domain.MessageRecord{
		SenderLabel: sender,
		Body:        body,
		SentAt:      s.now(),
	}
	threads[childID] = append(threads[childID], msg)
	if err := s.store.SaveMessages(ctx, threads); err != nil {
		return domain.MessageRecord{}, err
	}
	return msg, nil
}

func (s *ProfileService) invalidate() {
	if s.snapshot != nil {
		s.snapshot.Invalidate()
	}
}
