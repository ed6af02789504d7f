package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"family-hub-service/internal/domain"
	"family-hub-service/internal/infra/memory"
)

func TestCreateChildValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(memory.NewProfileStore(), nil)

	if _, err := svc.CreateChild(ctx, "  ", 8, ""); !errors.Is(err, domain.ErrInvalidChild) {
		t.Fatalf("expected ErrInvalidChild for blank name, got %v", err)
	}
	if _, err := svc.CreateChild(ctx, "Ana", 0, ""); !errors.Is(err, domain.ErrInvalidChild) {
		t.Fatalf("expected ErrInvalidChild for zero age, got %v", err)
	}

	child, err := svc.CreateChild(ctx, "Ana", 8, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if child.ID == "" {
		t.Fatalf("expected assigned identifier")
	}
	if child.ColorTag != domain.DefaultColorTag {
		t.Fatalf("expected default color, got %q", child.ColorTag)
	}

	other, err := svc.CreateChild(ctx, "Ben", 11, "hot-pink")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if other.ID == child.ID {
		t.Fatalf("identifiers must be unique")
	}
	if other.ColorTag != "hot-pink" {
		t.Fatalf("expected chosen color kept, got %q", other.ColorTag)
	}
}

func TestListChildrenMigratesLegacyColors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()
	if err := store.SaveChildren(ctx, []domain.ChildRecord{
		{ID: "c1", DisplayName: "Ana", AgeYears: 8, ColorTag: "blue"},
		{ID: "c2", DisplayName: "Ben", AgeYears: 11, ColorTag: "royal-purple"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewProfileService(store, nil)

	children, err := svc.ListChildren(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if children[0].ColorTag != "bright-blue" {
		t.Fatalf("legacy color not remapped: %q", children[0].ColorTag)
	}
	if children[1].ColorTag != "royal-purple" {
		t.Fatalf("current color must be untouched: %q", children[1].ColorTag)
	}

	// The remap is persisted.
	stored, err := store.LoadChildren(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored[0].ColorTag != "bright-blue" {
		t.Fatalf("remap not written back: %q", stored[0].ColorTag)
	}
}

func TestSaveProfileReplacesAttributes(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(memory.NewProfileStore(), nil)
	child, err := svc.CreateChild(ctx, "Ana", 8, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := child.LastModified

	updated, err := svc.SaveProfile(ctx, child.ID, map[string]domain.AttributeValue{
		domain.AttrShirtSize:      domain.Text("M"),
		domain.AttrFavoriteColors: domain.List("blue", "green"),
	})
	if err != nil {
		t.Fatalf("save profile: %v", err)
	}
	if v, ok := updated.Attribute(domain.AttrShirtSize); !ok {
		t.Fatalf("attribute missing after save")
	} else if first, _ := v.First(); first != "M" {
		t.Fatalf("expected M, got %q", first)
	}
	if updated.LastModified.Before(created) {
		t.Fatalf("lastModified must advance on save")
	}

	// A later save with a different mapping replaces, not merges.
	updated, err = svc.SaveProfile(ctx, child.ID, map[string]domain.AttributeValue{
		domain.AttrToyPreference: domain.Text("puzzles"),
	})
	if err != nil {
		t.Fatalf("save profile: %v", err)
	}
	if _, ok := updated.Attribute(domain.AttrShirtSize); ok {
		t.Fatalf("save must replace the attribute mapping wholesale")
	}

	if _, err := svc.SaveProfile(ctx, "missing", nil); !errors.Is(err, domain.ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}

func TestMessagesAppendOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(memory.NewProfileStore(), nil)
	child, err := svc.CreateChild(ctx, "Ana", 8, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SendMessage(ctx, child.ID, "", "   "); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, "missing", "", "hi"); !errors.Is(err, domain.ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}

	first, err := svc.SendMessage(ctx, child.ID, "", "Do you need new shoes?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if first.SenderLabel != domain.DefaultSenderLabel {
		t.Fatalf("expected default sender, got %q", first.SenderLabel)
	}
	if _, err := svc.SendMessage(ctx, child.ID, "Grandma", "Yes please!"); err != nil {
		t.Fatalf("send: %v", err)
	}

	messages, err := svc.Messages(ctx, child.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Body != "Do you need new shoes?" || messages[1].SenderLabel != "Grandma" {
		t.Fatalf("insertion order not preserved: %+v", messages)
	}
}

func TestSnapshotInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()
	snapshot := NewChildSnapshot(store, time.Hour)
	svc := NewProfileService(store, snapshot)

	children, err := snapshot.Children(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("expected empty snapshot, got %d", len(children))
	}

	if _, err := svc.CreateChild(ctx, "Ana", 8, ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	children, err = snapshot.Children(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("write did not invalidate the snapshot: %d children", len(children))
	}
}

func TestCachedChildrenUsesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{ProfileStore: memory.NewProfileStore()}
	snapshot := NewChildSnapshot(store, time.Minute)
	svc := NewProfileService(store, snapshot)

	if _, err := svc.CreateChild(ctx, "Ana", 8, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	base := store.loads

	if _, err := svc.CachedChildren(ctx); err != nil {
		t.Fatalf("cached children: %v", err)
	}
	if _, err := svc.CachedChildren(ctx); err != nil {
		t.Fatalf("cached children: %v", err)
	}
	if store.loads != base+1 {
		t.Fatalf("expected one store load for repeated cached reads, got %d", store.loads-base)
	}

	if _, err := svc.CreateChild(ctx, "Ben", 6, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	children, err := svc.CachedChildren(ctx)
	if err != nil {
		t.Fatalf("cached children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected reload after write, got %d children", len(children))
	}
}
