package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"family-hub-service/internal/domain"
)

func newTestStore(t *testing.T) (*ProfileStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewProfileStore(client), mr
}

func TestLoadChildrenEmptyKey(t *testing.T) {
	store, _ := newTestStore(t)
	children, err := store.LoadChildren(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("missing key should load as empty, got %+v", children)
	}
}

func TestChildrenDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	seed := []domain.ChildRecord{{
		ID:          "c1",
		DisplayName: "Ana",
		AgeYears:    8,
		ColorTag:    "bright-blue",
		Attributes: map[string]domain.AttributeValue{
			domain.AttrShirtSize:      domain.Text("M"),
			domain.AttrFavoriteColors: domain.List("blue", "green"),
		},
	}}
	if err := store.SaveChildren(ctx, seed); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("family:kids") {
		t.Fatalf("expected children document key to be set")
	}

	loaded, err := store.LoadChildren(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].DisplayName != "Ana" {
		t.Fatalf("unexpected children: %+v", loaded)
	}
	colors, ok := loaded[0].Attribute(domain.AttrFavoriteColors)
	if !ok {
		t.Fatalf("favorite colors lost in round trip")
	}
	if first, _ := colors.First(); first != "blue" {
		t.Fatalf("list order lost: %+v", colors)
	}
}

func TestLegacyDocumentShapeDecodes(t *testing.T) {
	// Documents written by the original app mix bare strings, arrays, and
	// numbers inside the profile object.
	ctx := context.Background()
	store, mr := newTestStore(t)
	mr.Set("family:kids", `[{"id":"1712","name":"Ana","age":8,"color":"blue",
		"profile":{"shirtSize":"M","favoriteColors":["blue","green"],"currentTshirts":4},
		"lastUpdated":"2024-05-01T10:00:00Z"}]`)

	children, err := store.LoadChildren(ctx)
	if err != nil {
		t.Fatalf("load legacy document: %v", err)
	}
	if len(children) != 1 || children[0].AgeYears != 8 {
		t.Fatalf("unexpected children: %+v", children)
	}
	v, ok := children[0].Attribute("currentTshirts")
	if !ok {
		t.Fatalf("numeric attribute missing")
	}
	if first, _ := v.First(); first != "4" {
		t.Fatalf("number should normalize to decimal string, got %q", first)
	}
}

func TestMessagesDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	threads, err := store.LoadMessages(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(threads) != 0 {
		t.Fatalf("missing key should load as empty map")
	}

	threads["c1"] = []domain.MessageRecord{{SenderLabel: "Family Member", Body: "hello"}}
	if err := store.SaveMessages(ctx, threads); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.LoadMessages(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded["c1"]) != 1 || loaded["c1"][0].Body != "hello" {
		t.Fatalf("unexpected thread: %+v", loaded["c1"])
	}
}
