package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"family-hub-service/internal/app"
	"family-hub-service/internal/infra/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.ProfileService) {
	t.Helper()
	store := memory.NewProfileStore()
	snapshot := app.NewChildSnapshot(store, time.Minute)
	profiles := app.NewProfileService(store, snapshot)
	trivia := app.NewTriviaService(snapshot, 10*time.Millisecond)
	server := httptest.NewServer(NewRouter(profiles, trivia))
	t.Cleanup(server.Close)
	return server, profiles
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func TestChildLifecycleOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/children", nil)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty list, got %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/children", map[string]any{
		"name": "Ana", "age": 8, "color": "blue",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: got %d %s", resp.StatusCode, body)
	}
	var created struct {
		ID    string `json:"id"`
		Color string `json:"color"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created child: %v", err)
	}
	if created.ID == "" || created.Color != "bright-blue" {
		t.Fatalf("unexpected created child: %s", body)
	}

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/children", map[string]any{"name": "", "age": 8})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid child: got %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPut, server.URL+"/api/children/"+created.ID+"/profile", map[string]any{
		"shirtSize":      "M",
		"favoriteColors": []string{"blue", "green"},
		"currentTshirts": 4,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save profile: got %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/children/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"shirtSize":"M"`) {
		t.Fatalf("get child: got %d %s", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/children/missing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown child, got %d", resp.StatusCode)
	}
}

func TestMessagesOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, server.URL+"/api/children", map[string]any{"name": "Ana", "age": 8})
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/children/"+created.ID+"/messages", map[string]any{
		"text": "Do you need new shoes?",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("send message: got %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Family Member") {
		t.Fatalf("expected default sender, got %s", body)
	}

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/children/"+created.ID+"/messages", map[string]any{"text": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank message: got %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/children/"+created.ID+"/messages", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Do you need new shoes?") {
		t.Fatalf("list messages: got %d %s", resp.StatusCode, body)
	}
}

func TestMessagesRenderedAsHTML(t *testing.T) {
	server, _ := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, server.URL+"/api/children", map[string]any{"name": "Ana", "age": 8})
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	url := server.URL + "/api/children/" + created.ID + "/messages"
	getHTML := func() (*http.Response, string) {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Accept", "text/html")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("get html: %v", err)
		}
		defer resp.Body.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(resp.Body); err != nil {
			t.Fatalf("read body: %v", err)
		}
		return resp, buf.String()
	}

	resp, out := getHTML()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty thread: got %d %s", resp.StatusCode, out)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html thread, got %q", ct)
	}
	if !strings.Contains(out, "No messages yet") {
		t.Fatalf("expected empty-thread state, got %s", out)
	}

	if resp, body := doJSON(t, http.MethodPost, url, map[string]any{"text": "Do you need new shoes?"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("send message: got %d %s", resp.StatusCode, body)
	}

	_, out = getHTML()
	if !strings.Contains(out, "<strong>Family Member</strong>") || !strings.Contains(out, "Do you need new shoes?") {
		t.Fatalf("rendered thread missing message: %s", out)
	}
}

func TestWardrobeAndSummaryOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, server.URL+"/api/children", map[string]any{"name": "Ana", "age": 8})
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, body := doJSON(t, http.MethodPut, server.URL+"/api/children/"+created.ID+"/profile", map[string]any{
		"shirtSize":      "M",
		"currentTshirts": 4,
	}); len(body) == 0 {
		t.Fatalf("save profile failed")
	}

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/children/"+created.ID+"/wardrobe", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Elementary") {
		t.Fatalf("wardrobe: got %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/summary", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html summary, got %q", ct)
	}
	if !strings.Contains(string(body), "Ana (Age 8)") {
		t.Fatalf("summary missing child card: %s", body)
	}
}
