package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), " ", "gemini-2.5-flash", Options{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := body["systemInstruction"]; !ok {
			t.Errorf("expected system instruction in request: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": `{"genre":["horror"]}`}},
				}},
			},
		})
	}))
	defer server.Close()

	c, err := NewClient(context.Background(), "test-key", "gemini-2.5-flash", Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	out, err := c.Complete(context.Background(), "system", "scary movie", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"genre":["horror"]}` {
		t.Errorf("unexpected output %q", out)
	}
	if c.Name() != "gemini:gemini-2.5-flash" {
		t.Errorf("unexpected name %q", c.Name())
	}
}

func TestComplete_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	c, err := NewClient(context.Background(), "test-key", "gemini-2.5-flash", Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Complete(context.Background(), "", "anything", 64); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}
