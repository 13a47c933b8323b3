package hermes

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/moodmatch/internal/events"
)

func TestSearchCompletedPayload(t *testing.T) {
	ev := events.SearchCompleted{
		ID:               uuid.New(),
		MediaType:        "show",
		Status:           "no_results",
		ItemCount:        0,
		FallbackUsed:     true,
		AnalyzerFallback: true,
		DurationMS:       1200,
		OccurredAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"id", "media_type", "status", "item_count", "fallback_used", "analyzer_fallback", "occurred_at"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected key %q in payload %s", key, data)
		}
	}
	for _, key := range []string{"prompt", "session_id"} {
		if _, ok := raw[key]; ok {
			t.Errorf("payload must not carry %q", key)
		}
	}
	if raw["status"] != "no_results" {
		t.Errorf("expected status 'no_results', got '%v'", raw["status"])
	}
}

func TestFeedbackReceivedPayload(t *testing.T) {
	raw := `{
		"id": "5d3c2a36-7d34-4a0a-9b0e-3f4b1a2c9d10",
		"media_type": "anime",
		"action": "dislike",
		"item_source": "jikan",
		"item_id": "20",
		"item_title": "Naruto",
		"occurred_at": "2026-01-02T03:04:05Z"
	}`

	var ev events.FeedbackReceived
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("failed to parse FeedbackReceived: %v", err)
	}
	if ev.Action != "dislike" {
		t.Errorf("expected action 'dislike', got '%s'", ev.Action)
	}
	if ev.ItemTitle != "Naruto" {
		t.Errorf("expected item_title 'Naruto', got '%s'", ev.ItemTitle)
	}
	if ev.ID == uuid.Nil {
		t.Error("expected id to parse")
	}
}

func TestSubjectConstants(t *testing.T) {
	for _, s := range []string{SubjectSearchCompleted, SubjectFeedbackReceived, SubjectServiceRegistered} {
		if !strings.HasPrefix(s, "moodmatch.") {
			t.Errorf("subject %q is outside the moodmatch namespace", s)
		}
	}
}
