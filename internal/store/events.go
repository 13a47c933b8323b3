package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/moodmatch/internal/events"
)

// RecordSearch appends a search event.
func (s *Store) RecordSearch(ctx context.Context, ev events.SearchCompleted) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO search_events (id, media_type, status, item_count, fallback_used, analyzer_fallback, refined, duration_ms, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ev.ID, ev.MediaType, ev.Status, ev.ItemCount, ev.FallbackUsed, ev.AnalyzerFallback, ev.Refined, ev.DurationMS, ev.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert search event: %w", err)
	}
	return nil
}

// RecordFeedback appends a feedback event.
func (s *Store) RecordFeedback(ctx context.Context, ev events.FeedbackReceived) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO feedback_events (id, media_type, action, item_source, item_id, item_title, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.MediaType, ev.Action, ev.ItemSource, ev.ItemID, ev.ItemTitle, ev.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback event: %w", err)
	}
	return nil
}

type StatusCount struct {
	MediaType string `json:"media_type"`
	Status    string `json:"status"`
	Count     int64  `json:"count"`
}

// SearchCounts returns search totals per media type and status since the
// given time.
func (s *Store) SearchCounts(ctx context.Context, since time.Time) ([]StatusCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT media_type, status, count(*)
		FROM search_events
		WHERE occurred_at >= $1
		GROUP BY media_type, status
		ORDER BY media_type, status`, since)
	if err != nil {
		return nil, fmt.Errorf("query search counts: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.MediaType, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan search count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
