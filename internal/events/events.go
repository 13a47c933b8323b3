// Package events defines the anonymous telemetry emitted after searches and
// feedback actions, and the sinks that receive it. Events never carry the
// prompt text or the session id.
package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SearchCompleted is emitted once per finished search.
type SearchCompleted struct {
	ID               uuid.UUID `json:"id"`
	MediaType        string    `json:"media_type"`
	Status           string    `json:"status"`
	ItemCount        int       `json:"item_count"`
	FallbackUsed     bool      `json:"fallback_used"`
	AnalyzerFallback bool      `json:"analyzer_fallback"`
	Refined          bool      `json:"refined"`
	DurationMS       int64     `json:"duration_ms"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// FeedbackReceived is emitted once per feedback action.
type FeedbackReceived struct {
	ID         uuid.UUID `json:"id"`
	MediaType  string    `json:"media_type"`
	Action     string    `json:"action"`
	ItemSource string    `json:"item_source,omitempty"`
	ItemID     string    `json:"item_id,omitempty"`
	ItemTitle  string    `json:"item_title"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sink receives events.
type Sink interface {
	RecordSearch(ctx context.Context, ev SearchCompleted) error
	RecordFeedback(ctx context.Context, ev FeedbackReceived) error
}

// Multi fans every event out to all sinks and joins their errors.
type Multi []Sink

func (m Multi) RecordSearch(ctx context.Context, ev SearchCompleted) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordSearch(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) RecordFeedback(ctx context.Context, ev FeedbackReceived) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordFeedback(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder delivers events off the request path. A Recorder with no sink
// drops everything.
type Recorder struct {
	sink    Sink
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewRecorder(sink Sink, logger *slog.Logger) *Recorder {
	return &Recorder{sink: sink, timeout: 5 * time.Second, logger: logger}
}

// Search stamps and delivers ev in the background.
func (r *Recorder) Search(ev SearchCompleted) {
	if r == nil || r.sink == nil {
		return
	}
	ev.ID = uuid.New()
	ev.OccurredAt = time.Now().UTC()
	r.deliver("search", func(ctx context.Context) error {
		return r.sink.RecordSearch(ctx, ev)
	})
}

// Feedback stamps and delivers ev in the background.
func (r *Recorder) Feedback(ev FeedbackReceived) {
	if r == nil || r.sink == nil {
		return
	}
	ev.ID = uuid.New()
	ev.OccurredAt = time.Now().UTC()
	r.deliver("feedback", func(ctx context.Context) error {
		return r.sink.RecordFeedback(ctx, ev)
	})
}

func (r *Recorder) deliver(kind string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			r.logger.Warn("failed to record event", "kind", kind, "error", err)
		}
	}()
}

// Wait blocks until all in-flight deliveries finish.
func (r *Recorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}
