package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/MikeSquared-Agency/moodmatch/internal/events"
)

// NATS subjects published by moodmatch.
const (
	SubjectSearchCompleted   = "moodmatch.search.completed"
	SubjectFeedbackReceived  = "moodmatch.feedback.received"
	SubjectServiceRegistered = "moodmatch.service.registered"
)

// Registration is announced once on startup.
type Registration struct {
	Service     string    `json:"service"`
	Port        int       `json:"port"`
	LLMProvider string    `json:"llm_provider"`
	Catalogs    []string  `json:"catalogs"`
	Timestamp   time.Time `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("moodmatch"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

// Register announces the service.
func (c *Client) Register(reg Registration) error {
	if reg.Service == "" {
		reg.Service = "moodmatch"
	}
	if reg.Timestamp.IsZero() {
		reg.Timestamp = time.Now().UTC()
	}
	return c.Publish(SubjectServiceRegistered, reg)
}

// RecordSearch publishes a search event.
func (c *Client) RecordSearch(_ context.Context, ev events.SearchCompleted) error {
	return c.Publish(SubjectSearchCompleted, ev)
}

// RecordFeedback publishes a feedback event.
func (c *Client) RecordFeedback(_ context.Context, ev events.FeedbackReceived) error {
	return c.Publish(SubjectFeedbackReceived, ev)
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Drain()
}
