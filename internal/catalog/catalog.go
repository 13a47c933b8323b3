// Package catalog holds what the movie, TV and anime catalog clients share:
// the JSON fetch helper, upstream error types, candidate records, the
// streaming platform table and the randomizer used for varied discovery.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/MikeSquared-Agency/moodmatch/internal/media"
	"github.com/MikeSquared-Agency/moodmatch/internal/metrics"
)

// Region is the watch-provider region used for streaming availability.
const Region = "US"

// DefaultTimeout bounds a single catalog request.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when a catalog answers but has no matching record.
var ErrNotFound = errors.New("not found")

// HTTPStatusError is returned when a catalog replies with a non-2xx status.
type HTTPStatusError struct {
	Catalog    string
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("%s: HTTP %d %s", e.Catalog, e.StatusCode, e.URL)
}

// Candidate is a search hit before its detail lookup.
type Candidate struct {
	Source    string
	ID        string
	Title     string
	Year      string
	PosterURL string
	Synopsis  string
	GenreIDs  []int
	Genres    []string
	Network   string
}

// Item converts the candidate into a bare media item of the given type.
func (c Candidate) Item(kind media.Type) media.Item {
	it := media.Item{
		ID:       c.ID,
		Source:   c.Source,
		Title:    c.Title,
		Year:     c.Year,
		Poster:   c.PosterURL,
		Synopsis: c.Synopsis,
		Genre:    append([]string(nil), c.Genres...),
		Type:     kind,
		Network:  c.Network,
	}
	if c.Network != "" {
		it.Streaming = []string{DisplayPlatform(c.Network)}
	}
	return it
}

// NewHTTPClient returns the client used by catalog APIs.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// GetJSON performs a GET against rawURL and decodes a 2xx body into out.
// The outcome is recorded under the catalog name.
func GetJSON(ctx context.Context, c *http.Client, catalog, rawURL string, out any) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		metrics.RecordUpstream(catalog, "transport_error", time.Since(start))
		return fmt.Errorf("%s request: %w", catalog, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordUpstream(catalog, "http_error", time.Since(start))
		return &HTTPStatusError{Catalog: catalog, URL: redact(rawURL), StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordUpstream(catalog, "decode_error", time.Since(start))
		return fmt.Errorf("decode %s response: %w", catalog, err)
	}

	metrics.RecordUpstream(catalog, "ok", time.Since(start))
	return nil
}

// redact drops the query string so api keys never reach logs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	return u.String()
}

// YearOf returns the first four characters of a date string, or "" when the
// date is missing or malformed.
func YearOf(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return date[:4]
}
