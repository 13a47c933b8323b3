// Package omdb looks up secondary metadata (ratings, awards, box office) from
// the Open Movie Database.
package omdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

const (
	defaultBaseURL = "https://www.omdbapi.com/"
	catalogName    = "omdb"
	notAvailable   = "N/A"
)

// Kind narrows a lookup to movies or series.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    catalog.NewHTTPClient(),
	}
}

// SetBaseURL points the client at a test server.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Record is the subset of an OMDB title record used for enrichment.
type Record struct {
	Kind      Kind
	Genres    []string
	Ratings   []media.Rating
	Runtime   string
	Director  string
	Actors    []string
	Awards    string
	BoxOffice string
	Plot      string
	Poster    string
}

type response struct {
	Response  string `json:"Response"`
	Error     string `json:"Error"`
	Genre     string `json:"Genre"`
	Runtime   string `json:"Runtime"`
	Director  string `json:"Director"`
	Actors    string `json:"Actors"`
	Awards    string `json:"Awards"`
	BoxOffice string `json:"BoxOffice"`
	Plot      string `json:"Plot"`
	Poster    string `json:"Poster"`
	Ratings   []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

// Lookup fetches a title by exact name and optional year. It returns
// catalog.ErrNotFound when OMDB has no such title.
func (c *Client) Lookup(ctx context.Context, title, year string, kind Kind) (*Record, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	if year != "" && year != media.UnknownYear {
		q.Set("y", year)
	}
	if kind != "" {
		q.Set("type", string(kind))
	}

	var resp response
	if err := catalog.GetJSON(ctx, c.http, catalogName, c.baseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("omdb lookup %q: %w", title, err)
	}
	if resp.Response != "True" {
		return nil, fmt.Errorf("omdb lookup %q: %s: %w", title, resp.Error, catalog.ErrNotFound)
	}

	rec := &Record{
		Kind:      kind,
		Genres:    split(resp.Genre),
		Runtime:   value(resp.Runtime),
		Director:  value(resp.Director),
		Actors:    split(resp.Actors),
		Awards:    value(resp.Awards),
		BoxOffice: value(resp.BoxOffice),
		Plot:      value(resp.Plot),
		Poster:    value(resp.Poster),
	}
	for _, r := range resp.Ratings {
		rec.Ratings = append(rec.Ratings, media.Rating{Source: r.Source, Value: r.Value})
	}
	return rec, nil
}

// Enrich copies secondary metadata onto it without overwriting what the
// primary catalog already provided. Series without themes take OMDB's genres
// as their themes.
func (r *Record) Enrich(it media.Item) media.Item {
	if len(r.Ratings) > 0 {
		it.Ratings = append(append([]media.Rating(nil), it.Ratings...), r.Ratings...)
	}
	if it.Runtime == "" {
		it.Runtime = r.Runtime
	}
	if it.Director == "" {
		it.Director = r.Director
	}
	if len(it.Cast) == 0 {
		it.Cast = append([]string(nil), r.Actors...)
	}
	if it.Awards == "" {
		it.Awards = r.Awards
	}
	if it.BoxOffice == "" {
		it.BoxOffice = r.BoxOffice
	}
	if it.Synopsis == "" {
		it.Synopsis = r.Plot
	}
	if it.Poster == "" {
		it.Poster = r.Poster
	}
	if r.Kind == KindSeries && len(it.Theme) == 0 {
		it.Theme = append([]string(nil), r.Genres...)
	}
	return it
}

func value(s string) string {
	s = strings.TrimSpace(s)
	if s == notAvailable {
		return ""
	}
	return s
}

func split(s string) []string {
	s = value(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ", ")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
