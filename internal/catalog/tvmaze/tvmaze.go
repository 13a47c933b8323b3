// Package tvmaze is a client for the keyless TVmaze show search API.
package tvmaze

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
)

const (
	defaultBaseURL = "https://api.tvmaze.com"
	catalogName    = "tvmaze"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{baseURL: defaultBaseURL, http: catalog.NewHTTPClient()}
}

// SetBaseURL points the client at a test server.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

type show struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Summary   string   `json:"summary"`
	Premiered string   `json:"premiered"`
	Genres    []string `json:"genres"`
	Image     *struct {
		Medium   string `json:"medium"`
		Original string `json:"original"`
	} `json:"image"`
	Network *struct {
		Name string `json:"name"`
	} `json:"network"`
	WebChannel *struct {
		Name string `json:"name"`
	} `json:"webChannel"`
}

// SearchShows runs /search/shows.
func (c *Client) SearchShows(ctx context.Context, query string) ([]catalog.Candidate, error) {
	var resp []struct {
		Score float64 `json:"score"`
		Show  show    `json:"show"`
	}
	u := c.baseURL + "/search/shows?" + url.Values{"q": {query}}.Encode()
	if err := catalog.GetJSON(ctx, c.http, catalogName, u, &resp); err != nil {
		return nil, fmt.Errorf("tvmaze search: %w", err)
	}

	out := make([]catalog.Candidate, 0, len(resp))
	for _, r := range resp {
		out = append(out, r.Show.candidate())
	}
	return out, nil
}

func (s show) candidate() catalog.Candidate {
	c := catalog.Candidate{
		Source:   catalogName,
		ID:       strconv.Itoa(s.ID),
		Title:    s.Name,
		Year:     catalog.YearOf(s.Premiered),
		Synopsis: StripHTML(s.Summary),
		Genres:   append([]string(nil), s.Genres...),
	}
	if s.Image != nil {
		c.PosterURL = s.Image.Original
		if c.PosterURL == "" {
			c.PosterURL = s.Image.Medium
		}
	}
	switch {
	case s.WebChannel != nil && s.WebChannel.Name != "":
		c.Network = s.WebChannel.Name
	case s.Network != nil:
		c.Network = s.Network.Name
	}
	return c
}

// StripHTML returns the text content of an HTML fragment with whitespace
// collapsed.
func StripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
