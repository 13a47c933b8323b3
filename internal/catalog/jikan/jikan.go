// Package jikan is a client for the Jikan v4 (MyAnimeList) API.
package jikan

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

const (
	defaultBaseURL = "https://api.jikan.moe/v4"
	catalogName    = "jikan"

	// Jikan allows 3 requests per second per client.
	requestsPerSecond = 3
)

// allowedRatings are the MyAnimeList age ratings that may be shown.
var allowedRatings = []string{"G - ", "PG - ", "PG-13 - "}

type order struct {
	by   string
	sort string
}

// popularity is a rank, so ascending puts the most popular first.
var searchOrders = []order{
	{"popularity", "asc"},
	{"score", "desc"},
	{"members", "desc"},
	{"favorites", "desc"},
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	rnd     catalog.Randomizer
}

func NewClient(rnd catalog.Randomizer) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    catalog.NewHTTPClient(),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		rnd:     rnd,
	}
}

// SetBaseURL points the client at a test server and lifts the rate limit.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
	c.limiter = rate.NewLimiter(rate.Inf, 1)
}

// Anime is one MyAnimeList entry.
type Anime struct {
	ID       int
	Title    string
	Year     string
	Poster   string
	Synopsis string
	Genres   []string
	Themes   []string
	Rating   string
	Score    float64
	Episodes int
	Studio   string
}

// Item converts the entry into a media item. Streaming is filled separately.
func (a Anime) Item() media.Item {
	it := media.Item{
		ID:       strconv.Itoa(a.ID),
		Source:   catalogName,
		Title:    a.Title,
		Year:     a.Year,
		Poster:   a.Poster,
		Synopsis: a.Synopsis,
		Genre:    append([]string(nil), a.Genres...),
		Theme:    append([]string(nil), a.Themes...),
		Type:     media.Anime,
		Director: a.Studio,
	}
	if a.Rating != "" {
		it.Tone = []string{strings.ReplaceAll(a.Rating, "_", " ")}
	}
	if a.Score > 0 {
		score := strconv.FormatFloat(a.Score, 'f', -1, 64)
		it.Score = score
		it.Ratings = []media.Rating{{Source: "MyAnimeList", Value: score + "/10"}}
	}
	if a.Episodes > 0 {
		it.Runtime = fmt.Sprintf("%d episodes", a.Episodes)
	}
	return it
}

// Allowed reports whether the entry's age rating may be shown.
func (a Anime) Allowed() bool {
	for _, prefix := range allowedRatings {
		if strings.HasPrefix(a.Rating, prefix) {
			return true
		}
	}
	return false
}

type named struct {
	Name string `json:"name"`
}

type animeData struct {
	MalID        int     `json:"mal_id"`
	Title        string  `json:"title"`
	TitleEnglish string  `json:"title_english"`
	Synopsis     string  `json:"synopsis"`
	Year         int     `json:"year"`
	Rating       string  `json:"rating"`
	Score        float64 `json:"score"`
	Episodes     int     `json:"episodes"`
	Aired        struct {
		From string `json:"from"`
	} `json:"aired"`
	Images struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Genres    []named `json:"genres"`
	Themes    []named `json:"themes"`
	Studios   []named `json:"studios"`
	Producers []named `json:"producers"`
}

type listResponse struct {
	Data []animeData `json:"data"`
}

// Search queries /anime with SFW filtering and a random ordering. Entries
// with disallowed ratings are dropped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Anime, error) {
	o := catalog.Pick(c.rnd, searchOrders)

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sfw", "true")
	q.Set("order_by", o.by)
	q.Set("sort", o.sort)
	return c.list(ctx, "/anime", q)
}

// TopByPopularity returns the most popular entries.
func (c *Client) TopByPopularity(ctx context.Context, limit int) ([]Anime, error) {
	q := url.Values{}
	q.Set("filter", "bypopularity")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sfw", "true")
	return c.list(ctx, "/top/anime", q)
}

// Streaming returns the display names of the services streaming an entry.
func (c *Client) Streaming(ctx context.Context, id string) ([]string, error) {
	var resp struct {
		Data []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/anime/"+url.PathEscape(id)+"/streaming", nil, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		names = append(names, d.Name)
	}
	return catalog.DisplayPlatforms(names), nil
}

func (c *Client) list(ctx context.Context, path string, q url.Values) ([]Anime, error) {
	var resp listResponse
	if err := c.get(ctx, path, q, &resp); err != nil {
		return nil, err
	}

	out := make([]Anime, 0, len(resp.Data))
	for _, d := range resp.Data {
		a := d.anime()
		if !a.Allowed() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("jikan rate limit: %w", err)
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	if err := catalog.GetJSON(ctx, c.http, catalogName, u, out); err != nil {
		return fmt.Errorf("jikan %s: %w", path, err)
	}
	return nil
}

func (d animeData) anime() Anime {
	a := Anime{
		ID:       d.MalID,
		Title:    d.Title,
		Synopsis: d.Synopsis,
		Rating:   d.Rating,
		Score:    d.Score,
		Episodes: d.Episodes,
		Poster:   d.Images.JPG.LargeImageURL,
		Genres:   namesOf(d.Genres),
		Themes:   namesOf(d.Themes),
	}
	if d.TitleEnglish != "" {
		a.Title = d.TitleEnglish
	}
	if a.Poster == "" {
		a.Poster = d.Images.JPG.ImageURL
	}
	if d.Year > 0 {
		a.Year = strconv.Itoa(d.Year)
	} else {
		a.Year = catalog.YearOf(d.Aired.From)
	}
	switch {
	case len(d.Studios) > 0:
		a.Studio = d.Studios[0].Name
	case len(d.Producers) > 0:
		a.Studio = d.Producers[0].Name
	}
	return a
}

func namesOf(in []named) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		if n.Name != "" {
			out = append(out, n.Name)
		}
	}
	return out
}
