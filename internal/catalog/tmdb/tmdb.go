// Package tmdb is a client for The Movie Database v3 API: discovery, search
// and detail lookups for movies and TV shows.
package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"
	catalogName    = "tmdb"

	// minVotesForRating keeps rating-sorted discovery away from titles with a
	// handful of votes.
	minVotesForRating = 200
	topCast           = 5
)

// SortOrders are the discovery orders picked from at random.
var SortOrders = []string{"popularity.desc", "vote_average.desc", "revenue.desc"}

var tvSortOrders = []string{"popularity.desc", "vote_average.desc"}

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
	c.baseURL = strings.TrimRight(u, "/")
}

// Discover narrows a discovery query. Zero values are left unset.
type Discover struct {
	GenreIDs    []int
	KeywordIDs  []int
	YearFrom    int
	YearTo      int
	ProviderIDs []int
	SortBy      string
	Page        int
}

// RandomDiscover returns a Discover with a random movie sort order and page.
func RandomDiscover(r catalog.Randomizer, maxPage int) Discover {
	return Discover{SortBy: catalog.Pick(r, SortOrders), Page: catalog.Page(r, maxPage)}
}

// RandomTVDiscover is RandomDiscover for TV, which has no revenue ordering.
func RandomTVDiscover(r catalog.Randomizer, maxPage int) Discover {
	return Discover{SortBy: catalog.Pick(r, tvSortOrders), Page: catalog.Page(r, maxPage)}
}

type listResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
}

type listResponse struct {
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Results    []listResult `json:"results"`
}

// DiscoverMovies runs /discover/movie.
func (c *Client) DiscoverMovies(ctx context.Context, d Discover) ([]catalog.Candidate, error) {
	q := c.discoverQuery(d)
	if d.YearFrom > 0 {
		q.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", d.YearFrom))
	}
	if d.YearTo > 0 {
		q.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", d.YearTo))
	}
	return c.list(ctx, "/discover/movie", q)
}

// DiscoverTV runs /discover/tv.
func (c *Client) DiscoverTV(ctx context.Context, d Discover) ([]catalog.Candidate, error) {
	q := c.discoverQuery(d)
	if d.YearFrom > 0 {
		q.Set("first_air_date.gte", fmt.Sprintf("%d-01-01", d.YearFrom))
	}
	if d.YearTo > 0 {
		q.Set("first_air_date.lte", fmt.Sprintf("%d-12-31", d.YearTo))
	}
	return c.list(ctx, "/discover/tv", q)
}

// PopularMovies is the unfiltered fallback list.
func (c *Client) PopularMovies(ctx context.Context, page int) ([]catalog.Candidate, error) {
	return c.DiscoverMovies(ctx, Discover{SortBy: "popularity.desc", Page: page})
}

// PopularTV is the unfiltered TV fallback list.
func (c *Client) PopularTV(ctx context.Context, page int) ([]catalog.Candidate, error) {
	return c.DiscoverTV(ctx, Discover{SortBy: "popularity.desc", Page: page})
}

// SearchTV runs a free-text /search/tv query.
func (c *Client) SearchTV(ctx context.Context, query string) ([]catalog.Candidate, error) {
	q := c.baseQuery()
	q.Set("query", query)
	return c.list(ctx, "/search/tv", q)
}

// SearchKeywordID resolves a keyword name to its TMDB id.
func (c *Client) SearchKeywordID(ctx context.Context, name string) (int, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", name)

	var resp struct {
		Results []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"results"`
	}
	if err := catalog.GetJSON(ctx, c.http, catalogName, c.baseURL+"/search/keyword?"+q.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("search keyword %q: %w", name, err)
	}
	for _, r := range resp.Results {
		if strings.EqualFold(r.Name, name) {
			return r.ID, nil
		}
	}
	if len(resp.Results) > 0 {
		return resp.Results[0].ID, nil
	}
	return 0, catalog.ErrNotFound
}

func (c *Client) baseQuery() url.Values {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")
	q.Set("include_adult", "false")
	return q
}

func (c *Client) discoverQuery(d Discover) url.Values {
	q := c.baseQuery()
	sortBy := d.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	q.Set("sort_by", sortBy)
	if sortBy == "vote_average.desc" {
		q.Set("vote_count.gte", strconv.Itoa(minVotesForRating))
	}
	if d.Page > 0 {
		q.Set("page", strconv.Itoa(d.Page))
	}
	if len(d.GenreIDs) > 0 {
		q.Set("with_genres", joinInts(d.GenreIDs, ","))
	}
	if len(d.KeywordIDs) > 0 {
		q.Set("with_keywords", joinInts(d.KeywordIDs, "|"))
	}
	if len(d.ProviderIDs) > 0 {
		q.Set("with_watch_providers", joinInts(d.ProviderIDs, "|"))
		q.Set("watch_region", catalog.Region)
	}
	return q
}

func (c *Client) list(ctx context.Context, path string, q url.Values) ([]catalog.Candidate, error) {
	var resp listResponse
	if err := catalog.GetJSON(ctx, c.http, catalogName, c.baseURL+path+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("tmdb %s: %w", path, err)
	}

	out := make([]catalog.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, r.candidate())
	}
	return out, nil
}

func (r listResult) candidate() catalog.Candidate {
	title, date, genreName := r.Title, r.ReleaseDate, MovieGenreName
	if title == "" {
		title, date, genreName = r.Name, r.FirstAirDate, TVGenreName
	}
	c := catalog.Candidate{
		Source:    catalogName,
		ID:        strconv.Itoa(r.ID),
		Title:     title,
		Year:      catalog.YearOf(date),
		PosterURL: posterURL(r.PosterPath),
		Synopsis:  r.Overview,
		GenreIDs:  r.GenreIDs,
	}
	for _, id := range r.GenreIDs {
		if name, ok := genreName(id); ok {
			c.Genres = append(c.Genres, name)
		}
	}
	return c
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}

func joinInts(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}
