package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
)

// Details is the enriched record returned by MovieDetails and TVDetails.
type Details struct {
	ID        string
	IMDbID    string
	Title     string
	Year      string
	Poster    string
	Overview  string
	Genres    []string
	Providers []string
	Cast      []string
	Director  string
	Runtime   string
	Tagline   string
	Keywords  []string
	Network   string
	Rating    float64
}

type namedEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type credits struct {
	Cast []struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type watchProviders struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

type detailResponse struct {
	ID              int            `json:"id"`
	IMDbID          string         `json:"imdb_id"`
	Title           string         `json:"title"`
	Name            string         `json:"name"`
	Overview        string         `json:"overview"`
	ReleaseDate     string         `json:"release_date"`
	FirstAirDate    string         `json:"first_air_date"`
	PosterPath      string         `json:"poster_path"`
	Runtime         int            `json:"runtime"`
	EpisodeRunTime  []int          `json:"episode_run_time"`
	NumberOfSeasons int            `json:"number_of_seasons"`
	Tagline         string         `json:"tagline"`
	VoteAverage     float64        `json:"vote_average"`
	Genres          []namedEntry   `json:"genres"`
	Networks        []namedEntry   `json:"networks"`
	CreatedBy       []namedEntry   `json:"created_by"`
	Credits         credits        `json:"credits"`
	WatchProviders  watchProviders `json:"watch/providers"`
	Keywords        struct {
		Keywords []namedEntry `json:"keywords"`
		Results  []namedEntry `json:"results"`
	} `json:"keywords"`
}

// MovieDetails fetches /movie/{id} with providers, credits and keywords.
func (c *Client) MovieDetails(ctx context.Context, id string) (*Details, error) {
	resp, err := c.details(ctx, "/movie/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	d := resp.common()
	d.Title = resp.Title
	d.Year = catalog.YearOf(resp.ReleaseDate)
	if resp.Runtime > 0 {
		d.Runtime = fmt.Sprintf("%d min", resp.Runtime)
	}
	for _, crew := range resp.Credits.Crew {
		if crew.Job == "Director" {
			d.Director = crew.Name
			break
		}
	}
	d.Keywords = names(resp.Keywords.Keywords)
	return d, nil
}

// TVDetails fetches /tv/{id} with providers, credits and keywords.
func (c *Client) TVDetails(ctx context.Context, id string) (*Details, error) {
	resp, err := c.details(ctx, "/tv/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	d := resp.common()
	d.Title = resp.Name
	d.Year = catalog.YearOf(resp.FirstAirDate)
	switch {
	case resp.NumberOfSeasons == 1:
		d.Runtime = "1 season"
	case resp.NumberOfSeasons > 1:
		d.Runtime = fmt.Sprintf("%d seasons", resp.NumberOfSeasons)
	case len(resp.EpisodeRunTime) > 0:
		d.Runtime = fmt.Sprintf("%d min per episode", resp.EpisodeRunTime[0])
	}
	if len(resp.CreatedBy) > 0 {
		d.Director = resp.CreatedBy[0].Name
	}
	if len(resp.Networks) > 0 {
		d.Network = resp.Networks[0].Name
	}
	d.Keywords = names(resp.Keywords.Results)
	return d, nil
}

func (c *Client) details(ctx context.Context, path string) (*detailResponse, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")
	q.Set("append_to_response", "watch/providers,credits,keywords")

	var resp detailResponse
	if err := catalog.GetJSON(ctx, c.http, catalogName, c.baseURL+path+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("tmdb details %s: %w", path, err)
	}
	return &resp, nil
}

func (r *detailResponse) common() *Details {
	d := &Details{
		ID:       fmt.Sprint(r.ID),
		IMDbID:   r.IMDbID,
		Poster:   posterURL(r.PosterPath),
		Overview: r.Overview,
		Tagline:  r.Tagline,
		Rating:   r.VoteAverage,
		Genres:   names(r.Genres),
	}

	if region, ok := r.WatchProviders.Results[catalog.Region]; ok {
		providers := make([]string, 0, len(region.Flatrate))
		for _, p := range region.Flatrate {
			providers = append(providers, p.ProviderName)
		}
		d.Providers = catalog.DisplayPlatforms(providers)
	}

	for _, member := range r.Credits.Cast {
		if len(d.Cast) == topCast {
			break
		}
		d.Cast = append(d.Cast, member.Name)
	}
	return d
}

func names(entries []namedEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if n := strings.TrimSpace(e.Name); n != "" {
			out = append(out, n)
		}
	}
	return out
}
