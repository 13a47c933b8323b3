package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Heat","year":1995}`))
	}))
	defer server.Close()

	var out struct {
		Name string `json:"name"`
		Year int    `json:"year"`
	}
	err := GetJSON(context.Background(), NewHTTPClient(), "test", server.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "Heat", out.Name)
	assert.Equal(t, 1995, out.Year)
}

func TestGetJSON_StatusErrorRedactsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var out map[string]any
	err := GetJSON(context.Background(), NewHTTPClient(), "tmdb", server.URL+"/3/discover/movie?api_key=secret", &out)
	require.Error(t, err)

	var hs *HTTPStatusError
	require.True(t, errors.As(err, &hs))
	assert.Equal(t, http.StatusUnauthorized, hs.StatusCode)
	assert.False(t, strings.Contains(err.Error(), "secret"), "api key leaked into error: %s", err)
}

func TestGetJSON_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	var out map[string]any
	assert.Error(t, GetJSON(context.Background(), NewHTTPClient(), "test", server.URL, &out))
}

func TestDisplayPlatform(t *testing.T) {
	tests := map[string]string{
		"netflix":            "Netflix",
		"Amazon Prime Video": "Prime Video",
		"prime":              "Prime Video",
		"Disney Plus":        "Disney+",
		"hbo max":            "HBO Max",
		"Apple TV+":          "Apple TV+",
		"Paramount+":         "Paramount+",
		"crunchyroll":        "Crunchyroll",
		"  Mubi ":            "Mubi",
	}
	for in, want := range tests {
		assert.Equal(t, want, DisplayPlatform(in), "DisplayPlatform(%q)", in)
	}
}

func TestDisplayPlatforms_Dedups(t *testing.T) {
	got := DisplayPlatforms([]string{"amazon", "Prime Video", "netflix"})
	assert.Equal(t, []string{"Prime Video", "Netflix"}, got)
}

func TestContainsBannedTerm(t *testing.T) {
	assert.True(t, ContainsBannedTerm("some NSFW anime"))
	assert.True(t, ContainsBannedTerm("ecchi comedy"))
	assert.False(t, ContainsBannedTerm("cozy slice of life anime"))
}

func TestYearOf(t *testing.T) {
	assert.Equal(t, "1994", YearOf("1994-09-23"))
	assert.Equal(t, "", YearOf(""))
	assert.Equal(t, "", YearOf("n/a"))
}

func TestCandidateItem(t *testing.T) {
	c := Candidate{Source: "tvmaze", ID: "1", Title: "Severance", Genres: []string{"Drama"}, Network: "Apple TV+"}
	it := c.Item(media.Show)
	assert.Equal(t, media.Show, it.Type)
	assert.Equal(t, []string{"Apple TV+"}, it.Streaming)

	it.Genre[0] = "changed"
	assert.Equal(t, "Drama", c.Genres[0])
}

func TestPage(t *testing.T) {
	r := NewSeededRandomizer(7)
	for i := 0; i < 50; i++ {
		p := Page(r, 5)
		assert.GreaterOrEqual(t, p, 1)
		assert.LessOrEqual(t, p, 5)
	}
	assert.Equal(t, 1, Page(r, 0))
}
