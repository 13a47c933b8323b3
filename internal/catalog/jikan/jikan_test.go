package jikan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

const searchBody = `{"data":[
	{"mal_id":5114,"title":"Hagane no Renkinjutsushi: Fullmetal Alchemist","title_english":"Fullmetal Alchemist: Brotherhood",
	 "synopsis":"Two brothers...","year":2009,"rating":"R - 17+ (violence & profanity)","score":9.1,"episodes":64,
	 "images":{"jpg":{"image_url":"small.jpg","large_image_url":"large.jpg"}},
	 "genres":[{"name":"Action"}],"themes":[{"name":"Military"}],"studios":[{"name":"Bones"}]},
	{"mal_id":1,"title":"Kiki's Delivery Service","year":0,"aired":{"from":"1989-07-29T00:00:00+00:00"},
	 "rating":"G - All Ages","score":8.2,"episodes":1,
	 "images":{"jpg":{"image_url":"kiki.jpg"}},
	 "genres":[{"name":"Adventure"},{"name":"Fantasy"}],"themes":[],"producers":[{"name":"Tokuma Shoten"}]},
	{"mal_id":2,"title":"Toradora!","year":2008,"rating":"PG-13 - Teens 13 or older","score":8.1,"episodes":25,
	 "genres":[{"name":"Romance"}],"themes":[{"name":"School"}]}
]}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	c := NewClient(catalog.NewSeededRandomizer(42))
	c.SetBaseURL(server.URL)
	return c
}

func TestSearch_FiltersRatings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("sfw"))
		assert.Equal(t, "cozy", q.Get("q"))
		assert.Equal(t, "6", q.Get("limit"))
		assert.NotEmpty(t, q.Get("order_by"))
		w.Write([]byte(searchBody))
	})

	got, err := c.Search(context.Background(), "cozy", 6)
	require.NoError(t, err)
	require.Len(t, got, 2, "R-rated entry must be dropped")

	kiki := got[0]
	assert.Equal(t, "1989", kiki.Year)
	assert.Equal(t, "kiki.jpg", kiki.Poster)
	assert.Equal(t, "Tokuma Shoten", kiki.Studio)

	assert.Equal(t, "Toradora!", got[1].Title)
}

func TestAnimeItem(t *testing.T) {
	a := Anime{
		ID: 2, Title: "Toradora!", Year: "2008", Rating: "PG-13 - Teens 13 or older",
		Score: 8.1, Episodes: 25, Genres: []string{"Romance"}, Themes: []string{"School"}, Studio: "J.C.Staff",
	}
	it := a.Item()

	assert.Equal(t, media.Anime, it.Type)
	assert.Equal(t, "2", it.ID)
	assert.Equal(t, "jikan", it.Source)
	assert.Equal(t, []string{"PG-13 - Teens 13 or older"}, it.Tone)
	assert.Equal(t, []string{"School"}, it.Theme)
	assert.Equal(t, "25 episodes", it.Runtime)
	assert.Equal(t, "J.C.Staff", it.Director)
	assert.Equal(t, []media.Rating{{Source: "MyAnimeList", Value: "8.1/10"}}, it.Ratings)
}

func TestTopByPopularity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top/anime", r.URL.Path)
		assert.Equal(t, "bypopularity", r.URL.Query().Get("filter"))
		w.Write([]byte(searchBody))
	})

	got, err := c.TopByPopularity(context.Background(), 25)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStreaming(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anime/5114/streaming", r.URL.Path)
		w.Write([]byte(`{"data":[{"name":"Crunchyroll","url":"x"},{"name":"Netflix","url":"y"},{"name":"crunchyroll","url":"z"}]}`))
	})

	got, err := c.Streaming(context.Background(), "5114")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crunchyroll", "Netflix"}, got)
}

func TestStreaming_Error(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Streaming(context.Background(), "1")
	assert.Error(t, err)
}
