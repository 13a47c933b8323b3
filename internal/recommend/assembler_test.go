package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

func items(n int, themed bool) []media.Item {
	out := make([]media.Item, n)
	for i := range out {
		out[i] = media.Item{Source: "tmdb", ID: fmt.Sprint(i), Title: fmt.Sprintf("Title %d", i), Year: "2000"}
		if themed {
			out[i].ID = fmt.Sprint(1000 + i)
			out[i].Title = fmt.Sprintf("Themed %d", i)
			out[i].Theme = []string{"redemption"}
		}
	}
	return out
}

func TestAssemble_LimitAndContentFilter(t *testing.T) {
	src := items(10, false)
	src[3].Genre = []string{"HENTAI"}

	for seed := int64(0); seed < 20; seed++ {
		got := Assemble([][]media.Item{src}, AssembleOptions{Limit: 6, Rand: catalog.NewSeededRandomizer(seed)})
		assert.Len(t, got, 6)
		for _, it := range got {
			assert.False(t, it.IsBanned())
		}
	}
}

func TestAssemble_Dedup(t *testing.T) {
	a := []media.Item{
		{Source: "tmdb", ID: "1", Title: "The Office", Year: "2005"},
		{Source: "tmdb", ID: "1", Title: "The Office (US)", Year: "2005"},
	}
	b := []media.Item{
		{Source: "tvmaze", ID: "526", Title: "the office", Year: "2005"},
		{Source: "tvmaze", ID: "527", Title: "The Office", Year: "2001"},
		{Source: "omdb", Title: "Parks and Recreation"},
		{Source: "omdb", Title: "Parks and Recreation", Year: "N/A"},
	}

	got := Assemble([][]media.Item{a, b}, AssembleOptions{Limit: 10})
	require.Len(t, got, 3)

	titles := map[string]bool{}
	for _, it := range got {
		titles[it.Title+"/"+it.Year] = true
	}
	assert.True(t, titles["The Office/2005"])
	assert.True(t, titles["The Office/2001"])
	assert.True(t, titles["Parks and Recreation/N/A"])
}

func TestAssemble_SameTitleDistinctIDsKept(t *testing.T) {
	a := []media.Item{
		{Source: "tmdb", ID: "1", Title: "Hamlet", Year: "1990"},
		{Source: "tmdb", ID: "2", Title: "Hamlet", Year: "1990"},
	}
	b := []media.Item{
		{Source: "tvmaze", ID: "9", Title: "Hamlet", Year: "1990"},
		{Source: "omdb", Title: "Hamlet", Year: "1990"},
	}

	got := Assemble([][]media.Item{a, b}, AssembleOptions{Limit: 10})
	require.Len(t, got, 2)
	for _, it := range got {
		assert.Equal(t, "tmdb", it.Source)
	}

	// An id-less holder still absorbs later items with the same title.
	got = Assemble([][]media.Item{{
		{Source: "tmdb", Title: "Hamlet", Year: "1990"},
		{Source: "tmdb", ID: "2", Title: "Hamlet", Year: "1990"},
	}}, AssembleOptions{Limit: 10})
	assert.Len(t, got, 1)
}

func TestAssemble_DropsUntitled(t *testing.T) {
	got := Assemble([][]media.Item{{{ID: "1"}, {ID: "2", Title: "Heat"}}}, AssembleOptions{Limit: 6})
	require.Len(t, got, 1)
	assert.Equal(t, "Heat", got[0].Title)
}

func TestAssemble_Exclude(t *testing.T) {
	src := items(4, false)
	src[0].Genre = []string{"Horror"}
	got := Assemble([][]media.Item{src}, AssembleOptions{
		Limit:   6,
		Exclude: func(it media.Item) bool { return len(it.Genre) > 0 },
	})
	assert.Len(t, got, 3)
}

func TestAssemble_StrictThemePriority(t *testing.T) {
	src := append(items(5, false), items(3, true)...)

	for seed := int64(0); seed < 20; seed++ {
		got := Assemble([][]media.Item{src}, AssembleOptions{
			Limit:  6,
			Policy: StrictThemePriority,
			Rand:   catalog.NewSeededRandomizer(seed),
		})
		require.Len(t, got, 6)
		for i := 0; i < 3; i++ {
			assert.True(t, got[i].HasTheme(), "seed %d position %d should be themed", seed, i)
		}
		for i := 3; i < 6; i++ {
			assert.False(t, got[i].HasTheme(), "seed %d position %d should be unthemed", seed, i)
		}
	}
}

func TestAssemble_NormalizesAndReturnsEmptySlice(t *testing.T) {
	got := Assemble(nil, AssembleOptions{Limit: 6})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = Assemble([][]media.Item{{{Title: "Heat"}}}, AssembleOptions{Limit: 6})
	require.Len(t, got, 1)
	assert.Equal(t, media.UnknownYear, got[0].Year)
	assert.Equal(t, media.PosterPlaceholder, got[0].Poster)
}

func TestAssemble_DoesNotShareInputSlices(t *testing.T) {
	src := []media.Item{{Title: "Heat", Genre: []string{"Crime"}}}
	got := Assemble([][]media.Item{src}, AssembleOptions{Limit: 6})
	got[0].Genre[0] = "changed"
	assert.Equal(t, "Crime", src[0].Genre[0])
}

func TestParseOrderingPolicy(t *testing.T) {
	p, err := ParseOrderingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Randomized, p)

	p, err = ParseOrderingPolicy("Strict-Theme-Priority")
	require.NoError(t, err)
	assert.Equal(t, StrictThemePriority, p)

	_, err = ParseOrderingPolicy("alphabetical")
	assert.Error(t, err)
}
