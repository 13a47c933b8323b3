package tmdb

import "strings"

// movieGenres maps lowercase genre names to TMDB movie genre ids.
var movieGenres = map[string]int{
	"action":          28,
	"adventure":       12,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"fantasy":         14,
	"history":         36,
	"horror":          27,
	"music":           10402,
	"mystery":         9648,
	"romance":         10749,
	"science fiction": 878,
	"tv movie":        10770,
	"thriller":        53,
	"war":             10752,
	"western":         37,
}

// tvGenreNames is the TMDB TV genre table.
var tvGenreNames = map[int]string{
	10759: "Action & Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	10762: "Kids",
	9648:  "Mystery",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
	37:    "Western",
}

var tvGenres = map[string]int{
	"action":          10759,
	"adventure":       10759,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"kids":            10762,
	"mystery":         9648,
	"news":            10763,
	"reality":         10764,
	"science fiction": 10765,
	"fantasy":         10765,
	"soap":            10766,
	"talk":            10767,
	"war":             10768,
	"politics":        10768,
	"western":         37,
}

// genreAliases expands informal genre names into canonical ones.
var genreAliases = map[string][]string{
	"romantic comedy":  {"romance", "comedy"},
	"rom com":          {"romance", "comedy"},
	"romcom":           {"romance", "comedy"},
	"rom-com":          {"romance", "comedy"},
	"sci-fi":           {"science fiction"},
	"scifi":            {"science fiction"},
	"sci fi":           {"science fiction"},
	"anime":            {"animation"},
	"animated":         {"animation"},
	"cartoon":          {"animation"},
	"funny":            {"comedy"},
	"scary":            {"horror"},
	"romantic":         {"romance"},
	"suspense":         {"thriller"},
	"historical":       {"history"},
	"musical":          {"music"},
	"docuseries":       {"documentary"},
	"action adventure": {"action", "adventure"},
	"sitcom":           {"comedy"},
}

// MovieGenreIDs resolves genre names to TMDB movie genre ids. Unknown names
// are skipped.
func MovieGenreIDs(names []string) []int {
	return genreIDs(names, movieGenres)
}

// TVGenreIDs resolves genre names to TMDB TV genre ids.
func TVGenreIDs(names []string) []int {
	return genreIDs(names, tvGenres)
}

// TVGenreName returns the display name of a TMDB TV genre id.
func TVGenreName(id int) (string, bool) {
	name, ok := tvGenreNames[id]
	return name, ok
}

func genreIDs(names []string, table map[string]int) []int {
	seen := make(map[int]bool)
	var out []int
	add := func(name string) {
		if id, ok := table[name]; ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if expanded, ok := genreAliases[key]; ok {
			for _, e := range expanded {
				add(e)
			}
			continue
		}
		add(key)
	}
	return out
}

var movieGenreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// MovieGenreName returns the display name of a TMDB movie genre id.
func MovieGenreName(id int) (string, bool) {
	name, ok := movieGenreNames[id]
	return name, ok
}
