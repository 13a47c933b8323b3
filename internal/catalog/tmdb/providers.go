package tmdb

import "github.com/MikeSquared-Agency/moodmatch/internal/catalog"

// providerIDs maps platform display names to TMDB watch provider ids (US).
var providerIDs = map[string]int{
	"Netflix":     8,
	"Prime Video": 9,
	"Disney+":     337,
	"Hulu":        15,
	"HBO Max":     1899,
	"Apple TV+":   350,
	"Paramount+":  531,
	"Peacock":     386,
	"Crunchyroll": 283,
	"Tubi":        73,
}

// ProviderIDs resolves platform names in any common spelling to watch
// provider ids. Unknown platforms are skipped.
func ProviderIDs(platforms []string) []int {
	var out []int
	for _, name := range catalog.DisplayPlatforms(platforms) {
		if id, ok := providerIDs[name]; ok {
			out = append(out, id)
		}
	}
	return out
}
