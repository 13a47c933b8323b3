package catalog

import (
	"strings"
	"unicode"
)

// platformNames maps compact lowercase spellings to display names.
var platformNames = map[string]string{
	"netflix":          "Netflix",
	"hulu":             "Hulu",
	"amazon":           "Prime Video",
	"prime":            "Prime Video",
	"primevideo":       "Prime Video",
	"amazonprime":      "Prime Video",
	"amazonprimevideo": "Prime Video",
	"disney":           "Disney+",
	"disney+":          "Disney+",
	"disneyplus":       "Disney+",
	"hbo":              "HBO Max",
	"hbomax":           "HBO Max",
	"max":              "HBO Max",
	"apple":            "Apple TV+",
	"appletv":          "Apple TV+",
	"appletv+":         "Apple TV+",
	"appletvplus":      "Apple TV+",
	"paramount":        "Paramount+",
	"paramount+":       "Paramount+",
	"paramountplus":    "Paramount+",
	"peacock":          "Peacock",
	"peacockpremium":   "Peacock",
	"crunchyroll":      "Crunchyroll",
	"tubi":             "Tubi",
	"tubitv":           "Tubi",
}

func platformKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DisplayPlatform returns the display name for a platform spelling. Unknown
// platforms are returned trimmed but otherwise unchanged.
func DisplayPlatform(name string) string {
	if display, ok := platformNames[platformKey(name)]; ok {
		return display
	}
	return strings.TrimSpace(name)
}

// DisplayPlatforms normalizes and dedups a list of platform names.
func DisplayPlatforms(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		d := DisplayPlatform(n)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
