// Package refinement holds the quick-refinement options offered under each
// result set. Applying one appends its fragment to the previous prompt.
package refinement

import (
	"strings"

	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

// Option is one quick refinement.
type Option struct {
	Label    string `json:"label"`
	Fragment string `json:"fragment"`
}

// Mapper maps media types to their refinement options.
type Mapper struct {
	mapping map[media.Type][]Option
}

// NewMapper creates a mapper with the built-in options.
func NewMapper() *Mapper {
	return &Mapper{
		mapping: map[media.Type][]Option{
			media.Movie: {
				{Label: "More like this", Fragment: "similar to the current recommendations"},
				{Label: "Funnier", Fragment: "but funnier"},
				{Label: "More action", Fragment: "with more action"},
				{Label: "More dramatic", Fragment: "but more dramatic"},
				{Label: "More romantic", Fragment: "with more romance"},
			},
			media.Show: {
				{Label: "More like this", Fragment: "similar TV shows"},
				{Label: "More dramatic", Fragment: "more dramatic TV shows"},
				{Label: "Funnier", Fragment: "funnier TV shows"},
				{Label: "More action", Fragment: "more action-packed TV shows"},
				{Label: "More suspense", Fragment: "more suspenseful TV shows"},
			},
			media.Anime: {
				{Label: "More like this", Fragment: "similar anime"},
				{Label: "More action", Fragment: "more action anime"},
				{Label: "More dramatic", Fragment: "more dramatic anime"},
				{Label: "More romantic", Fragment: "more romantic anime"},
				{Label: "More fantasy", Fragment: "more fantasy anime"},
			},
		},
	}
}

// Options returns the refinement options for a media type.
func (m *Mapper) Options(t media.Type) []Option {
	opts, exists := m.mapping[t]
	if !exists {
		return []Option{}
	}
	// Return a copy to avoid external modification
	result := make([]Option, len(opts))
	copy(result, opts)
	return result
}

// Apply chains a refinement fragment onto the prior prompt.
func Apply(prior, fragment string) string {
	prior = strings.TrimSpace(prior)
	fragment = strings.TrimSpace(fragment)
	switch {
	case prior == "":
		return fragment
	case fragment == "":
		return prior
	}
	return prior + " " + fragment
}
