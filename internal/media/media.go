// Package media defines the presentation-ready recommendation record shared by
// every catalog pipeline.
package media

import (
	"fmt"
	"strings"
)

// Type identifies which catalog pipeline produced an item.
type Type string

const (
	Movie Type = "movie"
	Show  Type = "show"
	Anime Type = "anime"
)

// ParseType accepts the API spellings of a media type. The web client sends
// "tvshow" for the TV tab, so that alias is accepted too.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "movie", "movies":
		return Movie, nil
	case "show", "shows", "tv", "tvshow":
		return Show, nil
	case "anime":
		return Anime, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// UnknownYear is shown when a catalog has no release date.
const UnknownYear = "N/A"

// PosterPlaceholder is used when a catalog has no artwork for an item.
const PosterPlaceholder = "https://via.placeholder.com/500x750?text=No+Poster"

// Rating is a single third-party score, e.g. {"Rotten Tomatoes", "92%"}.
type Rating struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// Item is a normalized recommendation. Streaming always holds display names.
type Item struct {
	ID        string   `json:"id,omitempty"`
	Source    string   `json:"source,omitempty"`
	Title     string   `json:"title" validate:"required"`
	Year      string   `json:"year"`
	Poster    string   `json:"poster"`
	Synopsis  string   `json:"synopsis"`
	Genre     []string `json:"genre"`
	Tone      []string `json:"tone"`
	Theme     []string `json:"theme"`
	Streaming []string `json:"streaming"`
	Type      Type     `json:"type"`

	Ratings   []Rating `json:"ratings,omitempty"`
	Runtime   string   `json:"runtime,omitempty"`
	Director  string   `json:"director,omitempty"`
	Cast      []string `json:"cast,omitempty"`
	Awards    string   `json:"awards,omitempty"`
	BoxOffice string   `json:"box_office,omitempty"`
	Tagline   string   `json:"tagline,omitempty"`
	Network   string   `json:"network,omitempty"`
	Score     string   `json:"score,omitempty"`
}

// HasTheme reports whether the item carries at least one theme.
func (it Item) HasTheme() bool {
	return len(it.Theme) > 0
}

// bannedGenre never reaches a caller regardless of which catalog produced it.
const bannedGenre = "hentai"

// IsBanned reports whether any of the item's genres is disallowed.
func (it Item) IsBanned() bool {
	for _, g := range it.Genre {
		if strings.Contains(strings.ToLower(g), bannedGenre) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so that callers can hand items out without sharing
// backing arrays.
func (it Item) Clone() Item {
	out := it
	out.Genre = cloneStrings(it.Genre)
	out.Tone = cloneStrings(it.Tone)
	out.Theme = cloneStrings(it.Theme)
	out.Streaming = cloneStrings(it.Streaming)
	out.Cast = cloneStrings(it.Cast)
	if it.Ratings != nil {
		out.Ratings = append([]Rating(nil), it.Ratings...)
	}
	return out
}

// Normalize fills the presentation defaults (empty lists instead of null,
// placeholder poster, unknown year).
func (it Item) Normalize() Item {
	if it.Year == "" {
		it.Year = UnknownYear
	}
	if it.Poster == "" {
		it.Poster = PosterPlaceholder
	}
	if it.Synopsis == "" {
		it.Synopsis = "No synopsis available"
	}
	if it.Genre == nil {
		it.Genre = []string{}
	}
	if it.Tone == nil {
		it.Tone = []string{}
	}
	if it.Theme == nil {
		it.Theme = []string{}
	}
	if it.Streaming == nil {
		it.Streaming = []string{}
	}
	return it
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
