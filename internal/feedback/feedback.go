// Package feedback translates like, dislike and info actions on a shown item
// into follow-up prompts, exclusion rules and info summaries.
package feedback

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/MikeSquared-Agency/moodmatch/internal/media"
	"github.com/MikeSquared-Agency/moodmatch/internal/refinement"
)

type Action string

const (
	Like    Action = "like"
	Dislike Action = "dislike"
	Info    Action = "info"
)

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case Like, Dislike, Info:
		return a, nil
	}
	return "", fmt.Errorf("unknown feedback action %q", s)
}

// Fragment returns the prompt fragment for an action on item.
func Fragment(action Action, item media.Item) string {
	title := strings.TrimSpace(item.Title)
	switch action {
	case Like:
		if len(item.Genre) > 0 {
			return fmt.Sprintf("more like %s %s", title, strings.ToLower(strings.Join(item.Genre, " ")))
		}
		return "more like " + title
	case Dislike:
		return "different from " + title
	case Info:
		return fmt.Sprintf("similar to %s but with different themes", title)
	}
	return ""
}

// ToPrompt builds the next prompt, chained onto prior when there is one.
func ToPrompt(action Action, item media.Item, prior string) string {
	return refinement.Apply(prior, Fragment(action, item))
}

// stopTokens never count as a shared genre.
var stopTokens = map[string]bool{"and": true, "tv": true, "the": true, "of": true}

func genreTokens(genres []string) map[string]bool {
	tokens := make(map[string]bool)
	for _, g := range genres {
		words := strings.FieldsFunc(strings.ToLower(g), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			if !stopTokens[w] {
				tokens[w] = true
			}
		}
	}
	return tokens
}

// Excluder returns a predicate rejecting the disliked item itself and any
// item sharing a genre word with it.
func Excluder(disliked media.Item) func(media.Item) bool {
	tokens := genreTokens(disliked.Genre)
	title := strings.ToLower(strings.TrimSpace(disliked.Title))

	return func(it media.Item) bool {
		if strings.ToLower(strings.TrimSpace(it.Title)) == title {
			return true
		}
		for tok := range genreTokens(it.Genre) {
			if tokens[tok] {
				return true
			}
		}
		return false
	}
}

// InfoSummary is the locally built detail view for an item.
type InfoSummary struct {
	Title     string         `json:"title"`
	Year      string         `json:"year"`
	Synopsis  string         `json:"synopsis"`
	Genres    []string       `json:"genres"`
	Themes    []string       `json:"themes"`
	Tones     []string       `json:"tones"`
	Streaming []string       `json:"streaming"`
	Ratings   []media.Rating `json:"ratings,omitempty"`
	Text      string         `json:"text"`
}

// Summarize builds the info view from the item alone.
func Summarize(item media.Item) InfoSummary {
	it := item.Clone().Normalize()
	s := InfoSummary{
		Title:     it.Title,
		Year:      it.Year,
		Synopsis:  it.Synopsis,
		Genres:    it.Genre,
		Themes:    it.Theme,
		Tones:     it.Tone,
		Streaming: it.Streaming,
		Ratings:   it.Ratings,
	}

	var b strings.Builder
	b.WriteString(it.Synopsis)
	writeList(&b, "Genres", it.Genre)
	writeList(&b, "Themes", it.Theme)
	writeList(&b, "Tone", it.Tone)
	s.Text = b.String()
	return s
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "\n\n%s: %s", label, strings.Join(values, ", "))
}
