package feedback

import (
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

func TestParseAction(t *testing.T) {
	for _, in := range []string{"like", "DISLIKE", " info "} {
		if _, err := ParseAction(in); err != nil {
			t.Errorf("ParseAction(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseAction("save"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestToPrompt(t *testing.T) {
	heat := media.Item{Title: "Heat", Genre: []string{"Crime", "Drama"}}

	tests := []struct {
		name   string
		action Action
		item   media.Item
		prior  string
		want   string
	}{
		{"like with genres", Like, heat, "", "more like Heat crime drama"},
		{"like without genres", Like, media.Item{Title: "Heat"}, "", "more like Heat"},
		{"dislike", Dislike, heat, "", "different from Heat"},
		{"info", Info, heat, "", "similar to Heat but with different themes"},
		{"chained", Dislike, heat, "90s crime movies", "90s crime movies different from Heat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPrompt(tt.action, tt.item, tt.prior)
			if got != tt.want {
				t.Errorf("ToPrompt() = %q, want %q", got, tt.want)
			}
			if !strings.Contains(got, tt.item.Title) {
				t.Errorf("prompt %q does not mention %q", got, tt.item.Title)
			}
		})
	}
}

func TestExcluder(t *testing.T) {
	disliked := media.Item{Title: "Naruto", Genre: []string{"Action", "Sci-Fi & Fantasy"}}
	exclude := Excluder(disliked)

	tests := []struct {
		name string
		item media.Item
		want bool
	}{
		{"same title", media.Item{Title: "naruto"}, true},
		{"shares action", media.Item{Title: "Bleach", Genre: []string{"action"}}, true},
		{"shares fantasy word", media.Item{Title: "Frieren", Genre: []string{"Fantasy"}}, true},
		{"no overlap", media.Item{Title: "Toradora!", Genre: []string{"Romance", "Comedy"}}, false},
		{"unrelated compound genre", media.Item{Title: "Succession", Genre: []string{"War & Politics"}}, false},
		{"no genres", media.Item{Title: "Mystery Box"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exclude(tt.item); got != tt.want {
				t.Errorf("exclude(%v) = %v, want %v", tt.item.Genre, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(media.Item{
		Title:    "Frieren",
		Synopsis: "An elf mage outlives her party.",
		Genre:    []string{"Adventure", "Fantasy"},
		Theme:    []string{"Mythology"},
		Tone:     []string{"PG-13 - Teens 13 or older"},
	})

	want := "An elf mage outlives her party.\n\nGenres: Adventure, Fantasy\n\nThemes: Mythology\n\nTone: PG-13 - Teens 13 or older"
	if s.Text != want {
		t.Errorf("Text = %q, want %q", s.Text, want)
	}
	if s.Year != media.UnknownYear {
		t.Errorf("expected unknown year, got %q", s.Year)
	}
	if s.Streaming == nil {
		t.Error("expected empty streaming list, got nil")
	}
}
