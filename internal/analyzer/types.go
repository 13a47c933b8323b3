package analyzer

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Attributes is the validated structured reading of a prompt.
type Attributes struct {
	Genre              []string `json:"genre" validate:"max=8,dive,required,max=64"`
	ContentType        string   `json:"contentType,omitempty" validate:"omitempty,oneof=movie show anime both"`
	Tone               []string `json:"tone" validate:"max=8,dive,required,max=64"`
	Year               string   `json:"year,omitempty" validate:"omitempty,yearspec"`
	Keywords           []string `json:"keywords" validate:"max=12,dive,required,max=80"`
	Themes             []string `json:"themes" validate:"max=8,dive,required,max=64"`
	StreamingPlatforms []string `json:"streamingPlatforms" validate:"max=8,dive,required,max=64"`
}

// IsEmpty reports whether nothing useful was extracted.
func (a Attributes) IsEmpty() bool {
	return len(a.Genre) == 0 && len(a.Tone) == 0 && a.Year == "" &&
		len(a.Keywords) == 0 && len(a.Themes) == 0 && len(a.StreamingPlatforms) == 0
}

// SearchTerms joins the attributes into a free-text query for catalogs that
// only support full-text search.
func (a Attributes) SearchTerms() string {
	var parts []string
	parts = append(parts, a.Genre...)
	parts = append(parts, a.Keywords...)
	parts = append(parts, a.Themes...)
	return strings.Join(parts, " ")
}

// YearRange resolves Year into an inclusive range. ok is false when no year
// constraint was given or it could not be interpreted.
func (a Attributes) YearRange() (from, to int, ok bool) {
	return parseYearSpec(a.Year)
}

// Analysis is either a successful extraction or a fallback carrying the empty
// attribute set and the reason the extraction was discarded.
type Analysis struct {
	Attributes Attributes
	Fallback   bool
	Reason     string
}

// Ok reports whether the attributes came from a valid LLM response.
func (a Analysis) Ok() bool { return !a.Fallback }

func fallback(reason string) Analysis {
	return Analysis{Fallback: true, Reason: reason}
}

// llmResponse is the tolerant wire shape. Older prompt variants used "mood",
// "tones" or "searchQuery"; they are folded into the canonical fields.
type llmResponse struct {
	Genre              stringList `json:"genre"`
	Genres             stringList `json:"genres"`
	ContentType        string     `json:"contentType"`
	Tone               stringList `json:"tone"`
	Tones              stringList `json:"tones"`
	Mood               stringList `json:"mood"`
	Year               flexString `json:"year"`
	Keywords           stringList `json:"keywords"`
	Themes             stringList `json:"themes"`
	StreamingPlatforms stringList `json:"streamingPlatforms"`
	SearchQuery        string     `json:"searchQuery"`
}

func (r llmResponse) attributes() Attributes {
	keywords := []string(r.Keywords)
	if q := strings.TrimSpace(r.SearchQuery); q != "" {
		keywords = append(keywords, q)
	}
	return Attributes{
		Genre:              dedupe(append(r.Genre, r.Genres...)),
		ContentType:        normalizeContentType(r.ContentType),
		Tone:               dedupe(append(append(r.Tone, r.Tones...), r.Mood...)),
		Year:               normalizeYear(string(r.Year)),
		Keywords:           dedupe(keywords),
		Themes:             dedupe(r.Themes),
		StreamingPlatforms: dedupe(r.StreamingPlatforms),
	}
}

// stringList accepts either a JSON array of strings or a single string.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = splitList(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// flexString accepts a string, a number or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func normalizeContentType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film", "films":
		return "movie"
	case "show", "shows", "tv", "series", "tv show", "tv shows":
		return "show"
	case "anime":
		return "anime"
	case "both", "any", "all":
		return "both"
	case "":
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}

var (
	yearToken = regexp.MustCompile(`\d{4}s?|\d{2}s`)

	spelledDecades = strings.NewReplacer(
		"two thousands", "2000s",
		"noughties", "2000s",
		"aughts", "2000s",
		"twenties", "20s",
		"thirties", "30s",
		"forties", "40s",
		"fifties", "50s",
		"sixties", "60s",
		"seventies", "70s",
		"eighties", "80s",
		"nineties", "90s",
	)
)

// normalizeYear reduces free-form year text ("the late '90s", "1994 classics",
// "1990s to 2000s") to a form parseYearSpec understands: "1994", "1990s" or
// "1990-2009". Text with no recognizable year is returned lowercased so that
// validation rejects it.
func normalizeYear(s string) string {
	s = strings.TrimSpace(spelledDecades.Replace(strings.ToLower(s)))
	tokens := yearToken.FindAllString(s, -1)
	switch len(tokens) {
	case 0:
		return s
	case 1:
		return canonicalYear(tokens[0])
	}
	from, _, _ := parseYearToken(tokens[0])
	_, to, _ := parseYearToken(tokens[len(tokens)-1])
	return strconv.Itoa(from) + "-" + strconv.Itoa(to)
}

// canonicalYear expands a two-digit decade to four digits.
func canonicalYear(tok string) string {
	if len(tok) != 3 {
		return tok
	}
	from, _, _ := parseYearToken(tok)
	return strconv.Itoa(from) + "s"
}

// parseYearSpec accepts a single year or decade, or an inclusive range of
// them joined by "-".
func parseYearSpec(spec string) (from, to int, ok bool) {
	lo, hi, isRange := strings.Cut(spec, "-")
	if !isRange {
		return parseYearToken(spec)
	}
	from, _, okFrom := parseYearToken(lo)
	_, to, okTo := parseYearToken(hi)
	if !okFrom || !okTo || from > to {
		return 0, 0, false
	}
	return from, to, true
}

func parseYearToken(tok string) (from, to int, ok bool) {
	switch {
	case len(tok) == 4 && isDigits(tok):
		y, _ := strconv.Atoi(tok)
		return y, y, true
	case len(tok) == 5 && tok[4] == 's' && isDigits(tok[:4]):
		y, _ := strconv.Atoi(tok[:4])
		y -= y % 10
		return y, y + 9, true
	case len(tok) == 3 && tok[2] == 's' && isDigits(tok[:2]):
		d, _ := strconv.Atoi(tok[:2])
		d -= d % 10
		century := 1900
		if d <= 20 {
			century = 2000
		}
		return century + d, century + d + 9, true
	}
	return 0, 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
