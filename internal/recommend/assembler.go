package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

// OrderingPolicy decides how themed items and randomness interact.
type OrderingPolicy string

const (
	// Randomized sorts themed items first and then shuffles, so the final
	// order is effectively random.
	Randomized OrderingPolicy = "randomized"
	// StrictThemePriority shuffles first and then stable-sorts by theme, so
	// themed items always precede unthemed ones.
	StrictThemePriority OrderingPolicy = "strict-theme-priority"
)

// ParseOrderingPolicy validates a configured policy name.
func ParseOrderingPolicy(s string) (OrderingPolicy, error) {
	switch p := OrderingPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", Randomized:
		return Randomized, nil
	case StrictThemePriority:
		return StrictThemePriority, nil
	default:
		return "", fmt.Errorf("unknown ordering policy %q", s)
	}
}

// AssembleOptions control Assemble.
type AssembleOptions struct {
	Limit   int
	Policy  OrderingPolicy
	Exclude func(media.Item) bool
	Rand    catalog.Randomizer
}

var validate = validator.New()

// Assemble merges per-source item lists into the final result set: dedup,
// content filter, optional exclusion, ordering and truncation.
func Assemble(sources [][]media.Item, opts AssembleOptions) []media.Item {
	seenID := make(map[string]bool)
	seenTitle := make(map[string]titleClaim)

	var out []media.Item
	for _, src := range sources {
		for _, it := range src {
			if validate.Struct(it) != nil {
				continue
			}
			if it.IsBanned() {
				continue
			}
			if opts.Exclude != nil && opts.Exclude(it) {
				continue
			}

			idKey := ""
			if it.ID != "" {
				idKey = it.Source + ":" + it.ID
			}
			if idKey != "" && seenID[idKey] {
				continue
			}
			key := titleKey(it)
			if claim, ok := seenTitle[key]; ok && !claim.distinct(it) {
				continue
			}
			if idKey != "" {
				seenID[idKey] = true
			}
			if _, ok := seenTitle[key]; !ok {
				seenTitle[key] = titleClaim{source: it.Source, withID: it.ID != ""}
			}

			out = append(out, it.Clone().Normalize())
		}
	}

	order(out, opts.Policy, opts.Rand)

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	if out == nil {
		out = []media.Item{}
	}
	return out
}

// titleClaim records the first item seen under a title|year key.
type titleClaim struct {
	source string
	withID bool
}

// distinct reports whether it is a different work from the claim holder even
// though they share a title and year: both carry ids from the same catalog.
func (c titleClaim) distinct(it media.Item) bool {
	return c.withID && it.ID != "" && c.source == it.Source
}

func titleKey(it media.Item) string {
	year := it.Year
	if year == media.UnknownYear {
		year = ""
	}
	return strings.ToLower(strings.TrimSpace(it.Title)) + "|" + year
}

func order(items []media.Item, policy OrderingPolicy, rnd catalog.Randomizer) {
	byTheme := func() {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].HasTheme() && !items[j].HasTheme()
		})
	}
	shuffle := func() {
		if rnd != nil {
			rnd.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		}
	}

	switch policy {
	case StrictThemePriority:
		shuffle()
		byTheme()
	default:
		byTheme()
		shuffle()
	}
}
