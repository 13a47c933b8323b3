// Package recommend turns a prompt into a small, varied set of media items.
// Each media type has its own pipeline (analysis, catalog search with a single
// popular-list fallback, concurrent detail lookup) feeding the shared
// assembler.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/moodmatch/internal/analyzer"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/jikan"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/omdb"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/tmdb"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
	"github.com/MikeSquared-Agency/moodmatch/internal/metrics"
)

var (
	// ErrEmptyPrompt is returned for blank prompts before any network call.
	ErrEmptyPrompt = errors.New("please provide a prompt")
	// ErrRecommendationsFailed is returned when the fallback query fails too.
	ErrRecommendationsFailed = errors.New("failed to get recommendations")
)

// PromptAnalyzer extracts attributes from a prompt.
type PromptAnalyzer interface {
	Analyze(ctx context.Context, prompt string) analyzer.Analysis
}

type MovieCatalog interface {
	DiscoverMovies(ctx context.Context, d tmdb.Discover) ([]catalog.Candidate, error)
	PopularMovies(ctx context.Context, page int) ([]catalog.Candidate, error)
	SearchKeywordID(ctx context.Context, name string) (int, error)
	MovieDetails(ctx context.Context, id string) (*tmdb.Details, error)
}

type ShowCatalog interface {
	DiscoverTV(ctx context.Context, d tmdb.Discover) ([]catalog.Candidate, error)
	SearchTV(ctx context.Context, query string) ([]catalog.Candidate, error)
	PopularTV(ctx context.Context, page int) ([]catalog.Candidate, error)
	TVDetails(ctx context.Context, id string) (*tmdb.Details, error)
}

// ShowSearcher is a secondary free-text TV source.
type ShowSearcher interface {
	SearchShows(ctx context.Context, query string) ([]catalog.Candidate, error)
}

type AnimeCatalog interface {
	Search(ctx context.Context, query string, limit int) ([]jikan.Anime, error)
	TopByPopularity(ctx context.Context, limit int) ([]jikan.Anime, error)
	Streaming(ctx context.Context, id string) ([]string, error)
}

// Enricher adds secondary metadata; failures never drop an item.
type Enricher interface {
	Enabled() bool
	Lookup(ctx context.Context, title, year string, kind omdb.Kind) (*omdb.Record, error)
}

// Deps are the collaborators of a Service. TVMaze and Enricher may be nil.
type Deps struct {
	Analyzer PromptAnalyzer
	Movies   MovieCatalog
	Shows    ShowCatalog
	TVMaze   ShowSearcher
	Anime    AnimeCatalog
	Enricher Enricher
}

// Options tune result size and variety.
type Options struct {
	Limit    int
	PoolSize int
	MaxPage  int
	Policy   OrderingPolicy
	Rand     catalog.Randomizer
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = 6
	}
	if o.PoolSize <= 0 {
		o.PoolSize = 10
	}
	if o.MaxPage <= 0 {
		o.MaxPage = 5
	}
	if o.Policy == "" {
		o.Policy = Randomized
	}
	if o.Rand == nil {
		o.Rand = catalog.NewRandomizer()
	}
	return o
}

type Service struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

func NewService(deps Deps, opts Options, logger *slog.Logger) *Service {
	return &Service{deps: deps, opts: opts.withDefaults(), logger: logger}
}

// Request is one recommendation search.
type Request struct {
	Prompt    string
	MediaType media.Type
	// Exclude rejects items before ordering. When it empties the result set
	// the popular list is filtered instead.
	Exclude func(media.Item) bool
}

// Result is the outcome of a search. Blocked results carry no items.
type Result struct {
	Items            []media.Item
	Blocked          bool
	FallbackUsed     bool
	AnalyzerFallback bool
	Attributes       analyzer.Attributes
}

// Empty reports whether the search produced nothing to show.
func (r *Result) Empty() bool {
	return len(r.Items) == 0
}

// Recommend runs the pipeline for req.MediaType.
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if catalog.ContainsBannedTerm(prompt) {
		s.logger.Info("blocked prompt", "media_type", req.MediaType)
		return &Result{Blocked: true, Items: []media.Item{}}, nil
	}

	analysis := s.deps.Analyzer.Analyze(ctx, prompt)
	if !analysis.Ok() {
		metrics.AnalyzerFallbacks.Inc()
		s.logger.Info("using unfiltered search", "media_type", req.MediaType, "reason", analysis.Reason)
	}

	p, err := s.pipeline(req.MediaType)
	if err != nil {
		return nil, err
	}

	pool, fallbackUsed, err := p.search(ctx, prompt, analysis.Attributes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.MediaType, err)
	}
	if fallbackUsed {
		metrics.CatalogFallbacks.WithLabelValues(string(req.MediaType)).Inc()
	}

	items := Assemble([][]media.Item{pool}, s.assembleOptions(req.Exclude))
	if len(items) == 0 && req.Exclude != nil {
		popular, err := p.popular(ctx)
		if err != nil {
			s.logger.Warn("popular list for exclusion failed", "media_type", req.MediaType, "error", err)
		} else {
			items = Assemble([][]media.Item{popular}, s.assembleOptions(req.Exclude))
			fallbackUsed = true
		}
	}

	s.logger.Info("recommendations assembled",
		"media_type", req.MediaType,
		"pool", len(pool),
		"items", len(items),
		"fallback_used", fallbackUsed,
		"analyzer_fallback", !analysis.Ok(),
	)

	return &Result{
		Items:            items,
		FallbackUsed:     fallbackUsed,
		AnalyzerFallback: !analysis.Ok(),
		Attributes:       analysis.Attributes,
	}, nil
}

// pipeline is the per-media-type search strategy.
type pipeline interface {
	// search returns detailed items and whether the fallback list was used.
	search(ctx context.Context, prompt string, attrs analyzer.Attributes) ([]media.Item, bool, error)
	// popular returns detailed items from the unfiltered popular list.
	popular(ctx context.Context) ([]media.Item, error)
}

func (s *Service) pipeline(t media.Type) (pipeline, error) {
	switch t {
	case media.Movie, "":
		if s.deps.Movies == nil {
			return nil, fmt.Errorf("movie catalog not configured: %w", ErrRecommendationsFailed)
		}
		return &moviePipeline{s: s}, nil
	case media.Show:
		if s.deps.Shows == nil {
			return nil, fmt.Errorf("show catalog not configured: %w", ErrRecommendationsFailed)
		}
		return &showPipeline{s: s}, nil
	case media.Anime:
		if s.deps.Anime == nil {
			return nil, fmt.Errorf("anime catalog not configured: %w", ErrRecommendationsFailed)
		}
		return &animePipeline{s: s}, nil
	}
	return nil, fmt.Errorf("unknown media type %q", t)
}

func (s *Service) assembleOptions(exclude func(media.Item) bool) AssembleOptions {
	return AssembleOptions{
		Limit:   s.opts.Limit,
		Policy:  s.opts.Policy,
		Exclude: exclude,
		Rand:    s.opts.Rand,
	}
}

// candidatePool shuffles cands and keeps at most PoolSize of them.
func (s *Service) candidatePool(cands []catalog.Candidate) []catalog.Candidate {
	pool := append([]catalog.Candidate(nil), cands...)
	s.opts.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > s.opts.PoolSize {
		pool = pool[:s.opts.PoolSize]
	}
	return pool
}

// enrich applies OMDB metadata when configured. Errors are logged only.
func (s *Service) enrich(ctx context.Context, it media.Item, kind omdb.Kind) media.Item {
	if s.deps.Enricher == nil || !s.deps.Enricher.Enabled() {
		return it
	}
	rec, err := s.deps.Enricher.Lookup(ctx, it.Title, it.Year, kind)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			s.logger.Debug("omdb enrichment failed", "title", it.Title, "error", err)
		}
		return it
	}
	return rec.Enrich(it)
}

func (s *Service) dropped(t media.Type, id string, err error) {
	metrics.DetailsDropped.WithLabelValues(string(t)).Inc()
	s.logger.Warn("dropping candidate", "media_type", t, "id", id, "error", err)
}

// searchTerms builds a free-text query from attributes, falling back to the
// raw prompt when the analysis produced nothing usable.
func searchTerms(prompt string, attrs analyzer.Attributes, skip ...string) string {
	drop := make(map[string]bool, len(skip))
	for _, s := range skip {
		drop[s] = true
	}
	var parts []string
	for _, p := range strings.Fields(attrs.SearchTerms()) {
		if !drop[strings.ToLower(p)] {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return prompt
	}
	return strings.Join(parts, " ")
}
