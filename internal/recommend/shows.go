package recommend

import (
	"context"
	"fmt"

	"github.com/MikeSquared-Agency/moodmatch/internal/analyzer"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/omdb"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/tmdb"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

// showPipeline merges TMDB (discovery when genres resolve, title search
// otherwise) with a TVmaze free-text search.
type showPipeline struct {
	s *Service
}

func (p *showPipeline) search(ctx context.Context, prompt string, attrs analyzer.Attributes) ([]media.Item, bool, error) {
	s := p.s
	query := searchTerms(prompt, attrs, "tv", "show", "shows", "series")

	primary, err := p.primary(ctx, query, attrs)
	if err != nil {
		s.logger.Warn("tmdb tv search failed", "error", err)
	}

	var secondary []catalog.Candidate
	if s.deps.TVMaze != nil {
		secondary, err = s.deps.TVMaze.SearchShows(ctx, query)
		if err != nil {
			s.logger.Warn("tvmaze search failed", "error", err)
			secondary = nil
		}
		if len(secondary) > s.opts.Limit {
			secondary = secondary[:s.opts.Limit]
		}
	}

	if len(primary) == 0 && len(secondary) == 0 {
		cands, err := s.deps.Shows.PopularTV(ctx, catalog.Page(s.opts.Rand, s.opts.MaxPage))
		if err != nil {
			return nil, true, fmt.Errorf("popular tv: %v: %w", err, ErrRecommendationsFailed)
		}
		return p.details(ctx, cands, attrs), true, nil
	}

	items := p.details(ctx, primary, attrs)
	items = append(items, p.enrichSecondary(ctx, secondary, attrs)...)
	return items, false, nil
}

// enrichSecondary turns TVmaze hits into items. TVmaze has no keywords, so
// themes come only from OMDB genres.
func (p *showPipeline) enrichSecondary(ctx context.Context, cands []catalog.Candidate, attrs analyzer.Attributes) []media.Item {
	s := p.s
	return collect(ctx, s.opts.PoolSize, cands, func(ctx context.Context, c catalog.Candidate) (media.Item, error) {
		it := c.Item(media.Show)
		it.Tone = append([]string(nil), attrs.Tone...)
		return s.enrich(ctx, it, omdb.KindSeries), nil
	})
}

func (p *showPipeline) primary(ctx context.Context, query string, attrs analyzer.Attributes) ([]catalog.Candidate, error) {
	s := p.s
	genres := tmdb.TVGenreIDs(attrs.Genre)
	if len(genres) == 0 {
		return s.deps.Shows.SearchTV(ctx, query)
	}

	d := tmdb.RandomTVDiscover(s.opts.Rand, s.opts.MaxPage)
	d.Page = 1
	d.GenreIDs = genres
	d.ProviderIDs = tmdb.ProviderIDs(attrs.StreamingPlatforms)
	if from, to, ok := attrs.YearRange(); ok {
		d.YearFrom, d.YearTo = from, to
	}
	return s.deps.Shows.DiscoverTV(ctx, d)
}

func (p *showPipeline) popular(ctx context.Context) ([]media.Item, error) {
	cands, err := p.s.deps.Shows.PopularTV(ctx, catalog.Page(p.s.opts.Rand, p.s.opts.MaxPage))
	if err != nil {
		return nil, err
	}
	return p.details(ctx, cands, analyzer.Attributes{}), nil
}

func (p *showPipeline) details(ctx context.Context, cands []catalog.Candidate, attrs analyzer.Attributes) []media.Item {
	s := p.s
	return collect(ctx, s.opts.PoolSize, s.candidatePool(cands), func(ctx context.Context, c catalog.Candidate) (media.Item, error) {
		d, err := s.deps.Shows.TVDetails(ctx, c.ID)
		if err != nil {
			s.dropped(media.Show, c.ID, err)
			return media.Item{}, err
		}
		it := detailedItem(c, d, attrs, media.Show)
		if len(it.Streaming) == 0 && d.Network != "" {
			it.Streaming = []string{catalog.DisplayPlatform(d.Network)}
		}
		return s.enrich(ctx, it, omdb.KindSeries), nil
	})
}
