package recommend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MikeSquared-Agency/moodmatch/internal/analyzer"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/omdb"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/tmdb"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

const (
	maxKeywordLookups = 3
	maxThemes         = 5
)

type moviePipeline struct {
	s *Service
}

func (p *moviePipeline) search(ctx context.Context, prompt string, attrs analyzer.Attributes) ([]media.Item, bool, error) {
	s := p.s
	d := p.discover(ctx, attrs)

	cands, err := s.deps.Movies.DiscoverMovies(ctx, d)
	if err != nil || len(cands) == 0 {
		if err != nil {
			s.logger.Warn("movie discovery failed, using popular list", "error", err)
		}
		cands, err = s.deps.Movies.PopularMovies(ctx, catalog.Page(s.opts.Rand, s.opts.MaxPage))
		if err != nil {
			return nil, true, fmt.Errorf("popular movies: %v: %w", err, ErrRecommendationsFailed)
		}
		return p.details(ctx, cands, attrs), true, nil
	}
	return p.details(ctx, cands, attrs), false, nil
}

func (p *moviePipeline) popular(ctx context.Context) ([]media.Item, error) {
	cands, err := p.s.deps.Movies.PopularMovies(ctx, catalog.Page(p.s.opts.Rand, p.s.opts.MaxPage))
	if err != nil {
		return nil, err
	}
	return p.details(ctx, cands, analyzer.Attributes{}), nil
}

// discover builds the discovery query. Unfiltered queries get a random page
// for variety; filtered queries stay on page 1 so narrow filters still match,
// and vary by sort order instead.
func (p *moviePipeline) discover(ctx context.Context, attrs analyzer.Attributes) tmdb.Discover {
	s := p.s
	d := tmdb.RandomDiscover(s.opts.Rand, s.opts.MaxPage)
	d.GenreIDs = tmdb.MovieGenreIDs(attrs.Genre)
	d.ProviderIDs = tmdb.ProviderIDs(attrs.StreamingPlatforms)
	if from, to, ok := attrs.YearRange(); ok {
		d.YearFrom, d.YearTo = from, to
	}
	d.KeywordIDs = p.keywordIDs(ctx, attrs.Keywords)

	if len(d.GenreIDs) > 0 || len(d.ProviderIDs) > 0 || len(d.KeywordIDs) > 0 || d.YearFrom > 0 {
		d.Page = 1
	}
	return d
}

// keywordIDs resolves a few keywords concurrently. Unresolved keywords are
// skipped.
func (p *moviePipeline) keywordIDs(ctx context.Context, keywords []string) []int {
	if len(keywords) > maxKeywordLookups {
		keywords = keywords[:maxKeywordLookups]
	}
	return collect(ctx, maxKeywordLookups, keywords, p.s.deps.Movies.SearchKeywordID)
}

func (p *moviePipeline) details(ctx context.Context, cands []catalog.Candidate, attrs analyzer.Attributes) []media.Item {
	s := p.s
	return collect(ctx, s.opts.PoolSize, s.candidatePool(cands), func(ctx context.Context, c catalog.Candidate) (media.Item, error) {
		d, err := s.deps.Movies.MovieDetails(ctx, c.ID)
		if err != nil {
			s.dropped(media.Movie, c.ID, err)
			return media.Item{}, err
		}
		return s.enrich(ctx, detailedItem(c, d, attrs, media.Movie), omdb.KindMovie), nil
	})
}

// detailedItem merges a TMDB detail record over its search candidate.
func detailedItem(c catalog.Candidate, d *tmdb.Details, attrs analyzer.Attributes, kind media.Type) media.Item {
	it := c.Item(kind)
	if d.Title != "" {
		it.Title = d.Title
	}
	if d.Year != "" {
		it.Year = d.Year
	}
	if d.Poster != "" {
		it.Poster = d.Poster
	}
	if d.Overview != "" {
		it.Synopsis = d.Overview
	}
	if len(d.Genres) > 0 {
		it.Genre = d.Genres
	}
	if len(d.Providers) > 0 {
		it.Streaming = d.Providers
	}
	it.Theme = d.Keywords
	if len(it.Theme) > maxThemes {
		it.Theme = it.Theme[:maxThemes]
	}
	it.Tone = append([]string(nil), attrs.Tone...)
	it.Cast = d.Cast
	it.Director = d.Director
	it.Runtime = d.Runtime
	it.Tagline = d.Tagline
	if d.Network != "" {
		it.Network = d.Network
	}
	if d.Rating > 0 {
		score := strconv.FormatFloat(d.Rating, 'f', 1, 64)
		it.Score = score
		it.Ratings = []media.Rating{{Source: "TMDB", Value: score + "/10"}}
	}
	return it
}
