package recommend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MikeSquared-Agency/moodmatch/internal/analyzer"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/jikan"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

// popularAnimeLimit is the size of the popularity list used as fallback.
const popularAnimeLimit = 25

type animePipeline struct {
	s *Service
}

func (p *animePipeline) search(ctx context.Context, prompt string, attrs analyzer.Attributes) ([]media.Item, bool, error) {
	s := p.s
	query := searchTerms(prompt, attrs, "anime")

	found, err := s.deps.Anime.Search(ctx, query, s.opts.PoolSize)
	if err != nil || len(found) == 0 {
		if err != nil {
			s.logger.Warn("anime search failed, using popular list", "error", err)
		}
		found, err = s.deps.Anime.TopByPopularity(ctx, popularAnimeLimit)
		if err != nil {
			return nil, true, fmt.Errorf("popular anime: %v: %w", err, ErrRecommendationsFailed)
		}
		return p.details(ctx, found), true, nil
	}
	return p.details(ctx, found), false, nil
}

func (p *animePipeline) popular(ctx context.Context) ([]media.Item, error) {
	found, err := p.s.deps.Anime.TopByPopularity(ctx, popularAnimeLimit)
	if err != nil {
		return nil, err
	}
	return p.details(ctx, found), nil
}

func (p *animePipeline) details(ctx context.Context, found []jikan.Anime) []media.Item {
	s := p.s
	pool := append([]jikan.Anime(nil), found...)
	s.opts.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > s.opts.PoolSize {
		pool = pool[:s.opts.PoolSize]
	}

	return collect(ctx, s.opts.PoolSize, pool, func(ctx context.Context, a jikan.Anime) (media.Item, error) {
		id := strconv.Itoa(a.ID)
		streaming, err := s.deps.Anime.Streaming(ctx, id)
		if err != nil {
			s.dropped(media.Anime, id, err)
			return media.Item{}, err
		}
		it := a.Item()
		it.Streaming = streaming
		return it, nil
	})
}
