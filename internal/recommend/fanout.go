package recommend

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// collect runs fn over in with at most limit calls in flight and returns the
// successful results in input order. Failed calls are dropped; collect waits
// for every call before returning.
func collect[T, R any](ctx context.Context, limit int, in []T, fn func(context.Context, T) (R, error)) []R {
	results := make([]R, len(in))
	ok := make([]bool, len(in))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, v := range in {
		g.Go(func() error {
			r, err := fn(gctx, v)
			if err != nil {
				return nil
			}
			results[i] = r
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]R, 0, len(in))
	for i, r := range results {
		if ok[i] {
			out = append(out, r)
		}
	}
	return out
}
