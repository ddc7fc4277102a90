package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/routekit/pkg/auth"
	"github.com/dmitrymomot/routekit/pkg/cache"
)

// loaderRunner invokes the loaders of a match, optionally through a cache.
type loaderRunner struct {
	cache   *cache.Loader[any]
	timeout time.Duration
	metrics *Metrics
}

// run calls each loader on the chain, root first, and stores results in m.
// The first error aborts the rest.
func (lr *loaderRunner) run(ctx context.Context, m *Match, params map[string]string, state auth.State) error {
	for _, r := range m.Routes {
		if r.loader == nil {
			continue
		}
		args := LoaderArgs{
			RouteID: r.ID(),
			Search:  m.Search[r.ID()].Clone(),
			Params:  params,
			Auth:    state,
		}
		data, err := lr.load(ctx, r, args)
		if err != nil {
			return fmt.Errorf("loader %s: %w", r.ID(), err)
		}
		m.LoaderData[r.ID()] = data
	}
	return nil
}

func (lr *loaderRunner) load(ctx context.Context, r *Route, args LoaderArgs) (any, error) {
	call := func(ctx context.Context) (any, error) {
		if lr.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, lr.timeout)
			defer cancel()
		}
		start := time.Now()
		data, err := r.loader(ctx, args)
		lr.metrics.loaderRun(r.ID(), time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			return nil, errors.Join(ErrLoaderTimeout, err)
		}
		return data, err
	}

	if lr.cache == nil {
		return call(ctx)
	}

	hit := true
	data, err := lr.cache.Get(ctx, loaderKey(args), func(ctx context.Context) (any, error) {
		hit = false
		return call(ctx)
	})
	lr.metrics.loaderCache(r.ID(), hit)
	return data, err
}

// loaderKey identifies a load by route, canonical search and user.
func loaderKey(args LoaderArgs) string {
	return args.RouteID + "?" + args.Search.Encode() + "#" + string(args.Auth.Status) + ":" + args.Auth.Username
}
