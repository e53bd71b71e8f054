package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorwalk/pkg/cache"
	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/ingest"
	fwio "github.com/matzehuels/floorwalk/pkg/io"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/observability"
	"github.com/matzehuels/floorwalk/pkg/route"
)

// Runner owns the published graph snapshot and answers queries against it.
// Both CLI and API use it so that caching and reload behave the same.
//
// All methods are safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	opts   Options
	snap   atomic.Pointer[Snapshot]
	reload sync.Mutex
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts Options) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = discardLogger()
	}
	if opts.TTL <= 0 {
		opts.TTL = cache.DefaultTTL
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		opts:   opts,
	}
}

// Reload builds a fresh graph from the configured source and publishes it.
// Concurrent reloads are serialized. On error the previous snapshot stays
// published.
func (r *Runner) Reload(ctx context.Context) (*Snapshot, error) {
	if r.opts.Source == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no floor document source configured")
	}
	r.reload.Lock()
	defer r.reload.Unlock()

	ingOpts := r.opts.Ingest
	if ingOpts.Logger == nil {
		ingOpts.Logger = r.Logger
	}
	g, report, err := ingest.Build(ctx, r.opts.Source, r.opts.Floors, ingOpts)
	if err != nil {
		return nil, err
	}
	return r.Publish(g, report)
}

// Publish makes g the current graph. report may be nil for graphs that were
// not built from floor documents (e.g. an imported JSON export).
func (r *Runner) Publish(g *nav.Graph, report *ingest.Report) (*Snapshot, error) {
	hash, err := fwio.GraphHash(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	opts := append([]route.Option{route.WithLogger(r.Logger)}, r.opts.Route...)
	s := &Snapshot{
		Graph:   g,
		Engine:  route.NewEngine(g, opts...),
		Hash:    hash,
		Report:  report,
		BuiltAt: time.Now(),
	}
	r.snap.Store(s)

	if g.PointCount() == 0 {
		r.Logger.Warn("published an empty graph; every room query will fail")
	}
	r.Logger.Debug("graph published",
		"points", g.PointCount(),
		"connections", g.ConnectionCount(),
		"hash", hash[:12])
	return s, nil
}

// Snapshot returns the current snapshot, or GRAPH_NOT_READY before the first
// successful load.
func (r *Runner) Snapshot() (*Snapshot, error) {
	s := r.snap.Load()
	if s == nil {
		return nil, errors.New(errors.ErrCodeGraphNotReady, "graph has not been loaded")
	}
	return s, nil
}

// FindPathWithCacheInfo resolves a room-to-room route and reports whether it
// came from the cache.
func (r *Runner) FindPathWithCacheInfo(ctx context.Context, startName, endName string) (*route.PathResult, bool, error) {
	s, err := r.Snapshot()
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.RouteKey(s.Hash, startName, endName, s.keyOpts())
	return r.query(ctx, KindRoute, key, func() (*route.PathResult, error) {
		return s.Engine.FindPath(startName, endName)
	})
}

// FindPath is a convenience wrapper that discards the cache hit info.
func (r *Runner) FindPath(ctx context.Context, startName, endName string) (*route.PathResult, error) {
	res, _, err := r.FindPathWithCacheInfo(ctx, startName, endName)
	return res, err
}

// FindNearestRestroomWithCacheInfo resolves the cheapest route to a restroom
// of category c and reports whether it came from the cache.
func (r *Runner) FindNearestRestroomWithCacheInfo(ctx context.Context, startName string, c nav.Category) (*route.PathResult, bool, error) {
	s, err := r.Snapshot()
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.RestroomKey(s.Hash, startName, c.String(), s.keyOpts())
	return r.query(ctx, KindRestroom, key, func() (*route.PathResult, error) {
		return s.Engine.NearestRestroom(startName, c)
	})
}

// FindNearestRestroom is a convenience wrapper that discards the cache hit info.
func (r *Runner) FindNearestRestroom(ctx context.Context, startName string, c nav.Category) (*route.PathResult, error) {
	res, _, err := r.FindNearestRestroomWithCacheInfo(ctx, startName, c)
	return res, err
}

// query runs compute behind the cache. Only successful results are stored.
func (r *Runner) query(ctx context.Context, kind, key string, compute func() (*route.PathResult, error)) (*route.PathResult, bool, error) {
	start := time.Now()
	hooks := observability.Query()

	if res, ok := r.cached(ctx, kind, key); ok {
		hooks.OnQuery(ctx, kind, time.Since(start), nil)
		return res, true, nil
	}

	res, err := compute()
	hooks.OnQuery(ctx, kind, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	hooks.OnPathFound(ctx, kind, res.Cost, len(res.Points))

	if data, err := fwio.MarshalPath(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.opts.TTL); err != nil {
			r.Logger.Warn("cache write failed", "kind", kind, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, kind, len(data))
		}
	}
	return res, false, nil
}

func (r *Runner) cached(ctx context.Context, kind, key string) (*route.PathResult, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", kind, "err", err)
		hit = false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	res, err := fwio.UnmarshalPath(data)
	if err != nil {
		// Recompute on a corrupt entry; the write that follows replaces it.
		r.Logger.Debug("discarding unreadable cache entry", "kind", kind, "err", err)
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return res, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
