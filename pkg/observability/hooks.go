// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about graph ingestion, route queries, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library free of observability frameworks
//   - Allows different backends (Prometheus, OpenTelemetry, ...)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := metrics.New(prometheus.NewRegistry())
//	    observability.SetIngestHooks(m)
//	    observability.SetQueryHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Ingest().OnFloorStart(ctx, floor)
//	// ... parse the floor ...
//	observability.Ingest().OnFloorComplete(ctx, floor, points, conns, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Ingest Hooks
// =============================================================================

// IngestHooks receives events from graph ingestion.
type IngestHooks interface {
	// OnFloorStart records the start of a floor document parse.
	OnFloorStart(ctx context.Context, floor int)
	// OnFloorComplete records a finished floor. err is non-nil when the floor
	// was skipped as unavailable.
	OnFloorComplete(ctx context.Context, floor, points, connections int, duration time.Duration, err error)
	// OnElementSkipped records a malformed or unresolvable element.
	OnElementSkipped(ctx context.Context, floor int, reason string)
	// OnGraphBuilt records a published graph.
	OnGraphBuilt(ctx context.Context, points, connections, floors int, duration time.Duration)
}

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from route queries.
type QueryHooks interface {
	// OnQuery records a finished query. kind is "route" or "restroom"; err
	// carries the outcome code when the query did not produce a path.
	OnQuery(ctx context.Context, kind string, duration time.Duration, err error)
	// OnPathFound records the cost and length of a produced path.
	OnPathFound(ctx context.Context, kind string, cost float64, points int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopIngestHooks is a no-op implementation of IngestHooks.
type NoopIngestHooks struct{}

func (NoopIngestHooks) OnFloorStart(context.Context, int) {}
func (NoopIngestHooks) OnFloorComplete(context.Context, int, int, int, time.Duration, error) {
}
func (NoopIngestHooks) OnElementSkipped(context.Context, int, string)               {}
func (NoopIngestHooks) OnGraphBuilt(context.Context, int, int, int, time.Duration) {}

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnQuery(context.Context, string, time.Duration, error) {}
func (NoopQueryHooks) OnPathFound(context.Context, string, float64, int)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	ingestHooks IngestHooks = NoopIngestHooks{}
	queryHooks  QueryHooks  = NoopQueryHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetIngestHooks registers custom ingestion hooks.
// This should be called once at application startup before any graph is built.
func SetIngestHooks(h IngestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ingestHooks = h
	}
}

// SetQueryHooks registers custom query hooks.
// This should be called once at application startup before any query runs.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Ingest returns the registered ingestion hooks.
func Ingest() IngestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ingestHooks
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	ingestHooks = NoopIngestHooks{}
	queryHooks = NoopQueryHooks{}
	cacheHooks = NoopCacheHooks{}
}
