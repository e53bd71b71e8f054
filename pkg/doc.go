// Package pkg provides the core libraries for floorwalk indoor navigation.
//
// # Overview
//
// Floorwalk turns one vector drawing per floor into a navigation graph and
// answers route questions on it. The pkg directory is organized by stage:
//
//  1. [source] - Where floor drawings come from (directory, in-memory)
//  2. [ingest] - SVG parsing, endpoint snapping, staircase linking
//  3. [nav] - Points, connections and the immutable graph
//  4. [route] - Dijkstra engine, floor penalty, nearest restroom
//  5. [pipeline] - Orchestration (build → publish → cached queries)
//  6. [io] - JSON graph exports and route bodies
//  7. [render] - DOT, SVG, PNG and PDF diagrams
//
// Supporting packages: [cache] (file, Redis), [history] (memory, MongoDB),
// [config] (TOML), [errors] (error codes and input validation),
// [observability] (hooks for metrics) and [buildinfo].
//
// # Architecture
//
// The typical data flow:
//
//	floor_1.svg … floor_n.svg
//	         ↓
//	    [ingest] package (markers → points, lines → connections)
//	         ↓
//	    [nav] package (validated graph, cross-floor stairs links)
//	         ↓
//	    [route] package (shortest path, restroom resolution)
//	         ↓
//	    route JSON, terminal output, diagrams
//
// # Quick Start
//
//	src, _ := source.NewDir("./floors", source.DefaultPattern)
//	g, report, err := ingest.Build(ctx, src, []int{1, 2, 3}, ingest.Options{})
//	if err != nil {
//	    return err
//	}
//	if skipped := report.Skipped(); len(skipped) > 0 {
//	    log.Warn("floors skipped", "floors", skipped)
//	}
//
//	engine := route.NewEngine(g, route.WithFloorPenalty(50))
//	res, err := engine.FindPath("101", "204")
//	switch {
//	case errors.Is(err, errors.ErrCodeRoomNotFound):
//	    // unknown room name
//	case errors.Is(err, errors.ErrCodeNoPathFound):
//	    // both rooms exist but are not connected
//	}
//
// Long-running processes use [pipeline.Runner] instead, which caches results
// and swaps in rebuilt graphs without blocking queries.
package pkg
