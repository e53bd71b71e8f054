// Package pipeline provides the runtime core shared by the CLI and the HTTP
// server.
//
// A [Runner] builds the navigation graph from the floor documents, publishes
// it as an immutable [Snapshot] and answers route queries against the current
// snapshot with a result cache in front of the engine. [Runner.Reload]
// rebuilds the graph and swaps the snapshot atomically: queries already in
// flight finish on the snapshot they started with.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger, pipeline.Options{
//	    Source: src,
//	    Floors: []int{1, 2, 3, 4, 5},
//	})
//	if _, err := runner.Reload(ctx); err != nil {
//	    return err
//	}
//	res, err := runner.FindPath(ctx, "101", "Lobby")
//
// Graph exports in every supported format go through [Export]:
//
//	svg, err := pipeline.Export(ctx, snap.Graph, pipeline.FormatSVG, pipeline.ExportOptions{Route: res})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorwalk/pkg/cache"
	"github.com/matzehuels/floorwalk/pkg/ingest"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/route"
	"github.com/matzehuels/floorwalk/pkg/source"
)

// Format constants for graph exports.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// Query kinds, used for cache key types and hook labels.
const (
	KindRoute    = "route"
	KindRestroom = "restroom"
)

// Options configures graph building and querying.
type Options struct {
	// Source provides the floor documents.
	Source source.Source
	// Floors lists the floors to read.
	Floors []int
	// Ingest configures parsing. A nil Ingest.Logger inherits the runner's.
	Ingest ingest.Options
	// Route configures the engine of every published snapshot.
	Route []route.Option
	// TTL bounds cached query results. Zero means cache.DefaultTTL.
	TTL time.Duration
}

// Snapshot is one published graph together with the engine that queries it.
// Snapshots are immutable.
type Snapshot struct {
	Graph  *nav.Graph
	Engine *route.Engine
	// Hash identifies the graph content; cache keys embed it.
	Hash    string
	Report  *ingest.Report
	BuiltAt time.Time
}

// keyOpts returns the routing policy that cached results depend on.
func (s *Snapshot) keyOpts() cache.PolicyKeyOpts {
	o := s.Engine.Options()
	return cache.PolicyKeyOpts{
		FloorPenalty:    o.FloorPenalty,
		CandidateWindow: o.CandidateWindow,
		MinFloor:        o.MinFloor,
		MaxFloor:        o.MaxFloor,
	}
}

// Stats summarizes a snapshot for logs and status endpoints.
type Stats struct {
	Points      int
	Connections int
	Floors      []int
	Skipped     []int
	Issues      int
	Duration    time.Duration
}

// Stats returns the snapshot summary.
func (s *Snapshot) Stats() Stats {
	st := Stats{
		Points:      s.Graph.PointCount(),
		Connections: s.Graph.ConnectionCount(),
		Floors:      s.Graph.Floors(),
	}
	if s.Report != nil {
		st.Skipped = s.Report.Skipped()
		st.Issues = s.Report.IssueCount()
		st.Duration = s.Report.Duration
	}
	return st
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
