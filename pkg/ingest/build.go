package ingest

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/observability"
	"github.com/matzehuels/floorwalk/pkg/source"
)

// ErrDroppedEndpoint is recorded in [Report.Rejected] for a connection whose
// endpoint was rejected on its own floor.
var ErrDroppedEndpoint = stderrors.New("connection endpoint was rejected")

// FloorReport summarizes what one floor contributed.
type FloorReport struct {
	Floor       int
	Points      int
	Connections int
	Duration    time.Duration

	// Err is set when the floor was skipped as a whole (FLOOR_UNAVAILABLE).
	Err error
	// Issues lists elements skipped while parsing the floor.
	Issues []error
}

// Skipped reports whether the floor contributed nothing.
func (f FloorReport) Skipped() bool { return f.Err != nil }

// Report describes a graph build. Nothing in it is fatal; it exists so that
// callers can surface what the drawings got wrong.
type Report struct {
	Floors     []FloorReport
	StairLinks int
	// Rejected lists points and connections the graph refused, typically IDs
	// repeated across floors.
	Rejected []error
	Duration time.Duration
}

// Loaded returns the floors that were read successfully, ascending.
func (r *Report) Loaded() []int {
	var out []int
	for _, f := range r.Floors {
		if !f.Skipped() {
			out = append(out, f.Floor)
		}
	}
	return out
}

// Skipped returns the floors that contributed nothing, ascending.
func (r *Report) Skipped() []int {
	var out []int
	for _, f := range r.Floors {
		if f.Skipped() {
			out = append(out, f.Floor)
		}
	}
	return out
}

// IssueCount returns the number of skipped elements and rejected entries.
func (r *Report) IssueCount() int {
	n := len(r.Rejected)
	for _, f := range r.Floors {
		n += len(f.Issues)
	}
	return n
}

// Build reads every requested floor from src and assembles the navigation
// graph.
//
// Floors are parsed concurrently, bounded by opts.Concurrency, but their
// contributions are merged in ascending floor order so the resulting graph
// is identical for identical inputs. A floor whose document is missing or
// unparsable is skipped and recorded in the report; it never fails the build.
// Stairs are linked across floors once every floor is merged (see
// [LinkStairs]).
//
// The only errors returned are an invalid floor number and context
// cancellation.
func Build(ctx context.Context, src source.Source, floors []int, opts Options) (*nav.Graph, *Report, error) {
	opts.setDefaults()
	start := time.Now()

	floors = slices.Clone(floors)
	slices.Sort(floors)
	floors = slices.Compact(floors)
	for _, f := range floors {
		if err := errors.ValidateFloor(f); err != nil {
			return nil, nil, err
		}
	}

	results := make([]*FloorResult, len(floors))
	reports := make([]FloorReport, len(floors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, floor := range floors {
		g.Go(func() error {
			results[i], reports[i] = readFloor(gctx, src, floor, opts)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	report := &Report{Floors: reports}
	b := nav.NewBuilder()
	for i, res := range results {
		if res == nil {
			continue
		}
		// IDs this floor failed to add still name a point of another floor.
		dropped := make(map[string]struct{})
		for _, p := range res.Points {
			if err := b.AddPoint(p); err != nil {
				dropped[p.ID] = struct{}{}
				report.reject(opts, res.Floor, err)
				reports[i].Points--
			}
		}
		for _, c := range res.Connections {
			_, fromDropped := dropped[c.From]
			_, toDropped := dropped[c.To]
			if fromDropped || toDropped {
				report.reject(opts, res.Floor, fmt.Errorf("%w: %s - %s", ErrDroppedEndpoint, c.From, c.To))
				reports[i].Connections--
				continue
			}
			if err := b.Connect(c); err != nil {
				report.reject(opts, res.Floor, err)
				reports[i].Connections--
			}
		}
	}

	for _, c := range LinkStairs(b.Points(), opts.StairsGroupSuffix) {
		err := b.Connect(c)
		switch {
		case err == nil:
			report.StairLinks++
		case stderrors.Is(err, nav.ErrDuplicateConnection):
			// Already drawn on the sheet.
		default:
			report.reject(opts, 0, err)
		}
	}

	graph := b.Build()
	report.Duration = time.Since(start)
	observability.Ingest().OnGraphBuilt(ctx, graph.PointCount(), graph.ConnectionCount(), len(report.Loaded()), report.Duration)
	opts.Logger.Info("graph built",
		"points", graph.PointCount(),
		"connections", graph.ConnectionCount(),
		"stair_links", report.StairLinks,
		"floors", len(report.Loaded()),
		"skipped", len(report.Skipped()),
		"took", report.Duration.Round(time.Millisecond))
	return graph, report, nil
}

func (r *Report) reject(opts Options, floor int, err error) {
	r.Rejected = append(r.Rejected, err)
	opts.Logger.Warn("rejected by graph", "floor", floor, "err", err)
	observability.Ingest().OnElementSkipped(context.Background(), floor, "rejected")
}

// readFloor parses one floor. The result is nil when the floor was skipped.
func readFloor(ctx context.Context, src source.Source, floor int, opts Options) (*FloorResult, FloorReport) {
	hooks := observability.Ingest()
	hooks.OnFloorStart(ctx, floor)
	start := time.Now()
	rep := FloorReport{Floor: floor}

	finish := func(res *FloorResult, err error) (*FloorResult, FloorReport) {
		rep.Duration = time.Since(start)
		if err != nil {
			rep.Err = err
			opts.Logger.Warn("skipping floor", "floor", floor, "source", src.Name(), "err", err)
			hooks.OnFloorComplete(ctx, floor, 0, 0, rep.Duration, err)
			return nil, rep
		}
		rep.Points = len(res.Points)
		rep.Connections = len(res.Connections)
		rep.Issues = res.Issues
		for range res.Issues {
			hooks.OnElementSkipped(ctx, floor, "malformed")
		}
		opts.Logger.Debug("floor parsed", "floor", floor, "points", rep.Points, "connections", rep.Connections, "issues", len(rep.Issues))
		hooks.OnFloorComplete(ctx, floor, rep.Points, rep.Connections, rep.Duration, nil)
		return res, rep
	}

	rc, err := src.Open(ctx, floor)
	if err != nil {
		return finish(nil, errors.Wrap(errors.ErrCodeFloorUnavailable, err, "floor %d", floor))
	}
	defer rc.Close()

	return finish(ParseFloor(rc, floor, opts))
}
