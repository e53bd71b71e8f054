package route

import (
	"io"

	"github.com/charmbracelet/log"
)

// Policy defaults.
const (
	// DefaultFloorPenalty is the cost of one stairs hop between adjacent
	// floors, independent of the two landings' coordinates.
	DefaultFloorPenalty = 50.0

	// DefaultCandidateWindow is how many floors above and below the start
	// floor are searched for a restroom.
	DefaultCandidateWindow = 1
)

// Options holds the routing policy. Build one with [DefaultOptions] and the
// With* functions; the zero value is not meaningful.
type Options struct {
	FloorPenalty    float64
	CandidateWindow int

	// MinFloor and MaxFloor clip the candidate window. Zero means the lowest
	// or highest floor present in the graph.
	MinFloor int
	MaxFloor int

	Logger *log.Logger
}

// Option configures an [Engine].
type Option func(*Options)

// DefaultOptions returns the default policy.
func DefaultOptions() Options {
	return Options{
		FloorPenalty:    DefaultFloorPenalty,
		CandidateWindow: DefaultCandidateWindow,
		Logger:          log.New(io.Discard),
	}
}

// WithFloorPenalty sets the cost of one floor transition. Negative values
// are ignored.
func WithFloorPenalty(p float64) Option {
	return func(o *Options) {
		if p >= 0 {
			o.FloorPenalty = p
		}
	}
}

// WithCandidateWindow sets how many floors around the start floor are
// searched for candidates. Negative values are ignored.
func WithCandidateWindow(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.CandidateWindow = n
		}
	}
}

// WithFloorRange sets the building's valid floor range used to clip the
// candidate window. Zero leaves a bound derived from the graph.
func WithFloorRange(lo, hi int) Option {
	return func(o *Options) {
		o.MinFloor, o.MaxFloor = lo, hi
	}
}

// WithLogger sets the logger used for per-candidate diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
