package ingest

import (
	"io"

	"github.com/charmbracelet/log"
)

// Default values used when an [Options] field is left at its zero value.
const (
	DefaultMarkerPrefix      = "p_"
	DefaultLineElement       = "line"
	DefaultLabelAttr         = "inkscape:label"
	DefaultStairsGroupSuffix = 1
	DefaultConcurrency       = 4
)

// DefaultNodeElements are the SVG element names read as point markers.
var DefaultNodeElements = []string{"ellipse", "circle"}

// Options configures how floor documents are read.
type Options struct {
	// MarkerPrefix is stripped from labels before the room_/stairs_
	// classification. Labels without the prefix are classified as-is.
	MarkerPrefix string

	// NodeElements lists element names that mark points. Their center is
	// read from the cx and cy attributes.
	NodeElements []string

	// LineElement is the element name for connection segments (x1,y1,x2,y2).
	LineElement string

	// LabelAttr is the attribute holding the point label. The plain id
	// attribute is used when it is absent.
	LabelAttr string

	// SnapDistance bounds how far a segment endpoint may be from the point
	// it snaps to. Zero means unbounded.
	SnapDistance float64

	// StairsGroupSuffix is the number of trailing ID characters that group
	// stairs across floors.
	StairsGroupSuffix int

	// Concurrency limits how many floor documents are parsed at once.
	Concurrency int

	// Logger receives per-floor and per-element diagnostics. Nil discards.
	Logger *log.Logger
}

// DefaultOptions returns options matching the conventional floor drawings.
func DefaultOptions() Options {
	var o Options
	o.setDefaults()
	return o
}

func (o *Options) setDefaults() {
	if o.MarkerPrefix == "" {
		o.MarkerPrefix = DefaultMarkerPrefix
	}
	if len(o.NodeElements) == 0 {
		o.NodeElements = DefaultNodeElements
	}
	if o.LineElement == "" {
		o.LineElement = DefaultLineElement
	}
	if o.LabelAttr == "" {
		o.LabelAttr = DefaultLabelAttr
	}
	if o.StairsGroupSuffix <= 0 {
		o.StairsGroupSuffix = DefaultStairsGroupSuffix
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

func (o *Options) isNodeElement(tag string) bool {
	for _, n := range o.NodeElements {
		if n == tag {
			return true
		}
	}
	return false
}
