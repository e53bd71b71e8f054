package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/nav"
)

// FloorResult is the contribution of a single floor document.
type FloorResult struct {
	Floor       int
	Points      []nav.Point
	Connections []nav.Connection

	// Issues lists elements that were skipped. Each is an *errors.Error with
	// code MALFORMED_ELEMENT.
	Issues []error
}

// ParseFloor reads one floor document and returns its points and
// connections in document order.
//
// Point markers are read first so that every segment can snap to any point
// on the floor regardless of drawing order. Each segment endpoint snaps to
// the nearest point (see [Nearest]); segments whose endpoints collapse onto
// one point, or that fall outside opts.SnapDistance, are skipped. Elements
// with missing or unparsable attributes are skipped and recorded in Issues.
// Unrecognized elements are ignored.
//
// An error is returned only when the document itself cannot be parsed; its
// code is FLOOR_UNAVAILABLE.
func ParseFloor(r io.Reader, floor int, opts Options) (*FloorResult, error) {
	opts.setDefaults()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFloorUnavailable, err, "floor %d: unparsable document", floor)
	}
	if doc.Root() == nil {
		return nil, errors.New(errors.ErrCodeFloorUnavailable, "floor %d: empty document", floor)
	}

	var markers, segments []*etree.Element
	walk(&doc.Element, func(el *etree.Element) {
		switch {
		case opts.isNodeElement(el.Tag):
			markers = append(markers, el)
		case el.Tag == opts.LineElement:
			segments = append(segments, el)
		}
	})

	res := &FloorResult{Floor: floor}
	p := &floorParser{opts: opts, res: res, seen: make(map[string]struct{})}
	for _, el := range markers {
		p.addMarker(el)
	}
	for _, el := range segments {
		p.addSegment(el)
	}
	return res, nil
}

// walk visits every element below root in document order.
func walk(root *etree.Element, fn func(*etree.Element)) {
	for _, child := range root.ChildElements() {
		fn(child)
		walk(child, fn)
	}
}

type floorParser struct {
	opts  Options
	res   *FloorResult
	seen  map[string]struct{}
	pairs map[[2]string]struct{}
}

func (p *floorParser) skip(el *etree.Element, format string, args ...any) {
	err := errors.New(errors.ErrCodeMalformedElement, "floor %d: <%s> %s", p.res.Floor, el.Tag, fmt.Sprintf(format, args...))
	p.res.Issues = append(p.res.Issues, err)
	p.opts.Logger.Warn("skipping element", "floor", p.res.Floor, "element", el.Tag, "reason", errors.UserMessage(err))
}

func (p *floorParser) addMarker(el *etree.Element) {
	label := el.SelectAttrValue(p.opts.LabelAttr, "")
	if label == "" {
		label = el.SelectAttrValue("id", "")
	}
	point, ok := Classify(label, p.res.Floor, p.opts.MarkerPrefix)
	if !ok {
		p.skip(el, "has no usable label %q", label)
		return
	}
	x, err := floatAttr(el, "cx")
	if err != nil {
		p.skip(el, "%s: %v", label, err)
		return
	}
	y, err := floatAttr(el, "cy")
	if err != nil {
		p.skip(el, "%s: %v", label, err)
		return
	}
	if _, dup := p.seen[point.ID]; dup {
		p.skip(el, "duplicate label %s", label)
		return
	}
	p.seen[point.ID] = struct{}{}
	point.X, point.Y = x, y
	p.res.Points = append(p.res.Points, point)
}

func (p *floorParser) addSegment(el *etree.Element) {
	var c [4]float64
	for i, attr := range [4]string{"x1", "y1", "x2", "y2"} {
		v, err := floatAttr(el, attr)
		if err != nil {
			p.skip(el, "%v", err)
			return
		}
		c[i] = v
	}

	from, d1, ok1 := Nearest(c[0], c[1], p.res.Points, p.opts.SnapDistance)
	to, d2, ok2 := Nearest(c[2], c[3], p.res.Points, p.opts.SnapDistance)
	switch {
	case len(p.res.Points) == 0:
		p.skip(el, "no points to snap to")
		return
	case !ok1 || !ok2:
		p.skip(el, "endpoint beyond snap distance %.2f (%.2f, %.2f)", p.opts.SnapDistance, d1, d2)
		return
	case from.ID == to.ID:
		p.skip(el, "both endpoints snap to %s", from.ID)
		return
	}

	key := [2]string{from.ID, to.ID}
	if to.ID < from.ID {
		key = [2]string{to.ID, from.ID}
	}
	if p.pairs == nil {
		p.pairs = make(map[[2]string]struct{})
	}
	if _, dup := p.pairs[key]; dup {
		p.opts.Logger.Debug("duplicate segment", "floor", p.res.Floor, "from", from.ID, "to", to.ID)
		return
	}
	p.pairs[key] = struct{}{}
	p.res.Connections = append(p.res.Connections, nav.Connection{From: from.ID, To: to.ID})
}

func floatAttr(el *etree.Element, key string) (float64, error) {
	raw := el.SelectAttr(key)
	if raw == nil {
		return 0, fmt.Errorf("missing %s", key)
	}
	s := strings.TrimSuffix(strings.TrimSpace(raw.Value), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", key, raw.Value)
	}
	return v, nil
}
