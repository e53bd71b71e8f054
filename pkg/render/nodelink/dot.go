package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/render"
	"github.com/matzehuels/floorwalk/pkg/route"
)

// Options configures diagram generation.
type Options struct {
	// Floor restricts the diagram to one floor. Zero draws every floor.
	Floor int

	// Route is highlighted when set. Route points outside the selected
	// floor are ignored.
	Route *route.PathResult

	// Detailed adds the point ID and drawing coordinates to labels.
	Detailed bool
}

const highlight = "#d62728"

// ToDOT converts a graph to Graphviz DOT source.
//
// The output is deterministic: floors ascend and points and connections
// keep graph order.
func ToDOT(g *nav.Graph, opts Options) string {
	onRoute := make(map[string]bool)
	routeEdges := make(map[[2]string]bool)
	if opts.Route != nil {
		pts := opts.Route.Points
		for i, p := range pts {
			onRoute[p.ID] = true
			if i > 0 {
				routeEdges[edgeKey(pts[i-1].ID, p.ID)] = true
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [fontsize=12, style=filled, fillcolor=white];\n")
	buf.WriteString("\n")

	included := make(map[string]bool)
	for _, floor := range g.Floors() {
		if opts.Floor != 0 && floor != opts.Floor {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_floor_%d {\n", floor)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("Floor %d", floor))
		buf.WriteString("    style=rounded;\n")
		for _, p := range g.PointsOnFloor(floor) {
			included[p.ID] = true
			attrs := nodeAttrs(p, opts.Detailed)
			if onRoute[p.ID] {
				attrs = append(attrs, "color=\""+highlight+"\"", "penwidth=2.5")
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", p.ID, strings.Join(attrs, ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, c := range g.Connections() {
		if !included[c.From] || !included[c.To] {
			continue
		}
		var attrs []string
		a, _ := g.Point(c.From)
		b, _ := g.Point(c.To)
		if a.Floor != b.Floor {
			attrs = append(attrs, "style=dashed", "constraint=false")
		}
		if routeEdges[edgeKey(c.From, c.To)] {
			attrs = append(attrs, "color=\""+highlight+"\"", "penwidth=3")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", c.From, c.To)
		} else {
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", c.From, c.To, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func nodeAttrs(p nav.Point, detailed bool) []string {
	label := p.Name
	var attrs []string
	switch {
	case p.Restroom:
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", "fillcolor=\"#dbe9f6\"")
		if p.Category != nav.CategoryNone {
			label = fmt.Sprintf("WC %s", p.Category)
		}
	case p.Kind == nav.KindRoom:
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"")
	case p.Kind == nav.KindStairs:
		attrs = append(attrs, "shape=diamond", "fillcolor=\"#fde9c9\"")
		label = "stairs"
	default:
		attrs = append(attrs, "shape=point", "width=0.12")
	}
	if detailed {
		label = fmt.Sprintf("%s\n%s\n(%.1f, %.1f)", label, p.ID, p.X, p.Y)
	}
	if p.Kind != nav.KindJunction || detailed {
		attrs = append([]string{fmt.Sprintf("label=%q", strings.TrimPrefix(label, "\n"))}, attrs...)
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion. A scale of 2.0
// doubles the resolution.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
