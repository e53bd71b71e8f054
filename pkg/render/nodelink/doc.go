// Package nodelink renders navigation graphs as node-link diagrams.
//
// # Overview
//
// The diagram is a debugging aid for floor drawings: each floor becomes a
// Graphviz cluster, rooms are boxes, junctions are dots, stairs are
// diamonds and the stairs links between floors are dashed. A route can be
// highlighted on top, which makes it easy to see why the engine chose it.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Floor: 2, Route: res})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
