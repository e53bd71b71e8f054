// Package render converts rendered SVG diagrams to other formats.
//
// The [ToPDF] and [ToPNG] functions shell out to rsvg-convert (from librsvg).
// Diagrams themselves are produced by the [nodelink] subpackage.
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [nodelink]: github.com/matzehuels/floorwalk/pkg/render/nodelink
package render
