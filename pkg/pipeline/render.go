package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/floorwalk/pkg/errors"
	fwio "github.com/matzehuels/floorwalk/pkg/io"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/render"
	"github.com/matzehuels/floorwalk/pkg/render/nodelink"
	"github.com/matzehuels/floorwalk/pkg/route"
)

// ExportOptions configures [Export].
type ExportOptions struct {
	// Floor restricts diagrams to one floor. Zero exports every floor. JSON
	// exports always contain the whole graph.
	Floor int
	// Route is highlighted in diagrams.
	Route *route.PathResult
	// Detailed adds IDs and coordinates to diagram labels.
	Detailed bool
	// Scale is the PNG resolution factor. Zero means 2.
	Scale float64
}

// Export renders g in the given format.
func Export(ctx context.Context, g *nav.Graph, format string, opts ExportOptions) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "export")
	}
	if opts.Floor != 0 {
		if err := errors.ValidateFloor(opts.Floor); err != nil {
			return nil, err
		}
	}
	if format == FormatJSON {
		var buf bytes.Buffer
		if err := fwio.WriteJSON(g, &buf); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{
		Floor:    opts.Floor,
		Route:    opts.Route,
		Detailed: opts.Detailed,
	})

	var data []byte
	var err error
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		scale := opts.Scale
		if scale == 0 {
			scale = 2.0
		}
		data, err = nodelink.RenderPNG(ctx, dot, scale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	}
	if stderrors.Is(err, render.ErrNoConverter) {
		return nil, errors.Wrap(errors.ErrCodeRenderUnavailable, err, "%s export", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
