package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/pipeline"
)

func (c *CLI) exportCommand() *cobra.Command {
	var (
		format   string
		output   string
		floor    int
		from, to string
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the navigation graph as JSON, DOT, SVG, PNG or PDF",
		Long: `Export the navigation graph. JSON exports can be loaded again with --graph;
the diagram formats draw one cluster per floor and can highlight a route.

PNG and PDF output requires rsvg-convert (librsvg).`,
		Example: `  floorwalk export -o graph.json
  floorwalk export -f svg --floor 2 -o floor2.svg
  floorwalk export -f pdf --from 101 --to 204 -o route.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "export")
			}
			if (from == "") != (to == "") {
				return errors.New(errors.ErrCodeInvalidInput, "--from and --to must be given together")
			}
			r, snap, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			opts := pipeline.ExportOptions{Floor: floor, Detailed: detailed, Scale: scale}
			if from != "" {
				res, err := snap.Engine.FindPath(from, to)
				if err != nil {
					return err
				}
				opts.Route = res
			}
			data, err := pipeline.Export(cmd.Context(), snap.Graph, format, opts)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			w := cmd.ErrOrStderr()
			printSuccess(w, "Exported %s", format)
			printFile(w, output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format (json, dot, svg, png, pdf)")
	flags.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	flags.IntVar(&floor, "floor", 0, "only draw this floor")
	flags.StringVar(&from, "from", "", "highlight the route from this room")
	flags.StringVar(&to, "to", "", "highlight the route to this room")
	flags.BoolVar(&detailed, "detailed", false, "label points with IDs and coordinates")
	flags.Float64Var(&scale, "scale", 0, "PNG resolution factor (default 2)")
	_ = cmd.RegisterFlagCompletionFunc("from", c.completeRooms(1))
	_ = cmd.RegisterFlagCompletionFunc("to", c.completeRooms(1))
	return cmd
}
