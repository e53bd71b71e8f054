package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorwalk/pkg/config"
	"github.com/matzehuels/floorwalk/pkg/errors"
	fwio "github.com/matzehuels/floorwalk/pkg/io"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/pipeline"
	"github.com/matzehuels/floorwalk/pkg/route"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func (c *CLI) routeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Find the shortest walking route between two rooms",
		Example: `  floorwalk route 101 204
  floorwalk route --floors-dir ./floors --penalty 30 Lobby 512
  floorwalk route -o json 101 204 | jq .cost`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeRooms(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			for _, name := range args {
				if err := errors.ValidateRoomName(name); err != nil {
					return err
				}
			}
			r, _, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			res, cached, err := r.FindPathWithCacheInfo(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeRoute(cmd.OutOrStdout(), output, res, cached)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, json)")
	return cmd
}

func (c *CLI) restroomCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "restroom <from> <M|F>",
		Short: "Find the nearest restroom of a category",
		Long: `Find the nearest restroom of a category, searching the start floor and the
floors within the candidate window around it.`,
		Example: `  floorwalk restroom 101 F
  floorwalk restroom -o json Lobby M`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeRooms(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			if err := errors.ValidateRoomName(args[0]); err != nil {
				return err
			}
			if err := errors.ValidateCategory(args[1]); err != nil {
				return err
			}
			category, err := nav.ParseCategory(args[1])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidCategory, err, "restroom")
			}
			r, _, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			res, cached, err := r.FindNearestRestroomWithCacheInfo(cmd.Context(), args[0], category)
			if err != nil {
				return err
			}
			return writeRoute(cmd.OutOrStdout(), output, res, cached)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, json)")
	return cmd
}

func validateOutput(output string) error {
	if output != outputText && output != outputJSON {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown output %q (want %s or %s)", output, outputText, outputJSON)
	}
	return nil
}

func writeRoute(w io.Writer, output string, res *route.PathResult, cached bool) error {
	if output == outputJSON {
		return fwio.WritePath(res, w)
	}
	printRoute(w, res, cached)
	return nil
}

// completeRooms completes room names for the first n positional arguments.
func (c *CLI) completeRooms(n int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names, err := c.roomNames(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var out []string
		for _, name := range names {
			if strings.HasPrefix(name, toComplete) {
				out = append(out, name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// roomNames loads the graph without cache, spinner or progress output and
// returns the selectable room names.
func (c *CLI) roomNames(cmd *cobra.Command) ([]string, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Cache.Backend = config.CacheNone
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := c.newRunner(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var snap *pipeline.Snapshot
	if c.graphPath != "" {
		var g *nav.Graph
		if g, err = fwio.ImportJSON(c.graphPath); err == nil {
			snap, err = r.Publish(g, nil)
		}
	} else {
		snap, err = r.Reload(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	rooms := snap.Graph.Rooms()
	names := make([]string, len(rooms))
	for i, p := range rooms {
		names[i] = p.Name
	}
	return names, nil
}
