package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/nav"
)

func (c *CLI) roomsCommand() *cobra.Command {
	var (
		floor     int
		restrooms bool
	)

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List the rooms of the building",
		Long: `List the rooms that can be used as route endpoints, sorted by name.
With --restrooms, list the restrooms and their categories instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("floor") {
				if err := errors.ValidateFloor(floor); err != nil {
					return err
				}
			}
			r, snap, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			var points []nav.Point
			if restrooms {
				points = append(snap.Graph.Restrooms(nav.CategoryMale), snap.Graph.Restrooms(nav.CategoryFemale)...)
			} else {
				points = snap.Graph.Rooms()
			}
			if floor != 0 {
				kept := points[:0]
				for _, p := range points {
					if p.Floor == floor {
						kept = append(kept, p)
					}
				}
				points = kept
			}

			w := cmd.OutOrStdout()
			if len(points) == 0 {
				printInfo(w, "No rooms found")
				return nil
			}
			printRooms(w, points, restrooms)
			return nil
		},
	}

	cmd.Flags().IntVar(&floor, "floor", 0, "only list rooms on this floor")
	cmd.Flags().BoolVar(&restrooms, "restrooms", false, "list tagged restrooms instead of rooms")
	return cmd
}

func printRooms(w io.Writer, points []nav.Point, restrooms bool) {
	headers := []string{"Room", "Floor", "ID"}
	if restrooms {
		headers = append(headers, "Category")
	}
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{p.Name, strconv.Itoa(p.Floor), p.ID}
		if restrooms {
			rows[i] = append(rows[i], p.Category.String())
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 1:
				return StyleNumber
			case col == 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
	printDetail(w, "%d rooms", len(points))
}

func (c *CLI) floorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "floors",
		Short: "Show which floors the graph was built from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, snap, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			w := cmd.OutOrStdout()
			st := snap.Stats()
			printKeyValue(w, "Floors", joinInts(st.Floors))
			printKeyValue(w, "Points", strconv.Itoa(st.Points))
			printKeyValue(w, "Connections", strconv.Itoa(st.Connections))
			printKeyValue(w, "Graph", snap.Hash[:12])
			if len(st.Skipped) > 0 {
				printWarning(w, "Skipped floors: %s", joinInts(st.Skipped))
			}
			if st.Issues > 0 {
				printWarning(w, "%d elements skipped (run with -v for details)", st.Issues)
			}
			return nil
		},
	}
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
