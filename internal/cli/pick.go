package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/route"
)

func (c *CLI) pickCommand() *cobra.Command {
	var restroom string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose start and destination rooms interactively",
		Long: `Choose the start room, then the destination, from a searchable list and
print the route. With --restroom, only the start is picked and the route leads
to the nearest restroom of that category.`,
		Example: `  floorwalk pick
  floorwalk pick --restroom F`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var category nav.Category
			if restroom != "" {
				if err := errors.ValidateCategory(restroom); err != nil {
					return err
				}
				category, _ = nav.ParseCategory(restroom)
			}

			r, snap, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			rooms := snap.Graph.Rooms()
			if len(rooms) == 0 {
				return errors.New(errors.ErrCodeRoomNotFound, "the graph has no rooms")
			}

			from, err := pickRoom(cmd, "Where are you?", rooms)
			if err != nil || from == nil {
				return err
			}

			var (
				res    *route.PathResult
				cached bool
			)
			if category != nav.CategoryNone {
				res, cached, err = r.FindNearestRestroomWithCacheInfo(cmd.Context(), from.Name, category)
			} else {
				to, perr := pickRoom(cmd, fmt.Sprintf("From %s to?", from.Name), rooms)
				if perr != nil || to == nil {
					return perr
				}
				res, cached, err = r.FindPathWithCacheInfo(cmd.Context(), from.Name, to.Name)
			}
			if err != nil {
				return err
			}
			printRoute(cmd.OutOrStdout(), res, cached)
			return nil
		},
	}

	cmd.Flags().StringVar(&restroom, "restroom", "", "route to the nearest restroom of this category (M or F)")
	return cmd
}

// pickRoom runs the picker and returns the chosen room, or nil if the user
// quit without choosing.
func pickRoom(cmd *cobra.Command, title string, rooms []nav.Point) (*nav.Point, error) {
	p := tea.NewProgram(NewRoomPickerModel(title, rooms),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("room picker: %w", err)
	}
	m, ok := final.(RoomPickerModel)
	if !ok || m.Selected == nil {
		printInfo(cmd.ErrOrStderr(), "No room selected")
		return nil, nil
	}
	return m.Selected, nil
}
