package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/route"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconUp      = "↑"
	iconDown    = "↓"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints parts on a single dimmed line followed by the cache
// status.
func printStats(w io.Writer, cached bool, parts ...string) {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	if len(parts) > 0 {
		line += StyleDim.Render(" · ")
	}
	fmt.Fprintln(w, line+statusStyle.Render(status))
}

// =============================================================================
// Routes
// =============================================================================

// pointLabel names a point for humans: the room name if it has one, its ID
// otherwise.
func pointLabel(p nav.Point) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// printRoute prints a route summary, one table row per floor segment and
// the staircases where the route changes floor.
func printRoute(w io.Writer, res *route.PathResult, cached bool) {
	printSuccess(w, "%s %s %s", pointLabel(res.Start()), iconArrow, pointLabel(res.End()))
	printStats(w, cached,
		"cost "+strconv.FormatFloat(res.Cost, 'f', 1, 64),
		fmt.Sprintf("%d points", len(res.Points)),
		"floors "+joinFloors(res.Floors()),
	)

	rows := make([][]string, 0)
	for _, seg := range res.Segments() {
		labels := make([]string, len(seg.Points))
		for i, p := range seg.Points {
			labels[i] = pointLabel(p)
		}
		rows = append(rows, []string{
			strconv.Itoa(seg.Floor),
			strings.Join(labels, " "+iconArrow+" "),
			strconv.FormatFloat(seg.Length, 'f', 1, 64),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Floor", "Walk", "Length").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())

	for _, tr := range res.Transitions() {
		icon := iconDown
		if tr.Up() {
			icon = iconUp
		}
		printDetail(w, "%s %s (floor %d) %s %s (floor %d)",
			icon, pointLabel(tr.From), tr.From.Floor, iconArrow, pointLabel(tr.To), tr.To.Floor)
	}
}

func joinFloors(floors []int) string {
	parts := make([]string, len(floors))
	for i, f := range floors {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, iconArrow)
}
