package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/floorwalk/pkg/nav"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	filterStyle       = lipgloss.NewStyle().Foreground(colorCyan)
)

// RoomPickerModel is the bubbletea model for choosing a room. Typing filters
// the list by name (case-insensitive substring); the arrow keys move the
// cursor and enter selects.
type RoomPickerModel struct {
	Title    string
	Rooms    []nav.Point
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *nav.Point

	// matches indexes Rooms for the current filter.
	matches []int
}

// NewRoomPickerModel creates a picker over rooms.
func NewRoomPickerModel(title string, rooms []nav.Point) RoomPickerModel {
	m := RoomPickerModel{Title: title, Rooms: rooms, Height: 12}
	m.refilter()
	return m
}

// Matches returns the rooms that pass the current filter.
func (m RoomPickerModel) Matches() []nav.Point {
	out := make([]nav.Point, len(m.matches))
	for i, idx := range m.matches {
		out[i] = m.Rooms[idx]
	}
	return out
}

func (m *RoomPickerModel) refilter() {
	needle := strings.ToLower(m.Filter)
	m.matches = nil
	for i, p := range m.Rooms {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			m.matches = append(m.matches, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m RoomPickerModel) Init() tea.Cmd {
	return nil
}

func (m RoomPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.matches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.matches) == 0 {
				return m, nil
			}
			room := m.Rooms[m.matches[m.Cursor]]
			m.Selected = &room
			return m, tea.Quit
		case tea.KeyBackspace:
			if r := []rune(m.Filter); len(r) > 0 {
				m.Filter = string(r[:len(r)-1])
				m.refilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.refilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m RoomPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")
	b.WriteString("Filter: " + filterStyle.Render(m.Filter) + "▏\n\n")

	if len(m.matches) == 0 {
		b.WriteString(listDimStyle.Render("  no rooms match"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.matches))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		p := m.Rooms[m.matches[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.Name, strconv.Itoa(p.Floor)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Room", "Floor").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.matches))))
	return b.String()
}
