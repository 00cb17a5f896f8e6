package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/routeboard/pkg/graph"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	listRowStyle    = lipgloss.NewStyle().Foreground(colorText)
)

// =============================================================================
// NodePickerModel - Interactive route endpoint selection
// =============================================================================

// NodeRow is one selectable node.
type NodeRow struct {
	Index int
	X, Y  float32
	Out   int
	In    int
}

// nodeRows lists the nodes of doc with their degrees.
func nodeRows(doc graph.Document) []NodeRow {
	rows := make([]NodeRow, len(doc.Nodes))
	for i, n := range doc.Nodes {
		rows[i] = NodeRow{Index: i, X: n.X, Y: n.Y}
	}
	for _, e := range doc.Edges {
		rows[e.From].Out++
		rows[e.To].In++
	}
	return rows
}

// NodePickerModel is the bubbletea model for choosing a route's start and
// finish. The first enter picks the start, the second the finish.
type NodePickerModel struct {
	Nodes  []NodeRow
	Cursor int
	Height int
	Offset int

	Start     *int
	Finish    *int
	Cancelled bool
}

// NewNodePickerModel creates a new node picker.
func NewNodePickerModel(nodes []NodeRow) NodePickerModel {
	return NodePickerModel{
		Nodes:  nodes,
		Height: 15,
	}
}

// Done reports whether both endpoints were chosen.
func (m NodePickerModel) Done() bool {
	return m.Start != nil && m.Finish != nil
}

func (m NodePickerModel) Init() tea.Cmd {
	return nil
}

func (m NodePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "backspace":
			m.Start = nil
		case "enter":
			if len(m.Nodes) == 0 {
				return m, nil
			}
			idx := m.Nodes[m.Cursor].Index
			if m.Start == nil {
				m.Start = &idx
				return m, nil
			}
			m.Finish = &idx
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodePickerModel) View() string {
	var b strings.Builder

	title := "Select start node"
	if m.Start != nil {
		title = fmt.Sprintf("Select finish node (start: %d)", *m.Start)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  ⌫ reset start  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(n.Index),
			fmtFloat(n.X),
			fmtFloat(n.Y),
			strconv.Itoa(n.Out),
			strconv.Itoa(n.In),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("", "Node", "X", "Y", "Out", "In").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			isStart := m.Start != nil && m.Nodes[idx].Index == *m.Start
			switch {
			case isStart:
				return styleStart
			case idx == m.Cursor:
				return styleCursor
			case m.Nodes[idx].Out == 0 && m.Start == nil:
				// Dead ends cannot start a route.
				return listDimStyle
			}
			return listRowStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  board has no nodes"))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	}

	return b.String()
}

// runNodePicker shows the picker and returns the chosen endpoints. ok is
// false if the user quit early.
func runNodePicker(doc graph.Document) (from, to int, ok bool, err error) {
	final, err := tea.NewProgram(NewNodePickerModel(nodeRows(doc))).Run()
	if err != nil {
		return 0, 0, false, fmt.Errorf("node picker: %w", err)
	}
	m, _ := final.(NodePickerModel)
	if !m.Done() {
		return 0, 0, false, nil
	}
	return *m.Start, *m.Finish, true, nil
}
