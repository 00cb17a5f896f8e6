package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/routeboard/pkg/graph"
)

// stdout receives all human-readable command output. Tests swap it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

// Colors are named by what they mark on a board, not by hue.
var (
	colorAccent = lipgloss.Color("36")  // cursor, titles, addresses
	colorStart  = lipgloss.Color("35")  // route start, success
	colorFinish = lipgloss.Color("167") // route finish, failure
	colorNotice = lipgloss.Color("220") // warnings
	colorCmd    = lipgloss.Color("75")  // suggested commands
	colorText   = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorNotice)

	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
	styleStart   = lipgloss.NewStyle().Bold(true).Foreground(colorStart)
	styleFinish  = lipgloss.NewStyle().Bold(true).Foreground(colorFinish)
	styleCursor  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// status prefixes a message with a colored icon.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorStart)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorNotice)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorLabel)}
)

const iconArrow = "→"

func (s status) print(msg string) {
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

// =============================================================================
// Status lines
// =============================================================================

func printSuccess(format string, args ...any) {
	statusOK.print(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusWarn.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusInfo.print(fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a file that was written.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Boards and routes
// =============================================================================

func printBoardStats(nodes, edges int) {
	printDetail("%s · %s", plural(nodes, "node"), plural(edges, "edge"))
}

// printRoute prints the node chain of r, start and finish highlighted,
// followed by hop count, distance and whether it came from the cache.
func printRoute(r graph.Route, cached bool) {
	if !r.Reachable {
		printWarning("No route from %d to %d", r.From, r.To)
		return
	}
	printSuccess("Route %d %s %d", r.From, iconArrow, r.To)

	chain := make([]string, len(r.Nodes))
	last := len(r.Nodes) - 1
	for i, n := range r.Nodes {
		style := StyleValue
		switch i {
		case 0:
			style = styleStart
		case last:
			style = styleFinish
		}
		chain[i] = style.Render(strconv.Itoa(n))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(chain, StyleDim.Render(" "+iconArrow+" ")))

	source := StyleDim.Render("fresh")
	if cached {
		source = lipgloss.NewStyle().Foreground(colorStart).Render("cached")
	}
	summary := fmt.Sprintf("%s · distance %s · ", plural(len(r.Edges), "hop"), fmtFloat(*r.Distance))
	fmt.Fprintln(stdout, "  "+StyleDim.Render(summary)+source)
}

// fmtFloat prints a coordinate or distance with the fewest digits that
// round-trip through float32.
func fmtFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
