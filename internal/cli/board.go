package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/geom"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/planar"
)

// =============================================================================
// Board files
// =============================================================================

// loadBoard reads a board file.
func loadBoard(path string) (*planar.Graph, *graph.Index, error) {
	return graph.ReadGraphFile(path)
}

// loadOrCreateBoard reads a board file, or returns an empty board if the
// file does not exist yet.
func loadOrCreateBoard(path string) (*planar.Graph, *graph.Index, error) {
	g, ix, err := graph.ReadGraphFile(path)
	if apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		g, ix, err = graph.ToPlanar(graph.Document{})
	}
	return g, ix, err
}

// saveBoard writes g back to path in the format its extension names.
func saveBoard(g *planar.Graph, path string) error {
	return graph.WriteGraphFile(g, path)
}

// =============================================================================
// Argument parsing
// =============================================================================

func parseIndexArg(name, s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "%s must be a node index, got %q", name, s)
	}
	return i, nil
}

func parsePointArgs(xs, ys string) (geom.Vec2, error) {
	x, err := apperrors.ParseCoordinate("x", xs)
	if err != nil {
		return geom.Vec2{}, err
	}
	y, err := apperrors.ParseCoordinate("y", ys)
	if err != nil {
		return geom.Vec2{}, err
	}
	return geom.V(x, y), nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// info
// =============================================================================

// boardInfo summarizes a board.
type boardInfo struct {
	Nodes   int     `json:"nodes"`
	Edges   int     `json:"edges"`
	Sources int     `json:"sources"`
	Sinks   int     `json:"sinks"`
	Bounds  *bounds `json:"bounds,omitempty"`
}

type bounds struct {
	MinX float32 `json:"min_x"`
	MinY float32 `json:"min_y"`
	MaxX float32 `json:"max_x"`
	MaxY float32 `json:"max_y"`
}

func summarize(doc graph.Document) boardInfo {
	info := boardInfo{Nodes: len(doc.Nodes), Edges: len(doc.Edges)}
	for _, r := range nodeRows(doc) {
		if r.In == 0 {
			info.Sources++
		}
		if r.Out == 0 {
			info.Sinks++
		}
	}
	for i, n := range doc.Nodes {
		if i == 0 {
			info.Bounds = &bounds{MinX: n.X, MinY: n.Y, MaxX: n.X, MaxY: n.Y}
			continue
		}
		info.Bounds.MinX = min(info.Bounds.MinX, n.X)
		info.Bounds.MinY = min(info.Bounds.MinY, n.Y)
		info.Bounds.MaxX = max(info.Bounds.MaxX, n.X)
		info.Bounds.MaxY = max(info.Bounds.MaxY, n.Y)
	}
	return info
}

func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "info [file]",
		Short:             "Show a summary of a board",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadBoard(args[0])
			if err != nil {
				return err
			}
			if err := g.Validate(); err != nil {
				return err
			}
			doc, _ := graph.FromPlanar(g)
			info := summarize(doc)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			printSuccess("%s", args[0])
			printBoardStats(info.Nodes, info.Edges)
			printKeyValue("Sources", strconv.Itoa(info.Sources))
			printKeyValue("Sinks", strconv.Itoa(info.Sinks))
			if b := info.Bounds; b != nil {
				printKeyValue("Bounds", fmt.Sprintf("(%s, %s) – (%s, %s)",
					fmtFloat(b.MinX), fmtFloat(b.MinY), fmtFloat(b.MaxX), fmtFloat(b.MaxY)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

// =============================================================================
// node
// =============================================================================

func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add, remove or move nodes",
	}
	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeRemoveCommand())
	cmd.AddCommand(c.nodeMoveCommand())
	return cmd
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "add [file] [x] [y]",
		Short:             "Add a node (creates the file if needed)",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePointArgs(args[1], args[2])
			if err != nil {
				return err
			}
			g, _, err := loadOrCreateBoard(args[0])
			if err != nil {
				return err
			}
			k := g.AddNode(p)
			if err := saveBoard(g, args[0]); err != nil {
				return err
			}
			_, ix := graph.FromPlanar(g)
			i, _ := ix.Of(k)
			c.Logger.Debug("added node", "key", k, "index", i)
			printSuccess("Added node %d at (%s, %s)", i, fmtFloat(p.X), fmtFloat(p.Y))
			return nil
		},
	}
}

func (c *CLI) nodeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm [file] [index]",
		Aliases:           []string{"remove"},
		Short:             "Remove a node and every edge touching it",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndexArg("index", args[1])
			if err != nil {
				return err
			}
			g, ix, err := loadBoard(args[0])
			if err != nil {
				return err
			}
			k, err := ix.MustKey(i)
			if err != nil {
				return err
			}
			before := g.EdgeCount()
			if err := g.RemoveNode(k); err != nil {
				return err
			}
			if err := saveBoard(g, args[0]); err != nil {
				return err
			}
			printSuccess("Removed node %d", i)
			if n := before - g.EdgeCount(); n > 0 {
				printDetail("%d edges removed with it", n)
			}
			if i < g.NodeCount() {
				printDetail("nodes after %d shifted down by one", i)
			}
			return nil
		},
	}
}

func (c *CLI) nodeMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "move [file] [index] [x] [y]",
		Short:             "Move a node; its edges follow",
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndexArg("index", args[1])
			if err != nil {
				return err
			}
			p, err := parsePointArgs(args[2], args[3])
			if err != nil {
				return err
			}
			g, ix, err := loadBoard(args[0])
			if err != nil {
				return err
			}
			k, err := ix.MustKey(i)
			if err != nil {
				return err
			}
			if err := g.SetNodePosition(k, p); err != nil {
				return err
			}
			if err := saveBoard(g, args[0]); err != nil {
				return err
			}
			printSuccess("Moved node %d to (%s, %s)", i, fmtFloat(p.X), fmtFloat(p.Y))
			return nil
		},
	}
}

// =============================================================================
// edge
// =============================================================================

func (c *CLI) edgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Add or remove directed edges",
	}
	cmd.AddCommand(c.edgeAddCommand())
	cmd.AddCommand(c.edgeRemoveCommand())
	return cmd
}

// edgeArgs parses "[file] [from] [to]" and resolves both endpoints.
func edgeArgs(args []string) (g *planar.Graph, from, to planar.NodeKey, fi, ti int, err error) {
	if fi, err = parseIndexArg("from", args[1]); err != nil {
		return
	}
	if ti, err = parseIndexArg("to", args[2]); err != nil {
		return
	}
	var ix *graph.Index
	if g, ix, err = loadBoard(args[0]); err != nil {
		return
	}
	if from, err = ix.MustKey(fi); err != nil {
		return
	}
	to, err = ix.MustKey(ti)
	return
}

func (c *CLI) edgeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "add [file] [from] [to]",
		Short:             "Add a directed edge",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, from, to, fi, ti, err := edgeArgs(args)
			if err != nil {
				return err
			}
			if _, exists := g.EdgeBetween(from, to); exists {
				printInfo("Edge %d %s %d already exists", fi, iconArrow, ti)
				return nil
			}
			if _, err := g.AddEdge(from, to); err != nil {
				return err
			}
			if err := saveBoard(g, args[0]); err != nil {
				return err
			}
			printSuccess("Added edge %d %s %d", fi, iconArrow, ti)
			return nil
		},
	}
}

func (c *CLI) edgeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm [file] [from] [to]",
		Aliases:           []string{"remove"},
		Short:             "Remove a directed edge",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, from, to, fi, ti, err := edgeArgs(args)
			if err != nil {
				return err
			}
			ek, ok := g.EdgeBetween(from, to)
			if !ok {
				return fmt.Errorf("edge %d→%d: %w", fi, ti, planar.ErrUnknownEdge)
			}
			if err := g.RemoveEdge(ek); err != nil {
				return err
			}
			if err := saveBoard(g, args[0]); err != nil {
				return err
			}
			printSuccess("Removed edge %d %s %d", fi, iconArrow, ti)
			return nil
		},
	}
}

// =============================================================================
// convert
// =============================================================================

func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a board between JSON and TOML",
		Long: `Convert a board file between formats. The formats are chosen by the
file extensions (.json or .toml). Duplicate edges are collapsed and the
result is validated before it is written.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := graph.FormatFromPath(args[1]); err != nil {
				return err
			}
			g, _, err := loadBoard(args[0])
			if err != nil {
				return err
			}
			if err := saveBoard(g, args[1]); err != nil {
				return err
			}
			printSuccess("Converted board")
			printFile(args[1])
			printBoardStats(g.NodeCount(), g.EdgeCount())
			return nil
		},
	}
}

// errCancelled is returned when the user quits an interactive prompt.
var errCancelled = errors.New("cancelled")
