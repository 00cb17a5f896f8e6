package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/pipeline"
	"github.com/matzehuels/routeboard/pkg/planar/spatial"
)

// =============================================================================
// route
// =============================================================================

type routeOpts struct {
	from, to    int
	interactive bool
	asJSON      bool
	noCache     bool
	refresh     bool
}

func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route [file]",
		Short: "Find the shortest route between two nodes",
		Long: `Find the shortest directed route between two nodes of a board. Edge
weights are the Euclidean lengths of the edges. Results are cached by board
content, so repeated queries on an unchanged board are served from the cache.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadBoard(args[0])
			if err != nil {
				return err
			}

			if opts.interactive {
				doc, _ := graph.FromPlanar(g)
				from, to, ok, err := runNodePicker(doc)
				if err != nil {
					return err
				}
				if !ok {
					return errCancelled
				}
				opts.from, opts.to = from, to
			} else if !cmd.Flags().Changed("from") || !cmd.Flags().Changed("to") {
				return fmt.Errorf("--from and --to are required unless --interactive is set")
			}

			runner, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			logger := boardLogger(c.Logger, args[0])
			prog := newProgress(logger)
			res, err := runner.Route(cmd.Context(), g, pipeline.RouteOptions{
				From:    opts.from,
				To:      opts.to,
				Refresh: opts.refresh,
			})
			if err != nil {
				return err
			}
			logger.Debug("route", "hash", res.GraphHash[:12], "from", opts.from, "to", opts.to)

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), res.Route)
			}
			if !opts.interactive {
				prog.done("route searched", "nodes", g.NodeCount(), "cached", res.CacheHit)
			}
			printRoute(res.Route, res.CacheHit)
			if res.Route.Reachable {
				printNextStep("Render it", fmt.Sprintf("%s render %s --from %d --to %d", appName, args[0], opts.from, opts.to))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.from, "from", 0, "start node index")
	cmd.Flags().IntVar(&opts.to, "to", 0, "finish node index")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose the endpoints interactively")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the route as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if the route is cached")

	return cmd
}

// =============================================================================
// pick
// =============================================================================

// pickResult is the JSON form of a pick.
type pickResult struct {
	Kind string      `json:"kind"`
	Node *int        `json:"node,omitempty"`
	Edge *graph.Edge `json:"edge,omitempty"`
}

func (c *CLI) pickCommand() *cobra.Command {
	var (
		asJSON bool
		radii  spatial.Options
	)

	cmd := &cobra.Command{
		Use:   "pick [file] [x] [y]",
		Short: "Find the node or edge under a point",
		Long: `Hit-test a point against a board. A node is hit when the point lies
strictly inside its radius, an edge when the point projects onto it within
the edge thickness. When both are hit the node wins if it is closer than
the edge or within the node-wins radius. Radii default to the [pick]
section of the config file.`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePointArgs(args[1], args[2])
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := cfg.SpatialOptions()
			if cmd.Flags().Changed("node-radius") {
				opts.NodeRadius = radii.NodeRadius
			}
			if cmd.Flags().Changed("edge-thickness") {
				opts.EdgeThickness = radii.EdgeThickness
			}
			if cmd.Flags().Changed("node-wins-radius") {
				opts.NodeWinsRadius = radii.NodeWinsRadius
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			g, ix, err := loadBoard(args[0])
			if err != nil {
				return err
			}
			sel := spatial.Pick(g, p, opts)

			out := pickResult{Kind: sel.Kind.String()}
			switch sel.Kind {
			case spatial.SelectNode:
				i, _ := ix.Of(sel.Node)
				out.Node = &i
			case spatial.SelectEdge:
				e, err := g.LookupEdge(sel.Edge)
				if err != nil {
					return err
				}
				from, _ := ix.Of(e.From())
				to, _ := ix.Of(e.To())
				out.Edge = &graph.Edge{From: from, To: to}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			switch {
			case out.Node != nil:
				printSuccess("Node %d", *out.Node)
			case out.Edge != nil:
				printSuccess("Edge %d %s %d", out.Edge.From, iconArrow, out.Edge.To)
			default:
				printInfo("Nothing at (%s, %s)", fmtFloat(p.X), fmtFloat(p.Y))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the selection as JSON")
	cmd.Flags().Float32Var(&radii.NodeRadius, "node-radius", spatial.DefaultNodeRadius, "node hit radius")
	cmd.Flags().Float32Var(&radii.EdgeThickness, "edge-thickness", spatial.DefaultEdgeThickness, "edge hit distance")
	cmd.Flags().Float32Var(&radii.NodeWinsRadius, "node-wins-radius", spatial.DefaultNodeWinsRadius, "radius within which a node beats an edge")

	return cmd
}

// =============================================================================
// nearest
// =============================================================================

type nearestResult struct {
	From  int  `json:"from"`
	Index *int `json:"index"`
}

func (c *CLI) nearestCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "nearest [file] [index]",
		Short:             "Find the node closest to another node",
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
			nk, err := spatial.NearestNode(g, k)
			if err != nil {
				return err
			}

			out := nearestResult{From: i}
			if !nk.IsNil() {
				j, _ := ix.Of(nk)
				out.Index = &j
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			if out.Index == nil {
				printInfo("Node %d is alone on the board", i)
				return nil
			}
			printSuccess("Node %d is nearest to %d", *out.Index, i)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// =============================================================================
// within
// =============================================================================

type withinResult struct {
	From    int   `json:"from"`
	Indices []int `json:"indices"`
}

func (c *CLI) withinCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "within [file] [index] [min] [max]",
		Short:             "List nodes strictly between two distances from a node",
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndexArg("index", args[1])
			if err != nil {
				return err
			}
			minR, err := apperrors.ParseCoordinate("min", args[2])
			if err != nil {
				return err
			}
			maxR, err := apperrors.ParseCoordinate("max", args[3])
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
			keys, err := spatial.NodesInAnnulus(g, k, minR, maxR)
			if err != nil {
				return err
			}

			out := withinResult{From: i, Indices: make([]int, 0, len(keys))}
			for _, nk := range keys {
				j, _ := ix.Of(nk)
				out.Indices = append(out.Indices, j)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			if len(out.Indices) == 0 {
				printInfo("No nodes between %s and %s of node %d", args[2], args[3], i)
				return nil
			}
			strs := make([]string, len(out.Indices))
			for n, j := range out.Indices {
				strs[n] = strconv.Itoa(j)
			}
			printSuccess("%d nodes between %s and %s of node %d", len(strs), args[2], args[3], i)
			printDetail("%s", strings.Join(strs, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
