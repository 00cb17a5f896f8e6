package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path; the extension picks the format
	format     string  // explicit format, overrides the extension
	from, to   int     // route to highlight
	scale      float64 // board units to points
	hideLabels bool    // omit node index labels
	noCache    bool
}

// renderCommand renders a board, optionally highlighting a route.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a board to SVG, DOT, PDF, PNG or JSON",
		Long: `Render a board with every node pinned at its position. With --from and
--to the shortest route between the two nodes is highlighted: start in
green, finish in red, route edges in amber.

PDF and PNG output requires rsvg-convert on the PATH.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, output, err := resolveOutput(args[0], opts.output, opts.format)
			if err != nil {
				return err
			}

			g, _, err := loadBoard(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ropts := pipeline.RenderOptions{
				Formats:    []string{format},
				Scale:      opts.scale,
				HideLabels: opts.hideLabels,
			}
			if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				res, err := runner.Route(cmd.Context(), g, pipeline.RouteOptions{From: opts.from, To: opts.to})
				if err != nil {
					return err
				}
				if !res.Route.Reachable {
					printWarning("No route from %d to %d; rendering without highlight", opts.from, opts.to)
				}
				ropts.Route = &res.Route
			}

			doc, _ := graph.FromPlanar(g)
			prog := newProgress(boardLogger(c.Logger, args[0]))
			render := func() (map[string][]byte, error) { return runner.RenderBoard(cmd.Context(), doc, ropts) }
			var artifacts map[string][]byte
			if format == pipeline.FormatPDF || format == pipeline.FormatPNG {
				artifacts, err = spin(cmd.Context(), "Converting to "+strings.ToUpper(format)+"...", render)
			} else {
				artifacts, err = render()
			}
			if err != nil {
				return err
			}
			prog.done("rendered", "format", format, "nodes", len(doc.Nodes))

			if err := os.WriteFile(output, artifacts[format], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered board")
			printFile(output)
			printDetail("%s %s", strings.ToUpper(format), humanize.Bytes(uint64(len(artifacts[format]))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: board name with the format's extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, dot, pdf, png, json (default: from --output, else svg)")
	cmd.Flags().IntVar(&opts.from, "from", 0, "highlight the route from this node")
	cmd.Flags().IntVar(&opts.to, "to", 0, "highlight the route to this node")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "points per board unit")
	cmd.Flags().BoolVar(&opts.hideLabels, "no-labels", false, "omit node index labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// resolveOutput picks the render format and output path. An explicit
// format wins over the output extension; with neither, SVG is used and the
// output is named after the board.
func resolveOutput(input, output, format string) (string, string, error) {
	if format == "" && output != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", "", err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return "", "", apperrors.New(apperrors.ErrCodeInvalidInput, "output %s would overwrite the board", output)
	}
	return format, output, nil
}
