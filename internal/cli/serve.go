package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/routeboard/internal/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live boards over HTTP",
		Long: `Serve live boards over HTTP until interrupted. Boards are held in memory
and can be saved to and loaded from the configured store. See the server
package documentation for the endpoint list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			ch, err := newCache(cmd.Context(), cfg.Cache, noCache)
			if err != nil {
				_ = st.Close()
				return err
			}

			srv := server.New(server.Options{
				Logger:          c.Logger,
				Store:           st,
				Cache:           ch,
				CacheTTL:        cfg.Cache.TTL,
				Pick:            cfg.SpatialOptions(),
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				AllowedOrigins:  cfg.Server.CORSOrigins,
			})
			defer srv.Close()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printDetail("store: %s", cfg.Store.Backend)
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the route and render cache")
	return cmd
}
