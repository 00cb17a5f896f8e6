// Package cli implements the routeboard command-line interface.
//
// Board commands operate on graph documents stored as .json or .toml files:
// mutating commands (node, edge) rewrite the file in place, query commands
// (info, route, pick, nearest, within) only read it. Nodes are addressed by
// their position in the document. The store commands move documents
// between files and the configured store backend, and serve exposes live
// boards over HTTP.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// installs log-based observability hooks for routes, cache and store
// operations.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/routeboard/internal/config"
	"github.com/matzehuels/routeboard/pkg/buildinfo"
	"github.com/matzehuels/routeboard/pkg/cache"
	"github.com/matzehuels/routeboard/pkg/observability"
	"github.com/matzehuels/routeboard/pkg/pipeline"
	"github.com/matzehuels/routeboard/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "routeboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	} else {
		observability.Reset()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Routeboard edits planar directed graphs and finds routes on them",
		Long:         `Routeboard is a CLI tool for building planar directed graphs (boards), querying them by position, and finding shortest routes between their nodes.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/routeboard/config.toml)")

	// Board commands
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.edgeCommand())
	root.AddCommand(c.convertCommand())

	// Queries
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.nearestCommand())
	root.AddCommand(c.withinCommand())
	root.AddCommand(c.renderCommand())

	// Infrastructure
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per CLI instance.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = &cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "store", cfg.Store.Backend, "cache", cfg.Cache.Enabled)
	return c.cfg, nil
}

// =============================================================================
// Runner & Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, buildinfo.CacheScope()), c.Logger)
	if cfg.Cache.TTL > 0 {
		r.RouteTTL = cfg.Cache.TTL
		r.RenderTTL = cfg.Cache.TTL
	}
	return r, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || !cfg.Enabled {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheRedis:
		return cache.DialRedisCache(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.StoreOptions())
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the platform default
// (~/.cache/routeboard on Linux).
func cacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}
