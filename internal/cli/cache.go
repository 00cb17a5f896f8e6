package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/routeboard/internal/config"
	"github.com/matzehuels/routeboard/pkg/buildinfo"
	"github.com/matzehuels/routeboard/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the route and render cache",
		Long: `Routes and renders are cached by board content, so editing a board never
serves stale results. Entries age out after cache.ttl. These commands manage
the file cache; a Redis cache expires entries on its own.`,
	}
	cmd.AddCommand(
		c.cacheInfoCommand(),
		c.cachePruneCommand(),
		c.cacheClearCommand(),
		c.cachePathCommand(),
	)
	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache backend, size and entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			printKeyValue("Backend", cfg.Cache.Backend)
			printKeyValue("Enabled", strconv.FormatBool(cfg.Cache.Enabled))
			printKeyValue("TTL", cfg.Cache.TTL.String())
			printKeyValue("Scope", buildinfo.CacheScope())
			if cfg.Cache.Backend == config.CacheRedis {
				printKeyValue("Redis", fmt.Sprintf("%s db %d", cfg.Cache.RedisAddr, cfg.Cache.RedisDB))
				return nil
			}

			fc, ok, err := openFileCache(cfg.Cache)
			if err != nil || !ok {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", humanize.Comma(int64(st.Entries)))
			printKeyValue("Expired", humanize.Comma(int64(st.Expired)))
			printKeyValue("Size", humanize.Bytes(uint64(st.Bytes)))
			return nil
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.maintainFileCache("Pruned %d expired entries", (*cache.FileCache).Prune)
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached route and render",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.maintainFileCache("Cleared %d cached entries", (*cache.FileCache).Clear)
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// maintainFileCache runs op against the configured file cache and reports
// how many entries it removed.
func (c *CLI) maintainFileCache(done string, op func(*cache.FileCache) (int, error)) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if cfg.Cache.Backend == config.CacheRedis {
		printWarning("Redis cache entries expire on their own (ttl %s); nothing removed", cfg.Cache.TTL)
		return nil
	}
	fc, ok, err := openFileCache(cfg.Cache)
	if err != nil || !ok {
		return err
	}
	n, err := op(fc)
	if err != nil {
		return err
	}
	printSuccess(done, n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

// openFileCache opens the file cache without creating its directory. ok is
// false, with "Cache is empty" printed, when the directory does not exist.
func openFileCache(cfg config.CacheConfig) (*cache.FileCache, bool, error) {
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, false, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		printInfo("Cache is empty")
		return nil, false, nil
	}
	fc, err := cache.NewFileCache(dir)
	return fc, err == nil, err
}
