// Package config loads routeboard's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/routeboard/config.toml (falling back to
// ~/.config/routeboard/config.toml) unless a path is given explicitly. A
// missing default file is not an error: every setting has a default.
//
//	[pick]
//	node_radius = 10.0
//	edge_thickness = 5.0
//	node_wins_radius = 5.0
//
//	[store]
//	backend = "file"          # file | memory | redis | mongo
//	dir = ""                  # file backend; default ~/.config/routeboard/graphs
//	redis_addr = "localhost:6379"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//	cors_origins = ["http://localhost:5173"]
//
//	[cache]
//	enabled = true
//	backend = "file"          # file | redis
//	dir = ""                  # file backend; default ~/.cache/routeboard
//	ttl = "24h"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/planar/spatial"
	"github.com/matzehuels/routeboard/pkg/store"
)

const appName = "routeboard"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full configuration file.
type Config struct {
	Pick   PickConfig   `toml:"pick"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// PickConfig holds the hit-testing thresholds.
type PickConfig struct {
	NodeRadius     float32 `toml:"node_radius"`
	EdgeThickness  float32 `toml:"edge_thickness"`
	NodeWinsRadius float32 `toml:"node_wins_radius"`
}

// StoreConfig selects the graph document store.
type StoreConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisAddr       string `toml:"redis_addr"`
	RedisDB         int    `toml:"redis_db"`
	RedisPrefix     string `toml:"redis_prefix"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures `routeboard serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	CORSOrigins     []string      `toml:"cors_origins"`
}

// CacheConfig configures the route and render cache.
type CacheConfig struct {
	Enabled     bool          `toml:"enabled"`
	Backend     string        `toml:"backend"`
	Dir         string        `toml:"dir"`
	TTL         time.Duration `toml:"ttl"`
	RedisAddr   string        `toml:"redis_addr"`
	RedisDB     int           `toml:"redis_db"`
	RedisPrefix string        `toml:"redis_prefix"`
}

// DefaultCachePrefix namespaces cache keys in a shared Redis.
const DefaultCachePrefix = "routeboard:cache:"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Pick: PickConfig{
			NodeRadius:     spatial.DefaultNodeRadius,
			EdgeThickness:  spatial.DefaultEdgeThickness,
			NodeWinsRadius: spatial.DefaultNodeWinsRadius,
		},
		Store: StoreConfig{
			Backend:         store.BackendFile,
			RedisAddr:       "localhost:6379",
			RedisPrefix:     store.DefaultRedisPrefix,
			MongoURI:        store.DefaultMongoURI,
			MongoDatabase:   store.DefaultMongoDatabase,
			MongoCollection: store.DefaultMongoCollection,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:     true,
			Backend:     CacheFile,
			TTL:         24 * time.Hour,
			RedisAddr:   "localhost:6379",
			RedisPrefix: DefaultCachePrefix,
		},
	}
}

// DefaultPath returns the config file location using the XDG convention.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path on top of the defaults. An empty
// path means DefaultPath, which may be absent. An explicit path must exist.
// Unknown keys are rejected so that typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if err := apperrors.ValidatePath(path); err != nil {
		return Config{}, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	p := c.Pick
	if p.NodeRadius <= 0 || p.EdgeThickness <= 0 || p.NodeWinsRadius <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "pick radii must be positive")
	}
	if err := c.SpatialOptions().Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "pick")
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown store backend %q (want one of %s)", c.Store.Backend, strings.Join(store.Backends, ", "))
	}
	if c.Store.Dir != "" {
		if err := apperrors.ValidatePath(c.Store.Dir); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "store.dir")
		}
	}
	if c.Server.Addr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Cache.Backend != CacheFile && c.Cache.Backend != CacheRedis {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q (want file or redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.redis_addr must not be empty")
	}
	if c.Cache.Dir != "" {
		if err := apperrors.ValidatePath(c.Cache.Dir); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "cache.dir")
		}
	}
	if c.Cache.TTL < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// SpatialOptions converts the pick section for the spatial package.
func (c Config) SpatialOptions() spatial.Options {
	return spatial.Options{
		NodeRadius:     c.Pick.NodeRadius,
		EdgeThickness:  c.Pick.EdgeThickness,
		NodeWinsRadius: c.Pick.NodeWinsRadius,
	}
}

// StoreOptions converts the store section for store.Open.
func (c Config) StoreOptions() store.Config {
	s := c.Store
	return store.Config{
		Backend:         s.Backend,
		Dir:             s.Dir,
		RedisAddr:       s.RedisAddr,
		RedisDB:         s.RedisDB,
		RedisPrefix:     s.RedisPrefix,
		MongoURI:        s.MongoURI,
		MongoDatabase:   s.MongoDatabase,
		MongoCollection: s.MongoCollection,
	}
}

// Write saves the configuration as TOML, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
