// Package config loads draftforge configuration.
//
// Configuration comes from three layers, lowest precedence first: built-in
// defaults, an optional TOML file, and DRAFTFORGE_* environment variables.
// The file is looked up at ./draftforge.toml and then
// ~/.config/draftforge/draftforge.toml.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/draftforge/draftforge/pkg/convert"
	"github.com/draftforge/draftforge/pkg/errors"
)

// FileName is the configuration file name searched for in the working
// directory and the user config directory.
const FileName = "draftforge.toml"

// Config is the full draftforge configuration.
type Config struct {
	Export ExportConfig `toml:"export"`
	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Server ServerConfig `toml:"server"`
}

// ExportConfig holds defaults applied to export calls that don't specify
// their own options.
type ExportConfig struct {
	// Units is the default source unit system (mm, cm, m, in, ft).
	Units string `toml:"units"`

	// Precision is the default decimal precision for text formats.
	Precision int `toml:"precision"`

	// Author is stamped into file headers.
	Author string `toml:"author"`

	// LayerColors overrides layer colors by name (hex values).
	LayerColors map[string]string `toml:"layer_colors"`
}

// CacheConfig controls the artifact cache.
type CacheConfig struct {
	// Enabled turns artifact caching on. Default true.
	Enabled bool `toml:"enabled"`

	// Dir is the file cache directory. Empty means the platform cache dir
	// plus "draftforge".
	Dir string `toml:"dir"`

	// Scope namespaces cache keys, so deployments sharing one Redis don't
	// serve each other's artifacts. Empty means no namespacing.
	Scope string `toml:"scope"`
}

// RedisConfig selects the Redis cache backend used by the HTTP service.
// An empty Addr means the file cache is used instead.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig selects the MongoDB export history store. An empty URI means
// history is kept in memory only.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Units:     convert.UnitIn,
			Precision: 6,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Mongo: MongoConfig{
			Database:   "draftforge",
			Collection: "exports",
		},
		Server: ServerConfig{
			Addr: ":8420",
		},
	}
}

// Load builds the effective configuration: defaults, then the first config
// file found, then environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
		break
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPath builds the effective configuration from an explicit file.
func LoadPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file over cfg. Fields absent from the file keep
// their current values.
func LoadFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "parse config %s", path)
	}
	return nil
}

// Validate checks the configuration for values the engine would reject
// later anyway, so bad config fails at startup.
func (c *Config) Validate() error {
	if err := convert.ValidateUnits(c.Export.Units); err != nil {
		return err
	}
	if c.Export.Precision < 0 || c.Export.Precision > 15 {
		return errors.New(errors.ErrCodeInvalidPrecision,
			"export.precision %d out of range [0, 15]", c.Export.Precision)
	}
	return nil
}

// CacheDir resolves the file cache directory, falling back to the platform
// cache dir when unset.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".draftforge-cache"
	}
	return filepath.Join(base, "draftforge")
}

func searchPaths() []string {
	paths := []string{FileName}
	if base, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(base, "draftforge", FileName))
	}
	return paths
}

// applyEnv applies DRAFTFORGE_* environment overrides. These win over both
// defaults and the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("DRAFTFORGE_UNITS"); v != "" {
		c.Export.Units = v
	}
	if v := os.Getenv("DRAFTFORGE_PRECISION"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Export.Precision = p
		}
	}
	if v := os.Getenv("DRAFTFORGE_AUTHOR"); v != "" {
		c.Export.Author = v
	}
	if v := os.Getenv("DRAFTFORGE_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("DRAFTFORGE_CACHE_SCOPE"); v != "" {
		c.Cache.Scope = v
	}
	if v := os.Getenv("DRAFTFORGE_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("DRAFTFORGE_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("DRAFTFORGE_LISTEN"); v != "" {
		c.Server.Addr = v
	}
}
