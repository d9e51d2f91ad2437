package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Cache backends.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// defaultConfigFile is picked up from the working directory when --config
// is not given.
const defaultConfigFile = "mibscope.toml"

// Config represents the application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Corpus CorpusConfig `toml:"corpus"`
	Cache  CacheConfig  `toml:"cache"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CorpusConfig holds the location of the MIB source directory.
type CorpusConfig struct {
	Dir string `toml:"dir"`
}

// CacheConfig selects and configures the parse cache backend.
//
// Backend controls where parsed modules are cached between runs:
//   - "file" (default): JSON entries under the user cache directory.
//   - "redis": a shared Redis instance, for multi-host deployments.
//   - "none": parse everything on every start.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
	)
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(CacheBackendFile, CacheBackendRedis, CacheBackendNone)),
	); err != nil {
		return err
	}
	if c.Backend == CacheBackendRedis {
		return validation.ValidateStruct(c,
			validation.Field(&c.RedisAddr, validation.Required),
		)
	}
	return nil
}

// defaultConfig returns the configuration used when no file overrides it.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// loadConfig reads path (TOML) over the defaults. An empty path falls back
// to mibscope.toml in the working directory when that file exists, and to
// pure defaults otherwise.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// cacheDir resolves the on-disk cache location: the configured directory
// if set, otherwise a mibscope subdirectory of the user cache dir.
func (c *CacheConfig) cacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get user cache dir: %w", err)
	}
	return filepath.Join(base, "mibscope"), nil
}
