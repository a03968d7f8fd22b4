package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Textrux/textrux/pkg/structure"
)

// Config holds CLI and server settings loadable from a TOML file.
//
// All fields have working defaults; a missing config file is not an error.
// Command-line flags override config values, which override the defaults.
type Config struct {
	// Analysis holds the default clustering options.
	Analysis structure.Options `toml:"analysis"`

	// CacheDir overrides the XDG analysis cache directory.
	CacheDir string `toml:"cache_dir"`

	// Server holds HTTP server settings used by the serve command.
	Server ServerConfig `toml:"server"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `toml:"addr"`

	// Store selects the workspace backend: "memory" or "file".
	Store string `toml:"store"`

	// DataDir is the directory for the file workspace store.
	DataDir string `toml:"data_dir"`

	// Cache selects the analysis cache backend: "memory", "file",
	// "redis", or "none".
	Cache string `toml:"cache"`

	// RedisAddr is the redis address (host:port) for the redis cache.
	RedisAddr string `toml:"redis_addr"`

	// RedisPassword is the optional redis password.
	RedisPassword string `toml:"redis_password"`

	// RedisDB is the redis database number.
	RedisDB int `toml:"redis_db"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: structure.DefaultOptions(),
		Server: ServerConfig{
			Addr:      ":8080",
			Store:     "memory",
			Cache:     "memory",
			RedisAddr: "localhost:6379",
		},
	}
}

// defaultConfigPath returns ~/.config/textrux/config.toml.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads a TOML config file on top of the defaults. An empty path
// means the default location; a missing file at the default location is
// fine, but an explicitly given path must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Analysis = cfg.Analysis.Normalized()
	return cfg, nil
}
