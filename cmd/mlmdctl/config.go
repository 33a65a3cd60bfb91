package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is mlmdctl's on-disk configuration, loaded from a TOML file
// via github.com/BurntSushi/toml.
type Config struct {
	// DatabaseURI is the default store URI ("sqlite:..." or
	// "mysql:..."), overridable by --db.
	DatabaseURI string `toml:"database_uri"`

	// MySQLDialTimeoutSeconds is read from the config file but is not
	// passed to the store: the MySQL connect retry in internal/mlmdstore
	// (backoff.Retry) always gives up after its own fixed 10 seconds.
	MySQLDialTimeoutSeconds int `toml:"mysql_dial_timeout_seconds"`
}

func defaultConfig() Config {
	return Config{
		DatabaseURI:             "sqlite:mlmd.db",
		MySQLDialTimeoutSeconds: 10,
	}
}

// loadConfig reads path as TOML, falling back to defaults if path is
// empty or missing.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("mlmdctl: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
