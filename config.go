package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/maxodo98/osr-gtfs-flex/nav"
)

// Config holds the application configuration
type Config struct {
	Port      string     `toml:"port"`
	LogLevel  string     `toml:"log_level"`
	RateLimit int        `toml:"rate_limit"` // requests per second, 0 disables
	Nav       nav.Config `toml:"nav"`
}

// LoadConfig loads the configuration from a TOML file. An unrecognized
// nav.default_profile is an error, never replaced by a default.
func LoadConfig(filename string) (Config, error) {
	var config Config
	md, err := toml.DecodeFile(filename, &config)
	if err != nil {
		return Config{}, fmt.Errorf("error decoding config file: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config keys: %v", undecoded)
	}

	if config.Port == "" {
		config.Port = ":8080"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if !md.IsDefined("nav", "default_profile") {
		config.Nav.DefaultProfile = nav.DefaultProfile
	}
	if config.Nav.Units == "" {
		config.Nav.Units = nav.DefaultUnit
	}

	if config.Nav.ValhallaURL == "" {
		return Config{}, fmt.Errorf("nav.valhalla_url is required in config file")
	}
	if !config.Nav.Units.IsValid() {
		return Config{}, fmt.Errorf("nav.units must be one of: %s, %s", nav.UnitKilometers, nav.UnitMiles)
	}
	if config.RateLimit < 0 {
		return Config{}, fmt.Errorf("rate_limit must not be negative")
	}
	if _, err := config.level(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger creates a text logger writing to w at the configured level
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
