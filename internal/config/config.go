// Package config resolves questboard settings: built-in defaults, then an
// optional YAML file, then QUESTBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"questboard/internal/calendar"
	"questboard/internal/storage"
)

// PathEnv names the config file when --config is not given.
const PathEnv = "QUESTBOARD_CONFIG"

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Store       string    `yaml:"store" env:"QUESTBOARD_STORE"`
	SQLitePath  string    `yaml:"sqlite_path" env:"QUESTBOARD_DB"`
	DatabaseURL string    `yaml:"database_url" env:"QUESTBOARD_DATABASE_URL"`
	Owner       string    `yaml:"owner" env:"QUESTBOARD_OWNER"`
	Timezone    string    `yaml:"timezone" env:"QUESTBOARD_TZ"`
	Locale      string    `yaml:"locale" env:"QUESTBOARD_LOCALE"`
	Seed        uint64    `yaml:"seed" env:"QUESTBOARD_SEED"` // 0 means unseeded
	Log         LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"QUESTBOARD_LOG_LEVEL"`
	Format string `yaml:"format" env:"QUESTBOARD_LOG_FORMAT"` // text or json
}

func Default() *Config {
	return &Config{
		Store:  DriverSQLite,
		Owner:  "local",
		Locale: "und",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty) and the environment, in that order. A missing file at the
// default location is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(PathEnv)
		explicit = path != ""
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Store == DriverSQLite {
		p, err := storage.ResolveDBPath(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		cfg.SQLitePath = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: store %q needs database_url", c.Store)
		}
	default:
		return fmt.Errorf("config: unknown store %q (want memory, sqlite or postgres)", c.Store)
	}
	if strings.TrimSpace(c.Owner) == "" {
		return errors.New("config: owner is required")
	}
	if _, err := calendar.Load(c.Timezone); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.LocaleTag(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// Calendar returns the calendar for the configured timezone.
func (c *Config) Calendar() (calendar.Calendar, error) {
	return calendar.Load(c.Timezone)
}

func (c *Config) LocaleTag() (language.Tag, error) {
	if strings.TrimSpace(c.Locale) == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("config: locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// NewLogger builds the slog logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", s, err)
	}
	return level, nil
}
