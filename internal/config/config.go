// Package config loads bracketview settings from defaults, an optional TOML
// file, a .env file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	apperrors "github.com/abrezinsky/bracketview/internal/errors"
)

// Display modes
const (
	ModeBracket = "bracket"
	ModePools   = "pools"
)

// Duration is a time.Duration written as "30s" in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type ServerConfig struct {
	Port    int    `toml:"port"`
	DBPath  string `toml:"db_path"`
	BaseURL string `toml:"base_url"` // public URL encoded into QR codes; empty = derived from the request
}

type StartGGConfig struct {
	BaseURL           string `toml:"base_url"`
	Token             string `toml:"token"`
	PhaseID           string `toml:"phase_id"`
	TournamentSlug    string `toml:"tournament_slug"`
	StreamName        string `toml:"stream_name"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

type DisplayConfig struct {
	Mode     string `toml:"mode"`
	TimeZone string `toml:"time_zone"`
}

type IntervalConfig struct {
	Bracket    Duration `toml:"bracket"`
	Overlay    Duration `toml:"overlay"`
	Schedule   Duration `toml:"schedule"`
	PoolCycle  Duration `toml:"pool_cycle"`
	SideToggle Duration `toml:"side_toggle"`
}

type LayoutConfig struct {
	Strategy      string  `toml:"strategy"`
	ColumnPitch   float64 `toml:"column_pitch"`
	XOffset       float64 `toml:"x_offset"`
	WinnersHeight float64 `toml:"winners_height"`
	LosersHeight  float64 `toml:"losers_height"`
	Gap           float64 `toml:"gap"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type NATSConfig struct {
	URL string `toml:"url"` // empty = events disabled
}

// Config is the complete application configuration
type Config struct {
	Server    ServerConfig   `toml:"server"`
	StartGG   StartGGConfig  `toml:"startgg"`
	Display   DisplayConfig  `toml:"display"`
	Intervals IntervalConfig `toml:"intervals"`
	Layout    LayoutConfig   `toml:"layout"`
	Log       LogConfig      `toml:"log"`
	NATS      NATSConfig     `toml:"nats"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:   8080,
			DBPath: "bracketview.db",
		},
		StartGG: StartGGConfig{
			BaseURL:           "https://api.start.gg",
			RequestsPerMinute: 80,
		},
		Display: DisplayConfig{
			Mode:     ModeBracket,
			TimeZone: "America/Los_Angeles",
		},
		Intervals: IntervalConfig{
			Bracket:    Duration{30 * time.Second},
			Overlay:    Duration{5 * time.Second},
			Schedule:   Duration{15 * time.Second},
			PoolCycle:  Duration{8 * time.Second},
			SideToggle: Duration{4 * time.Second},
		},
		Layout: LayoutConfig{
			Strategy:      "centered",
			ColumnPitch:   220,
			XOffset:       40,
			WinnersHeight: 600,
			LosersHeight:  400,
			Gap:           60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. path is an optional TOML file; envFiles are
// loaded with godotenv (".env" when none given) and never override variables
// already present in the environment. A missing .env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	c := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.Server.DBPath = envOrDefault("BRACKETVIEW_DB_PATH", c.Server.DBPath)
	c.Server.BaseURL = envOrDefault("BRACKETVIEW_BASE_URL", c.Server.BaseURL)
	c.StartGG.BaseURL = envOrDefault("BRACKETVIEW_STARTGG_URL", c.StartGG.BaseURL)
	c.StartGG.Token = envOrDefault("STARTGG_TOKEN", c.StartGG.Token)
	c.StartGG.PhaseID = envOrDefault("BRACKETVIEW_PHASE_ID", c.StartGG.PhaseID)
	c.StartGG.TournamentSlug = envOrDefault("BRACKETVIEW_TOURNAMENT", c.StartGG.TournamentSlug)
	c.StartGG.StreamName = envOrDefault("BRACKETVIEW_STREAM", c.StartGG.StreamName)
	c.Display.Mode = envOrDefault("BRACKETVIEW_MODE", c.Display.Mode)
	c.Display.TimeZone = envOrDefault("BRACKETVIEW_TIME_ZONE", c.Display.TimeZone)
	c.Layout.Strategy = envOrDefault("BRACKETVIEW_LAYOUT_STRATEGY", c.Layout.Strategy)
	c.Log.Level = envOrDefault("BRACKETVIEW_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOrDefault("BRACKETVIEW_LOG_FORMAT", c.Log.Format)
	c.NATS.URL = envOrDefault("BRACKETVIEW_NATS_URL", c.NATS.URL)

	if v := os.Getenv("BRACKETVIEW_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BRACKETVIEW_PORT: %w", err)
		}
		c.Server.Port = port
	}

	durations := []struct {
		key string
		dst *Duration
	}{
		{"BRACKETVIEW_BRACKET_INTERVAL", &c.Intervals.Bracket},
		{"BRACKETVIEW_OVERLAY_INTERVAL", &c.Intervals.Overlay},
		{"BRACKETVIEW_SCHEDULE_INTERVAL", &c.Intervals.Schedule},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		if err := d.dst.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
	}
	return nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.Validationf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if strings.TrimSpace(c.StartGG.PhaseID) == "" {
		return apperrors.Validation("startgg phase_id is required")
	}
	if c.Display.Mode != ModeBracket && c.Display.Mode != ModePools {
		return apperrors.Validationf("display mode must be %q or %q, got %q", ModeBracket, ModePools, c.Display.Mode)
	}
	switch strings.ToLower(c.Layout.Strategy) {
	case "", "centered", "edge", "edge-anchored":
	default:
		return apperrors.Validationf("unknown layout strategy %q", c.Layout.Strategy)
	}
	if c.Layout.ColumnPitch <= 0 || c.Layout.WinnersHeight <= 0 || c.Layout.LosersHeight <= 0 {
		return apperrors.Validation("layout column_pitch and heights must be positive")
	}
	for name, d := range map[string]Duration{
		"bracket":     c.Intervals.Bracket,
		"overlay":     c.Intervals.Overlay,
		"schedule":    c.Intervals.Schedule,
		"pool_cycle":  c.Intervals.PoolCycle,
		"side_toggle": c.Intervals.SideToggle,
	} {
		if d.Duration <= 0 {
			return apperrors.Validationf("interval %s must be positive", name)
		}
	}
	if _, err := c.Location(); err != nil {
		return apperrors.Validationf("unknown time zone %q", c.Display.TimeZone)
	}
	return nil
}

// Location returns the schedule display time zone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Display.TimeZone)
}

// LosersYOffset is where the losers frame starts below the winners frame
func (c *Config) LosersYOffset() float64 {
	return c.Layout.WinnersHeight + c.Layout.Gap
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
