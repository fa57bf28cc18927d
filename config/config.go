// Package config provides configuration loading and access for the wind map.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all wind map configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Particles ParticlesConfig `yaml:"particles"`
	Render    RenderConfig    `yaml:"render"`
	Streak    StreakConfig    `yaml:"streak"`
	Clock     ClockConfig     `yaml:"clock"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig selects the wind field source.
type FieldConfig struct {
	Path      string          `yaml:"path"`
	Synthetic SyntheticConfig `yaml:"synthetic"`
}

// SyntheticConfig parameterizes the generated field used when no file is given.
type SyntheticConfig struct {
	Cols     int     `yaml:"cols"`
	Rows     int     `yaml:"rows"`
	StartLon float64 `yaml:"start_lon"`
	StartLat float64 `yaml:"start_lat"`
	EndLon   float64 `yaml:"end_lon"`
	EndLat   float64 `yaml:"end_lat"`
	MaxSpeed float64 `yaml:"max_speed"`
	Scale    float64 `yaml:"scale"` // noise features across the domain
	Seed     int64   `yaml:"seed"`
}

// ParticlesConfig holds particle pool parameters.
type ParticlesConfig struct {
	Baseline      int     `yaml:"baseline"`
	MaxCapacity   int     `yaml:"max_capacity"`
	MinAge        int     `yaml:"min_age"`
	MaxAge        int     `yaml:"max_age"`
	VelocityScale float64 `yaml:"velocity_scale"`
	SpawnAttempts int     `yaml:"spawn_attempts"`
}

// RenderConfig holds trail stroke parameters.
type RenderConfig struct {
	FadeWindow float64 `yaml:"fade_window"`
	LineWidth  float64 `yaml:"line_width"`
	Color      string  `yaml:"color"`
}

// StreakConfig holds streak compositor parameters.
type StreakConfig struct {
	Limit int `yaml:"limit"`
}

// ClockConfig holds simulation clock parameters.
type ClockConfig struct {
	TickRate   int `yaml:"tick_rate"`
	MaxCatchUp int `yaml:"max_catch_up"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`
	StatsWindow float64 `yaml:"stats_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval     time.Duration // 1/TickRate
	StatsWindowTicks int           // StatsWindow in ticks
	StrokeColor      color.NRGBA   // parsed Render.Color
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	p := c.Particles
	if p.MinAge < 1 || p.MaxAge <= p.MinAge {
		return fmt.Errorf("particles: age range [%d,%d) is empty", p.MinAge, p.MaxAge)
	}
	if p.VelocityScale <= 0 {
		return fmt.Errorf("particles: velocity_scale must be positive, got %g", p.VelocityScale)
	}
	if p.MaxCapacity < 0 {
		return fmt.Errorf("particles: max_capacity must not be negative, got %d", p.MaxCapacity)
	}
	if c.Streak.Limit < 1 {
		return fmt.Errorf("streak: limit must be at least 1, got %d", c.Streak.Limit)
	}
	if c.Clock.TickRate < 1 {
		return fmt.Errorf("clock: tick_rate must be at least 1, got %d", c.Clock.TickRate)
	}
	if c.Render.FadeWindow <= 0 {
		return fmt.Errorf("render: fade_window must be positive, got %g", c.Render.FadeWindow)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.TickInterval = time.Second / time.Duration(c.Clock.TickRate)
	c.Derived.StatsWindowTicks = int(c.Telemetry.StatsWindow * float64(c.Clock.TickRate))
	if c.Derived.StatsWindowTicks < 1 {
		c.Derived.StatsWindowTicks = c.Clock.TickRate
	}

	col, err := ParseHexColor(c.Render.Color)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	c.Derived.StrokeColor = col
	return nil
}

// SetStatsWindow overrides the stats window length and recomputes the
// derived tick count.
func (c *Config) SetStatsWindow(seconds float64) error {
	c.Telemetry.StatsWindow = seconds
	return c.computeDerived()
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" into an NRGBA color.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xFF
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
