package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Particles.Baseline != 1000 || cfg.Particles.MaxCapacity != 1500 {
		t.Errorf("expected capacity 1000/1500, got %d/%d", cfg.Particles.Baseline, cfg.Particles.MaxCapacity)
	}
	if cfg.Particles.MinAge != 50 || cfg.Particles.MaxAge != 200 {
		t.Errorf("expected age range [50,200), got [%d,%d)", cfg.Particles.MinAge, cfg.Particles.MaxAge)
	}
	if cfg.Particles.VelocityScale != 4.0 {
		t.Errorf("expected velocity scale 4, got %g", cfg.Particles.VelocityScale)
	}
	if cfg.Streak.Limit != 15 {
		t.Errorf("expected streak limit 15, got %d", cfg.Streak.Limit)
	}
	if cfg.Derived.TickInterval != time.Second/60 {
		t.Errorf("expected tick interval %v, got %v", time.Second/60, cfg.Derived.TickInterval)
	}
	if cfg.Derived.StatsWindowTicks != 300 {
		t.Errorf("expected 300 stats window ticks, got %d", cfg.Derived.StatsWindowTicks)
	}
	if cfg.Derived.StrokeColor != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected opaque white stroke, got %v", cfg.Derived.StrokeColor)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("streak:\n  limit: 8\nclock:\n  tick_rate: 30\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	if cfg.Streak.Limit != 8 {
		t.Errorf("expected overridden limit 8, got %d", cfg.Streak.Limit)
	}
	if cfg.Derived.TickInterval != time.Second/30 {
		t.Errorf("expected 30 Hz interval, got %v", cfg.Derived.TickInterval)
	}
	// Untouched sections keep their defaults
	if cfg.Particles.Baseline != 1000 {
		t.Errorf("expected default baseline, got %d", cfg.Particles.Baseline)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty age range", "particles:\n  min_age: 100\n  max_age: 100\n"},
		{"zero velocity scale", "particles:\n  velocity_scale: 0\n"},
		{"zero streak limit", "streak:\n  limit: 0\n"},
		{"bad color", "render:\n  color: \"#12\"\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if again.Particles != cfg.Particles || again.Streak != cfg.Streak {
		t.Error("written config does not reload to the same values")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#10203080")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}) {
		t.Errorf("unexpected color %v", c)
	}
}

func TestSetStatsWindow(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if err := cfg.SetStatsWindow(2); err != nil {
		t.Fatalf("SetStatsWindow: %v", err)
	}
	if cfg.Derived.StatsWindowTicks != 120 {
		t.Errorf("expected 120 ticks for a 2s window, got %d", cfg.Derived.StatsWindowTicks)
	}
}
