package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Physics.G != 150 {
		t.Errorf("expected G 150, got %v", cfg.Physics.G)
	}
	if cfg.Physics.Dt != 0.02 {
		t.Errorf("expected dt 0.02, got %v", cfg.Physics.Dt)
	}
	if cfg.Arena.Bodies != 3 {
		t.Errorf("expected 3 bodies, got %d", cfg.Arena.Bodies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := []byte(`
arena:
  radius: 200
  start: random
physics:
  g: 90
trail:
  enabled: false
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Arena.Radius != 200 || cfg.Physics.G != 90 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Physics.Dt != 0.02 {
		t.Errorf("unset dt should keep default, got %v", cfg.Physics.Dt)
	}
	if cfg.Options().TrailLength != 0 {
		t.Errorf("disabled trail should give length 0")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  dt: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Arena.Radius = 275
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Arena.Radius != 275 {
		t.Errorf("expected radius 275, got %v", loaded.Arena.Radius)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero radius", func(c *Config) { c.Arena.Radius = 0 }},
		{"single body", func(c *Config) { c.Arena.Bodies = 1 }},
		{"bad start", func(c *Config) { c.Arena.Start = "spiral" }},
		{"zero g", func(c *Config) { c.Physics.G = 0 }},
		{"negative trail", func(c *Config) { c.Trail.Length = -1 }},
		{"zero duration", func(c *Config) { c.Run.Duration = 0 }},
		{"negative close range", func(c *Config) { c.Events.CloseRange = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tight")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Arena.Radius != 160 {
		t.Errorf("expected radius 160, got %v", cfg.Arena.Radius)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsBuildControllers(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			ctrl, err := cfg.NewController()
			if err != nil {
				t.Fatalf("preset %s: %v", name, err)
			}
			if got := len(ctrl.Bodies()); got != cfg.Arena.Bodies {
				t.Errorf("expected %d bodies, got %d", cfg.Arena.Bodies, got)
			}
		})
	}
}

func TestLoadOntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  g: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("tight")
	if err := LoadOnto(path, cfg); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Physics.G != 50 {
		t.Errorf("expected file value G 50, got %v", cfg.Physics.G)
	}
	if cfg.Arena.Radius != 160 || cfg.Events.CloseRange != 40 {
		t.Errorf("preset values lost: %+v", cfg)
	}
}

func TestPresetInfoCoversPresets(t *testing.T) {
	for _, name := range ListPresets() {
		if PresetInfo[name] == "" {
			t.Errorf("preset %s has no description", name)
		}
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		val  float64
		get  func() float64
	}{
		{"g", 42, func() float64 { return cfg.Physics.G }},
		{"dt", 0.005, func() float64 { return cfg.Physics.Dt }},
		{"radius", 220, func() float64 { return cfg.Arena.Radius }},
		{"bodies", 5, func() float64 { return float64(cfg.Arena.Bodies) }},
		{"close_range", 30, func() float64 { return cfg.Events.CloseRange }},
		{"deflection_force", 900, func() float64 { return cfg.Events.DeflectionForce }},
		{"vel_range", 1.5, func() float64 { return cfg.Randomize.VelRange }},
	}
	for _, tt := range tests {
		if err := cfg.SetParam(tt.name, tt.val); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got := tt.get(); got != tt.val {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.val)
		}
	}

	if err := cfg.SetParam("spin", 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
