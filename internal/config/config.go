package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDuration    = 60.0
	DefaultSampleEvery = 5
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Arena     ArenaConfig     `yaml:"arena"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Randomize RandomizeConfig `yaml:"randomize"`
	Limits    LimitsConfig    `yaml:"limits"`
	Events    EventsConfig    `yaml:"events"`
	Trail     TrailConfig     `yaml:"trail"`
	Run       RunConfig       `yaml:"run"`
}

type ArenaConfig struct {
	Radius float64 `yaml:"radius"`
	Bodies int     `yaml:"bodies"`
	// Start is "canonical" or "random".
	Start string `yaml:"start"`
}

type PhysicsConfig struct {
	G  float64 `yaml:"g"`
	Dt float64 `yaml:"dt"`
}

type RandomizeConfig struct {
	MassMin   float64 `yaml:"mass_min"`
	MassMax   float64 `yaml:"mass_max"`
	RadiusMin float64 `yaml:"radius_min"`
	RadiusMax float64 `yaml:"radius_max"`
	VelRange  float64 `yaml:"vel_range"`
}

type LimitsConfig struct {
	MassMin   float64 `yaml:"mass_min"`
	MassMax   float64 `yaml:"mass_max"`
	RadiusMin float64 `yaml:"radius_min"`
	RadiusMax float64 `yaml:"radius_max"`
}

type EventsConfig struct {
	CloseRange      float64 `yaml:"close_range"`
	DeflectionForce float64 `yaml:"deflection_force"`
}

type TrailConfig struct {
	Enabled bool `yaml:"enabled"`
	Length  int  `yaml:"length"`
}

type RunConfig struct {
	Duration    float64 `yaml:"duration"`
	Seed        int64   `yaml:"seed"`
	SampleEvery int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	opts := sim.DefaultOptions()
	return &Config{
		Arena: ArenaConfig{
			Radius: opts.BoundaryRadius,
			Bodies: opts.Bodies,
			Start:  "canonical",
		},
		Physics: PhysicsConfig{G: opts.G, Dt: opts.Dt},
		Randomize: RandomizeConfig{
			MassMin:   opts.Random.MassMin,
			MassMax:   opts.Random.MassMax,
			RadiusMin: opts.Random.RadiusMin,
			RadiusMax: opts.Random.RadiusMax,
			VelRange:  opts.Random.VelRange,
		},
		Limits: LimitsConfig{
			MassMin:   opts.Limits.MassMin,
			MassMax:   opts.Limits.MassMax,
			RadiusMin: opts.Limits.RadiusMin,
			RadiusMax: opts.Limits.RadiusMax,
		},
		Events: EventsConfig{
			CloseRange:      opts.Detector.CloseRange,
			DeflectionForce: opts.Detector.DeflectionForce,
		},
		Trail: TrailConfig{Enabled: true, Length: opts.TrailLength},
		Run: RunConfig{
			Duration:    DefaultDuration,
			Seed:        opts.Seed,
			SampleEvery: DefaultSampleEvery,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadOnto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOnto decodes a YAML file over an existing config, so keys missing
// from the file keep the values already in cfg.
func LoadOnto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Arena.Radius <= 0:
		return fmt.Errorf("%w: arena.radius must be positive", ErrInvalidConfig)
	case c.Arena.Bodies < 2:
		return fmt.Errorf("%w: arena.bodies must be at least 2", ErrInvalidConfig)
	case c.Arena.Start != "canonical" && c.Arena.Start != "random":
		return fmt.Errorf("%w: arena.start must be canonical or random, got %q", ErrInvalidConfig, c.Arena.Start)
	case c.Physics.G <= 0:
		return fmt.Errorf("%w: physics.g must be positive", ErrInvalidConfig)
	case c.Physics.Dt <= 0:
		return fmt.Errorf("%w: physics.dt must be positive", ErrInvalidConfig)
	case c.Trail.Length < 0:
		return fmt.Errorf("%w: trail.length must not be negative", ErrInvalidConfig)
	case c.Run.Duration <= 0:
		return fmt.Errorf("%w: run.duration must be positive", ErrInvalidConfig)
	case c.Run.SampleEvery < 0:
		return fmt.Errorf("%w: run.sample_every must not be negative", ErrInvalidConfig)
	case c.Events.CloseRange < 0 || c.Events.DeflectionForce < 0:
		return fmt.Errorf("%w: event thresholds must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Options converts the file layout into controller options.
func (c *Config) Options() sim.Options {
	trail := 0
	if c.Trail.Enabled {
		trail = c.Trail.Length
	}
	return sim.Options{
		Bodies:         c.Arena.Bodies,
		G:              c.Physics.G,
		Dt:             c.Physics.Dt,
		BoundaryRadius: c.Arena.Radius,
		Seed:           c.Run.Seed,
		Random: sim.RandomRanges{
			MassMin:   c.Randomize.MassMin,
			MassMax:   c.Randomize.MassMax,
			RadiusMin: c.Randomize.RadiusMin,
			RadiusMax: c.Randomize.RadiusMax,
			VelRange:  c.Randomize.VelRange,
		},
		Limits: sim.Limits{
			MassMin:   c.Limits.MassMin,
			MassMax:   c.Limits.MassMax,
			RadiusMin: c.Limits.RadiusMin,
			RadiusMax: c.Limits.RadiusMax,
		},
		Detector: physics.DetectorConfig{
			CloseRange:      c.Events.CloseRange,
			DeflectionForce: c.Events.DeflectionForce,
		},
		TrailLength: trail,
	}
}

// NewController builds a controller and applies the configured start layout.
func (c *Config) NewController() (*sim.Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ctrl, err := sim.NewController(c.Options())
	if err != nil {
		return nil, err
	}
	if c.Arena.Start == "random" {
		if err := ctrl.Randomize(c.Arena.Radius); err != nil {
			return nil, err
		}
	}
	return ctrl, nil
}

// RunConfig returns the headless run settings.
func (c *Config) RunConfig(validate bool) sim.RunConfig {
	return sim.RunConfig{
		Duration:      c.Run.Duration,
		SampleEvery:   c.Run.SampleEvery,
		ValidateState: validate,
	}
}

// SweepParams names the numeric fields SetParam accepts.
var SweepParams = []string{"g", "dt", "radius", "bodies", "close_range", "deflection_force", "vel_range"}

// SetParam assigns a numeric field by its short name.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "g":
		c.Physics.G = v
	case "dt":
		c.Physics.Dt = v
	case "radius":
		c.Arena.Radius = v
	case "bodies":
		c.Arena.Bodies = int(v)
	case "close_range":
		c.Events.CloseRange = v
	case "deflection_force":
		c.Events.DeflectionForce = v
	case "vel_range":
		c.Randomize.VelRange = v
	default:
		return fmt.Errorf("%w: unknown parameter %q (known: %v)", ErrInvalidConfig, name, SweepParams)
	}
	return nil
}
