package sim

import (
	"github.com/san-kum/orbitarena/internal/physics"
)

const (
	DefaultBodies         = 3
	DefaultG              = 150.0
	DefaultDt             = 0.02
	DefaultBoundaryRadius = 350.0
	DefaultTrailLength    = 400

	// MaxDt is the largest accepted time step; larger requests are clamped.
	MaxDt = 1.0

	// ContainmentTolerance is the relative slack allowed on the arena wall.
	ContainmentTolerance = 1e-6
)

// RandomRanges bounds the values drawn by Randomize.
type RandomRanges struct {
	MassMin, MassMax     float64
	RadiusMin, RadiusMax float64
	// VelRange bounds each velocity component to [-VelRange, VelRange].
	VelRange float64
}

// Limits bounds per-body edits made through SetMass and SetRadius.
type Limits struct {
	MassMin, MassMax     float64
	RadiusMin, RadiusMax float64
}

// Options configures a Controller.
type Options struct {
	Bodies         int
	G              float64
	Dt             float64
	BoundaryRadius float64
	Seed           int64
	Random         RandomRanges
	Limits         Limits
	Detector       physics.DetectorConfig
	// TrailLength is the number of past positions kept per body; zero
	// disables trails.
	TrailLength int
}

func DefaultOptions() Options {
	return Options{
		Bodies:         DefaultBodies,
		G:              DefaultG,
		Dt:             DefaultDt,
		BoundaryRadius: DefaultBoundaryRadius,
		Seed:           1,
		Random: RandomRanges{
			MassMin: 50, MassMax: 250,
			RadiusMin: 8, RadiusMax: 20,
			VelRange: 2.5,
		},
		Limits: Limits{
			MassMin: 50, MassMax: 300,
			RadiusMin: 5, RadiusMax: 25,
		},
		Detector:    physics.DefaultDetectorConfig(),
		TrailLength: DefaultTrailLength,
	}
}

// Params is the externally tunable per-tick state.
type Params struct {
	G              float64
	Dt             float64
	BoundaryRadius float64
	Paused         bool
}

// Frame is what observers and metrics see after each tick.
type Frame struct {
	Step   int
	Time   float64
	Params Params
	Bodies []physics.Body
	Events []physics.Event
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnStep(f Frame) { fn(f) }

type RunConfig struct {
	Duration float64
	// SampleEvery stores one snapshot per that many ticks. Zero means 1.
	SampleEvery   int
	ValidateState bool
}

type Snapshot struct {
	Step   int
	Time   float64
	Bodies []physics.Body
}

type TimedEvent struct {
	Step  int
	Time  float64
	Event physics.Event
}

type Result struct {
	Snapshots   []Snapshot
	Events      []TimedEvent
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
