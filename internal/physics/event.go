package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type EventKind int

const (
	EventBoundary EventKind = iota
	EventCloseApproach
	EventDeflection
)

var eventKindNames = map[EventKind]string{
	EventBoundary:      "boundary",
	EventCloseApproach: "close_approach",
	EventDeflection:    "deflection",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a discrete observation emitted during a tick for presentation
// layers. B is zero for single-body events.
type Event struct {
	Kind     EventKind
	A, B     ID
	Strength float64
	Force    float64
	Pos      mgl64.Vec2
}

func (e Event) String() string {
	switch e.Kind {
	case EventBoundary:
		return fmt.Sprintf("%s body=%d impact=%.3f", e.Kind, e.A, e.Strength)
	default:
		return fmt.Sprintf("%s bodies=%d,%d strength=%.3f force=%.2f", e.Kind, e.A, e.B, e.Strength, e.Force)
	}
}

// DetectorConfig holds the thresholds for pair events.
type DetectorConfig struct {
	// CloseRange is the surface-to-surface gap below which a close approach
	// is reported. Zero disables close-approach events.
	CloseRange float64
	// DeflectionForce is the pair force magnitude at or above which a
	// deflection is reported. Zero disables deflection events.
	DeflectionForce float64
}

func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		CloseRange:      80,
		DeflectionForce: 400,
	}
}

// EventDetector collects pair events while forces are accumulated. It
// implements PairObserver.
type EventDetector struct {
	cfg    DetectorConfig
	events []Event
}

func NewEventDetector(cfg DetectorConfig) *EventDetector {
	return &EventDetector{cfg: cfg}
}

func (d *EventDetector) Config() DetectorConfig { return d.cfg }

func (d *EventDetector) ObservePair(bodies []Body, i, j int, distance, force float64) {
	a, b := bodies[i], bodies[j]
	mid := a.Pos.Add(b.Pos).Mul(0.5)

	if d.cfg.CloseRange > 0 {
		gap := distance - (a.Radius + b.Radius)
		if gap < d.cfg.CloseRange {
			d.events = append(d.events, Event{
				Kind:     EventCloseApproach,
				A:        a.ID,
				B:        b.ID,
				Strength: Closeness(gap, d.cfg.CloseRange),
				Force:    force,
				Pos:      mid,
			})
		}
	}
	if d.cfg.DeflectionForce > 0 && force >= d.cfg.DeflectionForce {
		d.events = append(d.events, Event{
			Kind:     EventDeflection,
			A:        a.ID,
			B:        b.ID,
			Strength: DeflectionStrength(force, d.cfg.DeflectionForce),
			Force:    force,
			Pos:      mid,
		})
	}
}

// Drain returns the events collected since the last call and resets the
// detector.
func (d *EventDetector) Drain() []Event {
	out := d.events
	d.events = nil
	return out
}

// Closeness maps a surface gap onto [0, 1]; 1 means touching or overlapping.
func Closeness(gap, band float64) float64 {
	if band <= 0 {
		if gap <= 0 {
			return 1
		}
		return 0
	}
	c := 1 - gap/band
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// DeflectionStrength maps a pair force onto [0, 1]. A force at the threshold
// gives 0.5 and twice the threshold or more gives 1.
func DeflectionStrength(force, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}
	return math.Min(1, force/(2*threshold))
}
