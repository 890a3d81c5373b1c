package metrics

import (
	"math"

	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
)

// Collisions counts events of one kind.
type Collisions struct {
	name  string
	kind  physics.EventKind
	count int
}

func NewCollisions(kind physics.EventKind) *Collisions {
	return &Collisions{name: kind.String() + "_events", kind: kind}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(f sim.Frame) {
	for _, ev := range f.Events {
		if ev.Kind == c.kind {
			c.count++
		}
	}
}

func (c *Collisions) Value() float64 { return float64(c.count) }
func (c *Collisions) Reset()         { c.count = 0 }

// PeakImpact tracks the strongest boundary impact seen.
type PeakImpact struct {
	peak float64
}

func NewPeakImpact() *PeakImpact { return &PeakImpact{} }

func (p *PeakImpact) Name() string { return "peak_impact" }

func (p *PeakImpact) Observe(f sim.Frame) {
	for _, ev := range f.Events {
		if ev.Kind == physics.EventBoundary {
			p.peak = math.Max(p.peak, ev.Strength)
		}
	}
}

func (p *PeakImpact) Value() float64 { return p.peak }
func (p *PeakImpact) Reset()         { p.peak = 0 }
