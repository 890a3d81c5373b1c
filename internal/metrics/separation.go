package metrics

import (
	"math"

	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
)

// MinSeparation records the smallest centre-to-centre distance between any
// two bodies.
type MinSeparation struct {
	min float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return "min_separation" }

func (m *MinSeparation) Observe(f sim.Frame) {
	for i := range f.Bodies {
		for j := i + 1; j < len(f.Bodies); j++ {
			d := f.Bodies[j].Pos.Sub(f.Bodies[i].Pos).Len()
			m.min = math.Min(m.min, d)
		}
	}
}

func (m *MinSeparation) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinSeparation) Reset() { m.min = math.Inf(1) }

// Default returns the metric set recorded for every stored run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewCollisions(physics.EventBoundary),
		NewCollisions(physics.EventCloseApproach),
		NewPeakImpact(),
		NewMinSeparation(),
	}
}
