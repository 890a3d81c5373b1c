package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PairObserver receives every pair that contributed a force during
// Accumulate. i and j index into the bodies slice, distance is the
// centre-to-centre separation and force the magnitude applied to each body.
type PairObserver interface {
	ObservePair(bodies []Body, i, j int, distance, force float64)
}

// ResetForces zeroes every body's accumulator.
func ResetForces(bodies []Body) {
	for i := range bodies {
		bodies[i].Force = mgl64.Vec2{}
	}
}

// Accumulate adds the pairwise gravitational attraction G*mi*mj/d^2 to each
// body's accumulator. The force on j is the exact negation of the force on i.
// Coincident pairs and pairs whose force is not finite are skipped for this
// call. obs may be nil.
func Accumulate(bodies []Body, g float64, obs PairObserver) {
	n := len(bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			delta := bodies[j].Pos.Sub(bodies[i].Pos)
			d := delta.Len()
			if d == 0 {
				continue
			}

			gm := g * bodies[i].Mass * bodies[j].Mass
			mag := gm / (d * d)
			// At tiny separations d^3 underflows or the product overflows
			// even when mag is finite.
			f := delta.Mul(gm / (d * d * d))
			if !finite(mag) || !finite(f[0]) || !finite(f[1]) {
				continue
			}

			bodies[i].Force = bodies[i].Force.Add(f)
			bodies[j].Force = bodies[j].Force.Sub(f)

			if obs != nil {
				obs.ObservePair(bodies, i, j, d, mag)
			}
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
