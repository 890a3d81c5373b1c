package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ID identifies a body within one simulation instance.
type ID int

// Body is a point mass taking part in the arena simulation.
// Force is scratch space that is only meaningful between Accumulate and the
// integrator step of the same tick.
type Body struct {
	ID     ID
	Pos    mgl64.Vec2
	Vel    mgl64.Vec2
	Mass   float64
	Radius float64
	Force  mgl64.Vec2
}

func (b Body) String() string {
	return fmt.Sprintf("body %d pos=(%.2f, %.2f) vel=(%.3f, %.3f) m=%.1f r=%.1f",
		b.ID, b.Pos.X(), b.Pos.Y(), b.Vel.X(), b.Vel.Y(), b.Mass, b.Radius)
}

// Speed returns the magnitude of the body's velocity.
func (b Body) Speed() float64 { return b.Vel.Len() }

// KineticEnergy returns 0.5 m v^2.
func (b Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Vel.Dot(b.Vel)
}

// IsValid reports whether every numeric field is finite and mass and radius
// are positive.
func (b Body) IsValid() bool {
	for _, v := range [...]float64{b.Pos[0], b.Pos[1], b.Vel[0], b.Vel[1], b.Force[0], b.Force[1], b.Mass, b.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Mass > 0 && b.Radius > 0
}

// Clone returns a copy of bodies that does not share backing storage.
func Clone(bodies []Body) []Body {
	c := make([]Body, len(bodies))
	copy(c, bodies)
	return c
}

// TotalEnergy returns kinetic plus pairwise gravitational potential energy.
// Coincident pairs contribute no potential term.
func TotalEnergy(bodies []Body, g float64) float64 {
	ke, pe := 0.0, 0.0
	for i := range bodies {
		ke += bodies[i].KineticEnergy()
		for j := i + 1; j < len(bodies); j++ {
			d := bodies[j].Pos.Sub(bodies[i].Pos).Len()
			if d == 0 {
				continue
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / d
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum.
func Momentum(bodies []Body) mgl64.Vec2 {
	var p mgl64.Vec2
	for _, b := range bodies {
		p = p.Add(b.Vel.Mul(b.Mass))
	}
	return p
}
