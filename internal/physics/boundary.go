package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Restitution scales both velocity components after a wall bounce.
	Restitution = 0.95
	// ImpactScale is the radial speed that maps to full impact strength.
	ImpactScale = 5.0
)

// Arena is the circular containment region.
type Arena struct {
	Center mgl64.Vec2
	Radius float64
}

// Contains reports whether b lies fully inside the arena.
func (a Arena) Contains(b Body) bool {
	return b.Pos.Sub(a.Center).Len()+b.Radius <= a.Radius
}

// Penetration returns how far b reaches past the wall, or a non-positive
// value when it is contained.
func (a Arena) Penetration(b Body) float64 {
	return b.Pos.Sub(a.Center).Len() + b.Radius - a.Radius
}

// Resolve reflects a body that crosses the wall, damps its velocity and moves
// it back along the inward normal by the penetration depth. No state is kept
// between calls; a body resting on the wall is corrected again on every call.
func (a Arena) Resolve(b *Body) (Event, bool) {
	offset := b.Pos.Sub(a.Center)
	d := offset.Len()
	if d+b.Radius <= a.Radius {
		return Event{}, false
	}
	// Only reachable with a non-positive arena radius.
	if d == 0 {
		return Event{}, false
	}

	n := offset.Mul(1 / d)
	dot := b.Vel.Dot(n)
	b.Vel = b.Vel.Sub(n.Mul(2 * dot)).Mul(Restitution)

	depth := (d + b.Radius) - a.Radius
	b.Pos = b.Pos.Sub(n.Mul(depth))

	return Event{
		Kind:     EventBoundary,
		A:        b.ID,
		Strength: ImpactStrength(dot),
		Pos:      b.Pos,
	}, true
}

// ImpactStrength maps a radial velocity component at impact to [0, 1].
func ImpactStrength(radial float64) float64 {
	return math.Min(1, math.Abs(radial)/ImpactScale)
}
