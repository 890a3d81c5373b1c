package physics

// Integrator advances velocity and position from the accumulated force.
type Integrator interface {
	Step(bodies []Body, dt float64)
}

// Euler is the explicit first-order method used by the arena:
//
//	a = F/m
//	v += a*dt
//	x += v*dt
//
// It is not symplectic and drifts in energy over long runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (Euler) Step(bodies []Body, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		acc := b.Force.Mul(1 / b.Mass)
		b.Vel = b.Vel.Add(acc.Mul(dt))
		b.Pos = b.Pos.Add(b.Vel.Mul(dt))
	}
}
