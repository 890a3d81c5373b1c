package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitarena/internal/physics"
)

const (
	canonicalMass   = 120.0
	canonicalRadius = 16.0
	canonicalSpeed  = 2.2
	canonicalOffset = 120.0

	// randomSpread keeps randomized bodies away from the wall.
	randomSpread = 0.8
)

// Controller owns the body set and the per-tick parameters. It is not safe
// for concurrent use.
type Controller struct {
	opts       Options
	bodies     []physics.Body
	trails     []*Trail
	g, dt      float64
	arena      physics.Arena
	paused     bool
	integrator physics.Integrator
	detector   *physics.EventDetector
	rng        *rand.Rand
	step       int
	time       float64
}

// NewController validates opts and returns a controller holding the
// canonical body layout.
func NewController(opts Options) (*Controller, error) {
	if opts.Bodies < 2 {
		return nil, boundsError("bodies", float64(opts.Bodies), "must be at least 2")
	}
	if err := validateRanges(opts); err != nil {
		return nil, err
	}

	c := &Controller{
		opts:       opts,
		integrator: physics.NewEuler(),
		detector:   physics.NewEventDetector(opts.Detector),
		rng:        rand.New(rand.NewSource(opts.Seed)),
		trails:     make([]*Trail, opts.Bodies),
	}
	for i := range c.trails {
		c.trails[i] = NewTrail(opts.TrailLength)
	}
	if err := c.SetG(opts.G); err != nil {
		return nil, err
	}
	if err := c.SetTimeStep(opts.Dt); err != nil {
		return nil, err
	}
	if err := c.Reset(opts.BoundaryRadius); err != nil {
		return nil, err
	}
	return c, nil
}

func validateRanges(opts Options) error {
	r, l := opts.Random, opts.Limits
	switch {
	case r.MassMin <= 0 || r.MassMax < r.MassMin:
		return boundsError("random.mass_min", r.MassMin, "needs 0 < min <= max")
	case r.RadiusMin <= 0 || r.RadiusMax < r.RadiusMin:
		return boundsError("random.radius_min", r.RadiusMin, "needs 0 < min <= max")
	case r.VelRange < 0:
		return boundsError("random.vel_range", r.VelRange, "must not be negative")
	case l.MassMin <= 0 || l.MassMax < l.MassMin:
		return boundsError("limits.mass_min", l.MassMin, "needs 0 < min <= max")
	case l.RadiusMin <= 0 || l.RadiusMax < l.RadiusMin:
		return boundsError("limits.radius_min", l.RadiusMin, "needs 0 < min <= max")
	}
	return nil
}

// Tick advances the simulation by one time step and returns the events it
// produced. It does nothing while paused.
func (c *Controller) Tick() []physics.Event {
	if c.paused {
		return nil
	}

	physics.ResetForces(c.bodies)
	physics.Accumulate(c.bodies, c.g, c.detector)
	c.integrator.Step(c.bodies, c.dt)

	events := c.detector.Drain()
	for i := range c.bodies {
		if ev, ok := c.arena.Resolve(&c.bodies[i]); ok {
			events = append(events, ev)
		}
		c.trails[i].Push(c.bodies[i].Pos)
	}

	c.step++
	c.time += c.dt
	return events
}

// Reset replaces the bodies with the canonical quasi-orbital layout.
func (c *Controller) Reset(boundaryRadius float64) error {
	if !finite(boundaryRadius) || boundaryRadius <= canonicalRadius {
		return boundsError("boundary_radius", boundaryRadius, "too small for the canonical layout")
	}
	c.arena.Radius = boundaryRadius

	s := math.Min(canonicalOffset, 0.6*(boundaryRadius-canonicalRadius))
	bodies := make([]physics.Body, c.opts.Bodies)
	for i := range bodies {
		pos, vel := canonicalSlot(i, len(bodies), s)
		bodies[i] = physics.Body{
			ID:     physics.ID(i + 1),
			Pos:    c.arena.Center.Add(pos),
			Vel:    vel,
			Mass:   canonicalMass,
			Radius: canonicalRadius,
		}
	}
	c.replace(bodies)
	return nil
}

// canonicalSlot returns offset and velocity for body i. The first three
// slots are the classic left/right/top arrangement; larger sets continue on
// an evenly spaced ring with tangential velocity.
func canonicalSlot(i, n int, s float64) (mgl64.Vec2, mgl64.Vec2) {
	if n <= 3 {
		switch i {
		case 0:
			return mgl64.Vec2{-s, 0}, mgl64.Vec2{0, canonicalSpeed}
		case 1:
			return mgl64.Vec2{s, 0}, mgl64.Vec2{0, -canonicalSpeed}
		default:
			return mgl64.Vec2{0, -s}, mgl64.Vec2{canonicalSpeed, 0}
		}
	}
	angle := 2 * math.Pi * float64(i) / float64(n)
	dir := mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
	return dir.Mul(s), mgl64.Vec2{-dir.Y(), dir.X()}.Mul(canonicalSpeed)
}

// Randomize assigns fresh random positions, velocities, masses and radii to
// the existing bodies. Ids and count are preserved.
func (c *Controller) Randomize(boundaryRadius float64) error {
	r := c.opts.Random
	if !finite(boundaryRadius) || boundaryRadius <= r.RadiusMax {
		return boundsError("boundary_radius", boundaryRadius, "must exceed random.radius_max")
	}
	c.arena.Radius = boundaryRadius

	maxDist := randomSpread * boundaryRadius
	bodies := make([]physics.Body, len(c.bodies))
	for i, old := range c.bodies {
		angle := c.rng.Float64() * 2 * math.Pi
		dist := maxDist * math.Sqrt(c.rng.Float64())
		bodies[i] = physics.Body{
			ID:  old.ID,
			Pos: c.arena.Center.Add(mgl64.Vec2{math.Cos(angle) * dist, math.Sin(angle) * dist}),
			Vel: mgl64.Vec2{
				(c.rng.Float64()*2 - 1) * r.VelRange,
				(c.rng.Float64()*2 - 1) * r.VelRange,
			},
			Mass:   uniform(c.rng, r.MassMin, r.MassMax),
			Radius: uniform(c.rng, r.RadiusMin, r.RadiusMax),
		}
	}
	c.replace(bodies)
	return nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func (c *Controller) replace(bodies []physics.Body) {
	c.bodies = bodies
	for _, t := range c.trails {
		t.Clear()
	}
	c.step = 0
	c.time = 0
}

func (c *Controller) SetG(g float64) error {
	if !finite(g) || g <= 0 {
		return boundsError("g", g, "must be positive")
	}
	c.g = g
	return nil
}

// SetTimeStep sets dt; values above MaxDt are clamped.
func (c *Controller) SetTimeStep(dt float64) error {
	if !finite(dt) || dt <= 0 {
		return boundsError("dt", dt, "must be positive")
	}
	c.dt = math.Min(dt, MaxDt)
	return nil
}

// SetBoundaryRadius changes the arena size. Bodies outside the new wall are
// pushed back in by the next tick.
func (c *Controller) SetBoundaryRadius(r float64) error {
	if !finite(r) || r <= 0 {
		return boundsError("boundary_radius", r, "must be positive")
	}
	for _, b := range c.bodies {
		if b.Radius >= r {
			return boundsError("boundary_radius", r, fmt.Sprintf("must exceed body %d radius %g", b.ID, b.Radius))
		}
	}
	c.arena.Radius = r
	return nil
}

func (c *Controller) SetPaused(p bool) { c.paused = p }

// SetTrailLength changes how many positions each trail keeps.
func (c *Controller) SetTrailLength(n int) error {
	if n < 0 {
		return boundsError("trail_length", float64(n), "must not be negative")
	}
	c.opts.TrailLength = n
	for _, t := range c.trails {
		t.Resize(n)
	}
	return nil
}

// SetMass changes one body's mass, clamped into the configured limits.
func (c *Controller) SetMass(id physics.ID, m float64) error {
	b, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !finite(m) || m <= 0 {
		return boundsError("mass", m, "must be positive")
	}
	b.Mass = clamp(m, c.opts.Limits.MassMin, c.opts.Limits.MassMax)
	return nil
}

// SetRadius changes one body's radius, clamped into the configured limits.
func (c *Controller) SetRadius(id physics.ID, r float64) error {
	b, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !finite(r) || r <= 0 {
		return boundsError("radius", r, "must be positive")
	}
	r = clamp(r, c.opts.Limits.RadiusMin, c.opts.Limits.RadiusMax)
	if r >= c.arena.Radius {
		return boundsError("radius", r, "must be smaller than the arena")
	}
	b.Radius = r
	return nil
}

func (c *Controller) SetVelocity(id physics.ID, v mgl64.Vec2) error {
	b, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !finite(v.X()) || !finite(v.Y()) {
		return boundsError("velocity", v.Len(), "must be finite")
	}
	b.Vel = v
	return nil
}

func (c *Controller) lookup(id physics.ID) (*physics.Body, error) {
	for i := range c.bodies {
		if c.bodies[i].ID == id {
			return &c.bodies[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownBody, id)
}

// Bodies returns a copy of the current body set.
func (c *Controller) Bodies() []physics.Body {
	return physics.Clone(c.bodies)
}

func (c *Controller) Body(id physics.ID) (physics.Body, error) {
	b, err := c.lookup(id)
	if err != nil {
		return physics.Body{}, err
	}
	return *b, nil
}

// Trail returns the recorded positions of body id, oldest first.
func (c *Controller) Trail(id physics.ID) ([]mgl64.Vec2, error) {
	for i := range c.bodies {
		if c.bodies[i].ID == id {
			return c.trails[i].Points(), nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownBody, id)
}

func (c *Controller) Params() Params {
	return Params{
		G:              c.g,
		Dt:             c.dt,
		BoundaryRadius: c.arena.Radius,
		Paused:         c.paused,
	}
}

func (c *Controller) Arena() physics.Arena { return c.arena }
func (c *Controller) Options() Options     { return c.opts }
func (c *Controller) Step() int            { return c.step }
func (c *Controller) Time() float64        { return c.time }

// Energy returns the current total energy of the body set.
func (c *Controller) Energy() float64 {
	return physics.TotalEnergy(c.bodies, c.g)
}

func (c *Controller) frame(events []physics.Event) Frame {
	return Frame{
		Step:   c.step,
		Time:   c.time,
		Params: c.Params(),
		Bodies: c.Bodies(),
		Events: events,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
