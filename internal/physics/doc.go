// Package physics implements the arena physics core: point-mass bodies,
// pairwise gravity, a forward Euler integrator and the circular boundary
// resolver.
//
// The package holds no simulation state of its own. Callers own a slice of
// [Body] values and pass it through the per-tick pipeline:
//
//	physics.ResetForces(bodies)
//	physics.Accumulate(bodies, g, detector)
//	physics.Euler{}.Step(bodies, dt)
//	for i := range bodies {
//	    if ev, ok := arena.Resolve(&bodies[i]); ok {
//	        events = append(events, ev)
//	    }
//	}
//
// # Events
//
// Boundary contacts, close approaches and strong deflections are reported as
// [Event] values. Event detection only observes distances and forces that the
// core already computed; it never changes the dynamics.
package physics
