package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestResolveRadialBounce(t *testing.T) {
	arena := Arena{Radius: 100}
	b := Body{ID: 1, Pos: mgl64.Vec2{90, 0}, Vel: mgl64.Vec2{3, 0}, Mass: 1, Radius: 10.5}

	ev, ok := arena.Resolve(&b)
	if !ok {
		t.Fatal("expected a collision")
	}
	if math.Abs(b.Vel.X()+0.95*3) > 1e-12 {
		t.Errorf("radial velocity = %v, want %v", b.Vel.X(), -0.95*3)
	}
	if b.Vel.Y() != 0 {
		t.Errorf("tangential velocity changed: %v", b.Vel.Y())
	}
	if math.Abs(b.Pos.X()-89.5) > 1e-12 {
		t.Errorf("pos = %v, want 89.5", b.Pos.X())
	}
	if ev.Kind != EventBoundary || ev.A != 1 {
		t.Errorf("unexpected event %v", ev)
	}
	if math.Abs(ev.Strength-0.6) > 1e-12 {
		t.Errorf("impact strength = %v, want 0.6", ev.Strength)
	}
}

func TestResolveExactBoundaryNoCollision(t *testing.T) {
	arena := Arena{Radius: 100}
	b := Body{ID: 1, Pos: mgl64.Vec2{90, 0}, Vel: mgl64.Vec2{2, 0}, Mass: 1, Radius: 10}
	before := b
	if _, ok := arena.Resolve(&b); ok {
		t.Fatal("body touching the wall is not colliding")
	}
	if b != before {
		t.Errorf("body mutated: %v -> %v", before, b)
	}
}

func TestResolveContainmentAndDamping(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	arena := Arena{Center: mgl64.Vec2{5, -5}, Radius: 200}

	for i := 0; i < 1000; i++ {
		angle := rng.Float64() * 2 * math.Pi
		dist := 150 + rng.Float64()*100
		b := Body{
			ID:     1,
			Pos:    arena.Center.Add(mgl64.Vec2{math.Cos(angle) * dist, math.Sin(angle) * dist}),
			Vel:    mgl64.Vec2{rng.Float64()*10 - 5, rng.Float64()*10 - 5},
			Mass:   1,
			Radius: 5 + rng.Float64()*20,
		}
		speed := b.Speed()
		_, hit := arena.Resolve(&b)

		if d := b.Pos.Sub(arena.Center).Len() + b.Radius; d > arena.Radius*(1+1e-9) {
			t.Fatalf("case %d: not contained, reach %v > %v", i, d, arena.Radius)
		}
		if hit {
			if math.Abs(b.Speed()-Restitution*speed) > 1e-9 {
				t.Fatalf("case %d: speed %v, want %v", i, b.Speed(), Restitution*speed)
			}
		} else if b.Speed() != speed {
			t.Fatalf("case %d: speed changed without collision", i)
		}
	}
}

func TestResolveRepeatedContact(t *testing.T) {
	arena := Arena{Radius: 50}
	b := Body{ID: 2, Pos: mgl64.Vec2{0, 45}, Vel: mgl64.Vec2{0.1, 0.01}, Mass: 1, Radius: 6}

	for i := 0; i < 5; i++ {
		arena.Resolve(&b)
		if !arena.Contains(b) && arena.Penetration(b) > 1e-9 {
			t.Fatalf("pass %d: penetration %v", i, arena.Penetration(b))
		}
	}
}

func TestResolveCenterGuard(t *testing.T) {
	arena := Arena{Radius: 0}
	b := Body{ID: 1, Mass: 1, Radius: 1, Vel: mgl64.Vec2{1, 1}}
	if _, ok := arena.Resolve(&b); ok {
		t.Fatal("no normal exists at the centre")
	}
	if !b.IsValid() {
		t.Fatalf("body became invalid: %v", b)
	}
}

func TestImpactStrength(t *testing.T) {
	tests := []struct {
		radial, want float64
	}{
		{0, 0},
		{2.5, 0.5},
		{-2.5, 0.5},
		{5, 1},
		{12, 1},
	}
	for _, tt := range tests {
		if got := ImpactStrength(tt.radial); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ImpactStrength(%v) = %v, want %v", tt.radial, got, tt.want)
		}
	}
}
