package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestEventDetector(t *testing.T) {
	bodies := []Body{
		{ID: 1, Pos: mgl64.Vec2{0, 0}, Mass: 100, Radius: 10},
		{ID: 2, Pos: mgl64.Vec2{60, 0}, Mass: 100, Radius: 10},
		{ID: 3, Pos: mgl64.Vec2{0, 500}, Mass: 100, Radius: 10},
	}
	det := NewEventDetector(DetectorConfig{CloseRange: 80, DeflectionForce: 2})
	Accumulate(bodies, 1, det)

	events := det.Drain()
	var close, deflect int
	for _, ev := range events {
		switch ev.Kind {
		case EventCloseApproach:
			close++
			if ev.A != 1 || ev.B != 2 {
				t.Errorf("close approach between %d,%d, want 1,2", ev.A, ev.B)
			}
			// gap = 60 - 20 = 40, closeness = 1 - 40/80
			if math.Abs(ev.Strength-0.5) > 1e-12 {
				t.Errorf("closeness = %v, want 0.5", ev.Strength)
			}
		case EventDeflection:
			deflect++
			// 100*100/3600
			if math.Abs(ev.Force-100.0*100/3600) > 1e-9 {
				t.Errorf("force = %v", ev.Force)
			}
		}
	}
	if close != 1 || deflect != 1 {
		t.Errorf("got %d close approaches and %d deflections, want 1 and 1", close, deflect)
	}
	if len(det.Drain()) != 0 {
		t.Error("Drain should reset the detector")
	}
}

func TestEventDetectorDisabled(t *testing.T) {
	bodies := []Body{
		{ID: 1, Pos: mgl64.Vec2{0, 0}, Mass: 100, Radius: 10},
		{ID: 2, Pos: mgl64.Vec2{25, 0}, Mass: 100, Radius: 10},
	}
	det := NewEventDetector(DetectorConfig{})
	Accumulate(bodies, 1, det)
	if evs := det.Drain(); len(evs) != 0 {
		t.Errorf("expected no events, got %v", evs)
	}
}

func TestCloseness(t *testing.T) {
	tests := []struct {
		gap, band, want float64
	}{
		{0, 80, 1},
		{-5, 80, 1},
		{40, 80, 0.5},
		{80, 80, 0},
		{200, 80, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := Closeness(tt.gap, tt.band); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Closeness(%v, %v) = %v, want %v", tt.gap, tt.band, got, tt.want)
		}
	}
}

func TestEventKindString(t *testing.T) {
	if EventBoundary.String() != "boundary" {
		t.Errorf("got %q", EventBoundary.String())
	}
	if EventKind(42).String() != "EventKind(42)" {
		t.Errorf("got %q", EventKind(42).String())
	}
}

func TestDeflectionStrengthWithoutCloseRange(t *testing.T) {
	bodies := []Body{
		{ID: 1, Pos: mgl64.Vec2{0, 0}, Mass: 100, Radius: 10},
		{ID: 2, Pos: mgl64.Vec2{100, 0}, Mass: 100, Radius: 10},
	}
	// force = 100*100/100^2 = 1, threshold 0.8 -> 1/1.6
	det := NewEventDetector(DetectorConfig{DeflectionForce: 0.8})
	Accumulate(bodies, 1, det)

	events := det.Drain()
	if len(events) != 1 || events[0].Kind != EventDeflection {
		t.Fatalf("expected one deflection, got %v", events)
	}
	if got := events[0].Strength; math.Abs(got-0.625) > 1e-12 {
		t.Errorf("strength = %v, want 0.625", got)
	}
}

func TestDeflectionStrength(t *testing.T) {
	tests := []struct {
		force, threshold, want float64
	}{
		{400, 400, 0.5},
		{600, 400, 0.75},
		{2000, 400, 1},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := DeflectionStrength(tt.force, tt.threshold); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("DeflectionStrength(%v, %v) = %v, want %v", tt.force, tt.threshold, got, tt.want)
		}
	}
}
