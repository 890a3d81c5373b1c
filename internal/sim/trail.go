package sim

import "github.com/go-gl/mathgl/mgl64"

// Trail is a bounded history of positions, oldest first.
type Trail struct {
	points []mgl64.Vec2
	head   int
	size   int
}

func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{points: make([]mgl64.Vec2, capacity)}
}

func (t *Trail) Cap() int { return len(t.points) }
func (t *Trail) Len() int { return t.size }

func (t *Trail) Push(p mgl64.Vec2) {
	if len(t.points) == 0 {
		return
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % len(t.points)
	if t.size < len(t.points) {
		t.size++
	}
}

// Points returns the stored positions in insertion order.
func (t *Trail) Points() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, t.size)
	start := (t.head - t.size + len(t.points)) % max(len(t.points), 1)
	for i := 0; i < t.size; i++ {
		out[i] = t.points[(start+i)%len(t.points)]
	}
	return out
}

func (t *Trail) Clear() {
	t.head = 0
	t.size = 0
}

// Resize changes the capacity, keeping the newest points that still fit.
func (t *Trail) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	pts := t.Points()
	if len(pts) > capacity {
		pts = pts[len(pts)-capacity:]
	}
	t.points = make([]mgl64.Vec2, capacity)
	t.head, t.size = 0, 0
	for _, p := range pts {
		t.Push(p)
	}
}
