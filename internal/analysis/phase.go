package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
)

// RadialSeries extracts the distance of body id from the arena center in
// every snapshot.
func RadialSeries(snaps []sim.Snapshot, id physics.ID) ([]float64, error) {
	series := make([]float64, 0, len(snaps))
	for _, snap := range snaps {
		b, ok := find(snap.Bodies, id)
		if !ok {
			return nil, fmt.Errorf("analysis: body %d missing at step %d: %w", id, snap.Step, sim.ErrUnknownBody)
		}
		series = append(series, b.Pos.Len())
	}
	return series, nil
}

func find(bodies []physics.Body, id physics.ID) (physics.Body, bool) {
	for _, b := range bodies {
		if b.ID == id {
			return b, true
		}
	}
	return physics.Body{}, false
}

type Point struct{ X, Y float64 }

// Portrait holds a body's radial distance against radial velocity.
type Portrait struct {
	Body   physics.ID
	Points []Point
}

func NewPortrait(snaps []sim.Snapshot, id physics.ID) (*Portrait, error) {
	p := &Portrait{Body: id, Points: make([]Point, 0, len(snaps))}
	for _, snap := range snaps {
		b, ok := find(snap.Bodies, id)
		if !ok {
			return nil, fmt.Errorf("analysis: body %d missing at step %d: %w", id, snap.Step, sim.ErrUnknownBody)
		}
		r := b.Pos.Len()
		vr := 0.0
		if r > 0 {
			vr = b.Vel.Dot(b.Pos) / r
		}
		p.Points = append(p.Points, Point{X: r, Y: vr})
	}
	return p, nil
}

// ASCII renders the portrait into a width x height character grid.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	// zero radial velocity line
	if minY <= 0 && minY+rangeY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := range grid[row] {
			grid[row][col] = '─'
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
