package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
)

var ErrNoSnapshots = errors.New("export: no snapshots")

var palette = []string{"#ff6b6b", "#feca57", "#48dbfb", "#1dd1a1", "#ff9ff3", "#5f27cd", "#c8d6e5", "#ff9f43"}

// BodyColor returns the stroke color used for the i-th body.
func BodyColor(i int) string { return palette[i%len(palette)] }

// RunSVG draws the arena, each body's path over all snapshots and the
// bodies at their last recorded position. size is the image edge in pixels.
func RunSVG(snaps []sim.Snapshot, arenaRadius float64, size int) (string, error) {
	if len(snaps) == 0 {
		return "", ErrNoSnapshots
	}
	if arenaRadius <= 0 || size <= 0 {
		return "", fmt.Errorf("export: invalid arena radius %g or size %d", arenaRadius, size)
	}

	half := float64(size) / 2
	scale := (half - 2) / arenaRadius
	project := func(p mgl64.Vec2) (float64, float64) {
		return half + p.X()*scale, half - p.Y()*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#666688" stroke-width="1.5"/>
`, size, size, size, size, half, half, arenaRadius*scale)

	last := snaps[len(snaps)-1]
	for i, b := range last.Bodies {
		path := bodyPath(snaps, b.ID)
		if len(path) < 2 {
			continue
		}
		sb.WriteString(`<path fill="none" stroke-opacity="0.6" stroke-width="1" stroke="` + BodyColor(i) + `" d="M`)
		for j, p := range path {
			x, y := project(p)
			if j > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
	}

	for i, b := range last.Bodies {
		x, y := project(b.Pos)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>body %d m=%.1f</title></circle>
`, x, y, max(1, b.Radius*scale), BodyColor(i), b.ID, b.Mass)
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

func bodyPath(snaps []sim.Snapshot, id physics.ID) []mgl64.Vec2 {
	pts := make([]mgl64.Vec2, 0, len(snaps))
	for _, snap := range snaps {
		for _, b := range snap.Bodies {
			if b.ID == id {
				pts = append(pts, b.Pos)
				break
			}
		}
	}
	return pts
}

func WriteRunSVG(w io.Writer, snaps []sim.Snapshot, arenaRadius float64, size int) error {
	svg, err := RunSVG(snaps, arenaRadius, size)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, svg)
	return err
}

func WriteRunSVGFile(path string, snaps []sim.Snapshot, arenaRadius float64, size int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteRunSVG(f, snaps, arenaRadius, size)
}
