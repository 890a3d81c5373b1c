package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/orbitarena/internal/sim"
)

type ExportBody struct {
	ID     int        `json:"id"`
	Pos    [2]float64 `json:"pos"`
	Vel    [2]float64 `json:"vel"`
	Mass   float64    `json:"mass"`
	Radius float64    `json:"radius"`
}

type ExportFrame struct {
	Step   int          `json:"step"`
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportEvent struct {
	Step     int     `json:"step"`
	Time     float64 `json:"time"`
	Kind     string  `json:"kind"`
	A        int     `json:"a"`
	B        int     `json:"b,omitempty"`
	Strength float64 `json:"strength"`
	Force    float64 `json:"force,omitempty"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
	Events []ExportEvent `json:"events"`
}

func NewExportData(meta RunMetadata, snaps []sim.Snapshot, events []sim.TimedEvent) ExportData {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(snaps)),
		Events: make([]ExportEvent, len(events)),
	}
	for i, snap := range snaps {
		frame := ExportFrame{Step: snap.Step, Time: snap.Time, Bodies: make([]ExportBody, len(snap.Bodies))}
		for j, b := range snap.Bodies {
			frame.Bodies[j] = ExportBody{
				ID:     int(b.ID),
				Pos:    [2]float64(b.Pos),
				Vel:    [2]float64(b.Vel),
				Mass:   b.Mass,
				Radius: b.Radius,
			}
		}
		data.Frames[i] = frame
	}
	for i, te := range events {
		data.Events[i] = ExportEvent{
			Step:     te.Step,
			Time:     te.Time,
			Kind:     te.Event.Kind.String(),
			A:        int(te.Event.A),
			B:        int(te.Event.B),
			Strength: te.Event.Strength,
			Force:    te.Event.Force,
		}
	}
	return data
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(*meta, snaps, events))
}

func (s *Store) ExportJSONFile(path, runID string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.ExportJSON(f, runID)
}
