package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
)

func sampleResult() *sim.Result {
	bodies := []physics.Body{
		{ID: 1, Pos: mgl64.Vec2{-10, 0}, Vel: mgl64.Vec2{0, 2.2}, Mass: 120, Radius: 16},
		{ID: 2, Pos: mgl64.Vec2{10, 0.5}, Vel: mgl64.Vec2{0, -2.2}, Mass: 80, Radius: 9.5},
	}
	moved := physics.Clone(bodies)
	moved[0].Pos = mgl64.Vec2{-9.75, 0.044}

	return &sim.Result{
		Snapshots: []sim.Snapshot{
			{Step: 0, Time: 0, Bodies: bodies},
			{Step: 5, Time: 0.1, Bodies: moved},
		},
		Events: []sim.TimedEvent{
			{Step: 3, Time: 0.06, Event: physics.Event{Kind: physics.EventBoundary, A: 2, Strength: 0.6, Pos: mgl64.Vec2{89.5, 0}}},
			{Step: 4, Time: 0.08, Event: physics.Event{Kind: physics.EventCloseApproach, A: 1, B: 2, Strength: 0.25, Force: 37.5}},
		},
		Metrics:     map[string]float64{"energy": 1.5},
		EnergyDrift: 0.01,
		StepsTaken:  5,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Preset: "test", Seed: 42, G: 150, Dt: 0.02}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "test" || meta.Seed != 42 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Bodies != 2 || meta.Steps != 5 {
		t.Errorf("expected 2 bodies and 5 steps, got %d and %d", meta.Bodies, meta.Steps)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}

	snaps, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	got := snaps[1].Bodies[0]
	if got.ID != 1 || snaps[1].Step != 5 {
		t.Errorf("unexpected snapshot header: step %d id %d", snaps[1].Step, got.ID)
	}
	if !got.Pos.ApproxEqualThreshold(mgl64.Vec2{-9.75, 0.044}, 1e-6) {
		t.Errorf("position mismatch: %v", got.Pos)
	}
	if b := snaps[0].Bodies[1]; b.ID != 2 || b.Mass != 80 || math.Abs(b.Radius-9.5) > 1e-9 {
		t.Errorf("body 2 mismatch: %+v", b)
	}
}

func TestStoreLoadEvents(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Preset: "events"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	events, err := st.LoadEvents(runID)
	if err != nil {
		t.Fatalf("load events failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event.Kind != physics.EventBoundary || events[0].Event.A != 2 {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].Event.Kind != physics.EventCloseApproach || events[1].Event.B != 2 || events[1].Step != 4 {
		t.Errorf("unexpected second event: %+v", events[1])
	}
	if math.Abs(events[1].Event.Force-37.5) > 1e-9 {
		t.Errorf("expected force 37.5, got %f", events[1].Event.Force)
	}
}

func TestStoreLoadEventsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	runDir := filepath.Join(dir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "step,time,kind,a,b,strength,force,x,y\n1,0.02,explosion,1,0,1,0,0,0\n"
	if err := os.WriteFile(filepath.Join(runDir, eventsFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadEvents("bad"); err == nil {
		t.Error("expected error for unknown event kind")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"first", "second"} {
		if _, err := st.Save(RunMetadata{Preset: name}, &sim.Result{}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Preset != "first" {
		t.Errorf("expected oldest run first, got %s", runs[0].Preset)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Preset: "export", Seed: 7}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.Seed != 7 {
		t.Errorf("expected seed 7, got %d", data.Run.Seed)
	}
	if len(data.Frames) != 2 || len(data.Frames[0].Bodies) != 2 {
		t.Errorf("unexpected frames: %+v", data.Frames)
	}
	if len(data.Events) != 2 || data.Events[1].Kind != "close_approach" {
		t.Errorf("unexpected events: %+v", data.Events)
	}
}

func TestExportJSONFile(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "runs"))
	runID, err := st.Save(RunMetadata{Preset: "file"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path := filepath.Join(dir, "out.json")
	if err := st.ExportJSONFile(path, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty export file, err=%v", err)
	}
}
