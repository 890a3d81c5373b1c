package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	eventsFile   = "events.csv"

	bodyColumns = 6
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Preset         string             `json:"preset"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	G              float64            `json:"g"`
	Dt             float64            `json:"dt"`
	BoundaryRadius float64            `json:"boundary_radius"`
	Duration       float64            `json:"duration"`
	Bodies         int                `json:"bodies"`
	Steps          int                `json:"steps"`
	EnergyDrift    float64            `json:"energy_drift"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata, sampled states and events.
// meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics
	if len(result.Snapshots) > 0 {
		meta.Bodies = len(result.Snapshots[0].Bodies)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result.Snapshots); err != nil {
		return "", err
	}
	if err := writeEvents(filepath.Join(runDir, eventsFile), result.Events); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeStates(path string, snaps []sim.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(snaps) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"step", "time"}
	for _, b := range snaps[0].Bodies {
		for _, col := range []string{"x", "y", "vx", "vy", "mass", "radius"} {
			header = append(header, fmt.Sprintf("b%d_%s", b.ID, col))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, snap := range snaps {
		row := []string{strconv.Itoa(snap.Step), formatFloat(snap.Time)}
		for _, b := range snap.Bodies {
			row = append(row,
				formatFloat(b.Pos.X()), formatFloat(b.Pos.Y()),
				formatFloat(b.Vel.X()), formatFloat(b.Vel.Y()),
				formatFloat(b.Mass), formatFloat(b.Radius),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeEvents(path string, events []sim.TimedEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "time", "kind", "a", "b", "strength", "force", "x", "y"}); err != nil {
		return err
	}
	for _, te := range events {
		ev := te.Event
		row := []string{
			strconv.Itoa(te.Step), formatFloat(te.Time), ev.Kind.String(),
			strconv.Itoa(int(ev.A)), strconv.Itoa(int(ev.B)),
			formatFloat(ev.Strength), formatFloat(ev.Force),
			formatFloat(ev.Pos.X()), formatFloat(ev.Pos.Y()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the metadata of every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadStates reads the sampled snapshots of a run.
func (s *Store) LoadStates(runID string) ([]sim.Snapshot, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	ids, err := parseBodyIDs(records[0])
	if err != nil {
		return nil, err
	}

	snaps := make([]sim.Snapshot, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) != 2+len(ids)*bodyColumns {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", statesFile, line+2, 2+len(ids)*bodyColumns, len(record))
		}
		vals := make([]float64, len(record))
		for i, field := range record {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", statesFile, line+2, err)
			}
		}

		snap := sim.Snapshot{Step: int(vals[0]), Time: vals[1], Bodies: make([]physics.Body, len(ids))}
		for i, id := range ids {
			v := vals[2+i*bodyColumns:]
			snap.Bodies[i] = physics.Body{
				ID:     id,
				Pos:    mgl64.Vec2{v[0], v[1]},
				Vel:    mgl64.Vec2{v[2], v[3]},
				Mass:   v[4],
				Radius: v[5],
			}
		}
		snaps = append(snaps, snap)
	}

	return snaps, nil
}

func parseBodyIDs(header []string) ([]physics.ID, error) {
	if len(header) < 2 || (len(header)-2)%bodyColumns != 0 {
		return nil, fmt.Errorf("%s: malformed header", statesFile)
	}
	ids := make([]physics.ID, 0, (len(header)-2)/bodyColumns)
	for i := 2; i < len(header); i += bodyColumns {
		name := strings.TrimSuffix(strings.TrimPrefix(header[i], "b"), "_x")
		id, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("%s: bad column %q", statesFile, header[i])
		}
		ids = append(ids, physics.ID(id))
	}
	return ids, nil
}

// LoadEvents reads the event log of a run.
func (s *Store) LoadEvents(runID string) ([]sim.TimedEvent, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, eventsFile))
	if err != nil {
		return nil, err
	}

	kinds := map[string]physics.EventKind{
		physics.EventBoundary.String():      physics.EventBoundary,
		physics.EventCloseApproach.String(): physics.EventCloseApproach,
		physics.EventDeflection.String():    physics.EventDeflection,
	}

	events := make([]sim.TimedEvent, 0, len(records))
	for line, record := range records {
		if line == 0 {
			continue
		}
		if len(record) != 9 {
			return nil, fmt.Errorf("%s line %d: expected 9 fields, got %d", eventsFile, line+1, len(record))
		}
		kind, ok := kinds[record[2]]
		if !ok {
			return nil, fmt.Errorf("%s line %d: unknown event kind %q", eventsFile, line+1, record[2])
		}
		step, err1 := strconv.Atoi(record[0])
		a, err2 := strconv.Atoi(record[3])
		b, err3 := strconv.Atoi(record[4])
		nums := make([]float64, 5)
		var errF error
		for i, idx := range []int{1, 5, 6, 7, 8} {
			if nums[i], errF = strconv.ParseFloat(record[idx], 64); errF != nil {
				break
			}
		}
		for _, err := range []error{err1, err2, err3, errF} {
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", eventsFile, line+1, err)
			}
		}
		events = append(events, sim.TimedEvent{
			Step: step,
			Time: nums[0],
			Event: physics.Event{
				Kind:     kind,
				A:        physics.ID(a),
				B:        physics.ID(b),
				Strength: nums[1],
				Force:    nums[2],
				Pos:      mgl64.Vec2{nums[3], nums[4]},
			},
		})
	}
	return events, nil
}
