package sim

import (
	"context"
	"errors"
	"testing"
)

type countingMetric struct {
	count  int
	events int
}

func (m *countingMetric) Name() string { return "count" }
func (m *countingMetric) Observe(f Frame) {
	m.count++
	m.events += len(f.Events)
}
func (m *countingMetric) Value() float64 { return float64(m.count) }
func (m *countingMetric) Reset()         { m.count, m.events = 0, 0 }

func TestSimulatorRun(t *testing.T) {
	s := New(newTestController(t))
	metric := &countingMetric{}
	s.AddMetric(metric)

	observed := 0
	s.AddObserver(ObserverFunc(func(f Frame) { observed++ }))

	result, err := s.Run(context.Background(), RunConfig{Duration: 1.0, SampleEvery: 10, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 50 {
		t.Errorf("expected 50 steps, got %d", result.StepsTaken)
	}
	if len(result.Snapshots) != 6 {
		t.Errorf("expected 6 snapshots, got %d", len(result.Snapshots))
	}
	if result.Snapshots[0].Step != 0 || result.Snapshots[5].Step != 50 {
		t.Errorf("unexpected snapshot steps %d..%d", result.Snapshots[0].Step, result.Snapshots[5].Step)
	}
	if metric.count != 50 || observed != 50 {
		t.Errorf("metric saw %d frames, observer %d; want 50", metric.count, observed)
	}
	if result.Metrics["count"] != 50 {
		t.Errorf("metric value missing from result: %v", result.Metrics)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Events) != metric.events {
		t.Errorf("result has %d events, metric saw %d", len(result.Events), metric.events)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(newTestController(t))

	tests := []struct {
		name string
		cfg  RunConfig
	}{
		{"zero duration", RunConfig{Duration: 0}},
		{"negative duration", RunConfig{Duration: -1.0}},
		{"negative sampling", RunConfig{Duration: 1.0, SampleEvery: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorPaused(t *testing.T) {
	c := newTestController(t)
	c.SetPaused(true)
	_, err := New(c).Run(context.Background(), RunConfig{Duration: 1})
	if !errors.Is(err, ErrPaused) {
		t.Errorf("expected ErrPaused, got %v", err)
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(newTestController(t)).Run(ctx, RunConfig{Duration: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("cancelled run took %d steps", result.StepsTaken)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	s := New(newTestController(t))
	calls := 0
	err := s.RunWithCallback(context.Background(), RunConfig{Duration: 100}, func(f Frame) bool {
		calls++
		return calls < 7
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 7 || s.Controller().Step() != 7 {
		t.Errorf("calls=%d step=%d, want 7", calls, s.Controller().Step())
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 3, Body: 2, Wrapped: ErrContainment}
	want := "step 150 (t=3.0000) body 2: sim: body escaped the arena"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrContainment) {
		t.Error("SimulationError should unwrap to its cause")
	}
}
