package sim

import (
	"context"
	"fmt"
	"math"
)

// Simulator drives a Controller headlessly for a fixed duration, feeding
// metrics and observers after every tick.
type Simulator struct {
	ctrl      *Controller
	metrics   []Metric
	observers []Observer
}

func New(ctrl *Controller) *Simulator {
	return &Simulator{
		ctrl:      ctrl,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Controller() *Controller { return s.ctrl }

func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}
	steps := int(math.Round(cfg.Duration / s.ctrl.Params().Dt))

	result := &Result{
		Snapshots: make([]Snapshot, 0, steps/every+1),
		Events:    make([]TimedEvent, 0),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Snapshots = append(result.Snapshots, s.snapshot())
	initialEnergy := s.ctrl.Energy()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		events := s.ctrl.Tick()
		result.StepsTaken++

		if cfg.ValidateState {
			if err := s.validateState(); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}

		frame := s.ctrl.frame(events)
		for _, ev := range events {
			result.Events = append(result.Events, TimedEvent{Step: frame.Step, Time: frame.Time, Event: ev})
		}
		for _, m := range s.metrics {
			m.Observe(frame)
		}
		for _, obs := range s.observers {
			obs.OnStep(frame)
		}

		if result.StepsTaken%every == 0 {
			result.Snapshots = append(result.Snapshots, s.snapshot())
		}
	}

	finalEnergy := s.ctrl.Energy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg RunConfig) error {
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	if s.ctrl.Params().Paused {
		return ErrPaused
	}
	return nil
}

// validateState checks every body is finite and inside the arena.
func (s *Simulator) validateState() error {
	arena := s.ctrl.Arena()
	for _, b := range s.ctrl.bodies {
		if !b.IsValid() {
			return &SimulationError{Step: s.ctrl.Step(), Time: s.ctrl.Time(), Body: b.ID, Wrapped: ErrInvalidState}
		}
		if arena.Penetration(b) > ContainmentTolerance*arena.Radius {
			return &SimulationError{Step: s.ctrl.Step(), Time: s.ctrl.Time(), Body: b.ID, Wrapped: ErrContainment}
		}
	}
	return nil
}

func (s *Simulator) snapshot() Snapshot {
	return Snapshot{
		Step:   s.ctrl.Step(),
		Time:   s.ctrl.Time(),
		Bodies: s.ctrl.Bodies(),
	}
}

// RunWithCallback ticks until duration elapses, the context is cancelled or
// callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg RunConfig, callback func(Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	start := s.ctrl.Time()
	for s.ctrl.Time()-start < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		events := s.ctrl.Tick()

		if cfg.ValidateState {
			if err := s.validateState(); err != nil {
				return err
			}
		}

		if !callback(s.ctrl.frame(events)) {
			return nil
		}
	}

	return nil
}
