package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/orbitarena/internal/config"
	"github.com/san-kum/orbitarena/internal/metrics"
	"github.com/san-kum/orbitarena/internal/sim"
	"github.com/san-kum/orbitarena/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step starts from a preset (or the defaults) and applies Overrides, a
// partial config document in the same layout as a config file.
type Step struct {
	Name      string    `yaml:"name"`
	Preset    string    `yaml:"preset"`
	Overrides yaml.Node `yaml:"overrides"`
	Validate  bool      `yaml:"validate"`
	Save      bool      `yaml:"save"`
}

type Outcome struct {
	Step   string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	for i := range sc.Steps {
		if sc.Steps[i].Name == "" {
			sc.Steps[i].Name = fmt.Sprintf("step%d", i+1)
		}
	}
	return &sc, nil
}

// Config resolves the step's effective configuration.
func (s Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if !s.Overrides.IsZero() {
		if err := s.Overrides.Decode(cfg); err != nil {
			return nil, fmt.Errorf("overrides: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes every step in order. Steps marked save are written to st
// when st is non-nil.
func Run(ctx context.Context, sc *Scenario, st *storage.Store) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		slog.Info("scenario step", "scenario", sc.Name, "step", step.Name, "n", i+1, "of", len(sc.Steps))

		cfg, err := step.Config()
		if err != nil {
			return outcomes, fmt.Errorf("step %s: %w", step.Name, err)
		}
		ctrl, err := cfg.NewController()
		if err != nil {
			return outcomes, fmt.Errorf("step %s: %w", step.Name, err)
		}

		runner := sim.New(ctrl)
		for _, m := range metrics.Default() {
			runner.AddMetric(m)
		}

		result, err := runner.Run(ctx, cfg.RunConfig(step.Validate))
		if err != nil {
			return outcomes, fmt.Errorf("step %s run: %w", step.Name, err)
		}

		out := Outcome{Step: step.Name, Result: result}
		if step.Save && st != nil {
			out.RunID, err = st.Save(storage.RunMetadata{
				Preset:         step.Name,
				Seed:           cfg.Run.Seed,
				G:              cfg.Physics.G,
				Dt:             cfg.Physics.Dt,
				BoundaryRadius: cfg.Arena.Radius,
				Duration:       cfg.Run.Duration,
			}, result)
			if err != nil {
				return outcomes, fmt.Errorf("step %s save: %w", step.Name, err)
			}
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}
