package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/san-kum/orbitarena/internal/sim"
)

var ErrEmptyGrid = errors.New("optim: empty parameter grid")

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates every combination of parameter values and keeps the
// one with the lowest metric value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize flips the objective.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

func (g *GridSearch) Size() int {
	if len(g.paramNames) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs build for each grid point. Points whose build or run fails
// are recorded in the trials and skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	cfg sim.RunConfig,
	metricName string,
) (best Trial, trials []Trial, err error) {
	if len(g.paramNames) != len(g.ranges) || g.Size() == 0 {
		return Trial{}, nil, ErrEmptyGrid
	}

	trials = make([]Trial, 0, g.Size())
	err = g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) {
		trials = append(trials, g.evaluate(ctx, build, cfg, metricName, params))
	})
	if err != nil {
		return Trial{}, trials, err
	}

	found := false
	for _, t := range trials {
		if t.Err != nil {
			continue
		}
		if !found || g.better(t.Value, best.Value) {
			best, found = t, true
		}
	}
	if !found {
		return Trial{}, trials, fmt.Errorf("optim: every grid point failed, first: %w", trials[0].Err)
	}
	return best, trials, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) evaluate(
	ctx context.Context,
	build func(map[string]float64) (*sim.Simulator, error),
	cfg sim.RunConfig,
	metricName string,
	params map[string]float64,
) Trial {
	t := Trial{Params: params}
	s, err := build(params)
	if err != nil {
		t.Err = err
		return t
	}
	result, err := s.Run(ctx, cfg)
	if err != nil {
		t.Err = err
		return t
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		t.Err = fmt.Errorf("optim: metric %q not recorded", metricName)
		return t
	}
	t.Value = val
	return t
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(maps.Clone(current))
		return nil
	}

	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[g.paramNames[depth]] = val
		if err := g.searchRecursive(ctx, depth+1, next, visit); err != nil {
			return err
		}
	}
	return nil
}
