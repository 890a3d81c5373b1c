package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Builder makes an independent simulator for one ensemble member.
type Builder func(seed int64) (*Simulator, error)

// Ensemble runs the same configuration under consecutive seeds in parallel.
// Members share nothing, so each gets its own controller from the builder.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
	workers   int
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart, workers: runtime.NumCPU()}
}

func (e *Ensemble) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

// Run returns one result per member, indexed by seed offset. The first
// failing member cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("%w: ensemble needs at least one run", ErrParameterBounds)
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < e.numRuns; i++ {
		seed := e.seedStart + int64(i)
		g.Go(func() error {
			s, err := e.build(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
