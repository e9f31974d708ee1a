package sim

import (
	"context"
	"sync"
)

// Ensemble repeats a run with consecutive seeds, which only matters when
// the pointer is jittered.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

// NewEnsemble builds an ensemble. newMetrics, if set, supplies a fresh
// metric set for each run since metrics hold state.
func NewEnsemble(s *Simulator, numRuns int, seedStart int64, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart, metrics: newMetrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sim := New(e.base.scene, e.base.opts)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
