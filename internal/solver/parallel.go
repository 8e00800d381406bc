package solver

import (
	"fmt"
	"math"
	"sync"
)

// sweepJacobi evaluates all states against the previous sweep's values
// (double-buffered) using a bounded worker pool, then swaps buffers. Every
// state reads the same snapshot, so per-state evaluations are independent.
func (e *Engine) sweepJacobi() (float64, error) {
	n := e.cfg.NumStates()
	newValues := make([]float64, n)
	newPolicy := make([]int, n)

	states := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for state := range states {
				// bellmanUpdate only reads e.values and writes the
				// state's own Q-table row, so workers do not overlap.
				newValues[state], newPolicy[state] = e.bellmanUpdate(state)
			}
		}()
	}

	for state := 0; state < n; state++ {
		states <- state
	}
	close(states)
	wg.Wait()

	delta := 0.0
	for state := 0; state < n; state++ {
		if !isFinite(newValues[state]) {
			return 0, fmt.Errorf("%w: state %d value %f", ErrNotFinite, state, newValues[state])
		}
		delta = math.Max(delta, math.Abs(e.values[state]-newValues[state]))
	}

	copy(e.values, newValues)
	copy(e.policy, newPolicy)
	return delta, nil
}
