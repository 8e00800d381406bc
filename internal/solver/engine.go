package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/invsim/mdp-optimizer/internal/model"
	"github.com/invsim/mdp-optimizer/pkg/config"
	"github.com/invsim/mdp-optimizer/pkg/logger"
)

// ErrNotFinite is returned when a sweep produces a NaN or infinite value.
// Ordinary configurations never trigger it; it exists so numeric corruption
// fails the run instead of propagating silently.
var ErrNotFinite = errors.New("non-finite value produced during sweep")

// Engine owns the value function, policy and Q-table buffers and runs
// value iteration over them. It is the only writer; read accessors return
// copies and are meant to be used after a run completes.
type Engine struct {
	cfg        *config.Config
	demand     *model.DemandModel
	reward     *model.RewardModel
	transition *model.TransitionModel

	values  []float64
	policy  []int
	qValues [][]float64

	workers int
	logger  *slog.Logger
}

// ConvergenceTrace records the outcome of one value-iteration run
type ConvergenceTrace struct {
	Converged    bool      `json:"converged"`
	Iterations   int       `json:"iterations"`
	FinalDelta   float64   `json:"final_delta"`
	DeltaHistory []float64 `json:"delta_history"`
}

// NewEngine builds an engine for the given configuration. The configuration
// is validated before any buffers are allocated.
func NewEngine(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := cfg.NumStates()
	qValues := make([][]float64, n)
	for i := range qValues {
		qValues[i] = make([]float64, n)
	}

	return &Engine{
		cfg:        cfg,
		demand:     model.NewDemandModel(cfg),
		reward:     model.NewRewardModel(cfg),
		transition: model.NewTransitionModel(cfg),
		values:     make([]float64, n),
		policy:     make([]int, n),
		qValues:    qValues,
		logger:     logger.Default,
	}, nil
}

// SetLogger sets the engine's logger
func (e *Engine) SetLogger(l *slog.Logger) {
	e.logger = l
}

// WithParallelSweep switches the engine to a double-buffered (Jacobi) sweep
// evaluated by the given number of workers. The default in-place sweep
// remains the reference behavior; the parallel variant converges to an
// equivalent policy but follows a different convergence trajectory.
func (e *Engine) WithParallelSweep(workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	e.workers = workers
	return e
}

// Run performs value iteration until the maximum per-sweep change drops
// below epsilon or the iteration budget is exhausted.
func (e *Engine) Run(epsilon float64, maxIterations int) (*ConvergenceTrace, error) {
	return e.RunContext(context.Background(), epsilon, maxIterations)
}

// RunContext is Run with cancellation, checked once per outer iteration.
func (e *Engine) RunContext(ctx context.Context, epsilon float64, maxIterations int) (*ConvergenceTrace, error) {
	trace := &ConvergenceTrace{
		DeltaHistory: make([]float64, 0, maxIterations),
	}

	e.logger.Info("starting value iteration",
		"states", e.cfg.NumStates(),
		"epsilon", epsilon,
		"max_iterations", maxIterations,
		"parallel_workers", e.workers)

	for iteration := 0; iteration < maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return trace, fmt.Errorf("value iteration cancelled: %w", err)
		}

		var delta float64
		var err error
		if e.workers > 1 {
			delta, err = e.sweepJacobi()
		} else {
			delta, err = e.sweepInPlace()
		}
		if err != nil {
			return trace, err
		}

		trace.DeltaHistory = append(trace.DeltaHistory, delta)
		trace.Iterations = iteration + 1
		trace.FinalDelta = delta

		e.logger.Debug("sweep complete", "iteration", iteration+1, "delta", delta)

		if delta < epsilon {
			trace.Converged = true
			break
		}
	}

	e.logger.Info("value iteration finished",
		"converged", trace.Converged,
		"iterations", trace.Iterations,
		"final_delta", trace.FinalDelta)

	return trace, nil
}

// sweepInPlace visits states in increasing order and writes each new value
// back immediately, so later states in the same sweep already see the
// updated values of lower states (Gauss-Seidel order).
func (e *Engine) sweepInPlace() (float64, error) {
	delta := 0.0
	for state := 0; state <= e.cfg.MaxInventory; state++ {
		oldValue := e.values[state]
		newValue, bestAction := e.bellmanUpdate(state)
		if !isFinite(newValue) {
			return 0, fmt.Errorf("%w: state %d value %f", ErrNotFinite, state, newValue)
		}
		delta = math.Max(delta, math.Abs(oldValue-newValue))
		e.values[state] = newValue
		e.policy[state] = bestAction
	}
	return delta, nil
}

// Values returns a copy of the value function, index-aligned to state
func (e *Engine) Values() []float64 {
	out := make([]float64, len(e.values))
	copy(out, e.values)
	return out
}

// Policy returns a copy of the per-state action table
func (e *Engine) Policy() []int {
	out := make([]int, len(e.policy))
	copy(out, e.policy)
	return out
}

// QValue returns the latest expected-return estimate for a feasible
// (state, action) pair. Entries for infeasible actions are stale.
func (e *Engine) QValue(state, action int) float64 {
	return e.qValues[state][action]
}

// Config returns the engine's configuration
func (e *Engine) Config() *config.Config {
	return e.cfg
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
