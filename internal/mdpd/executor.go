package mdpd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/invsim/mdp-optimizer/internal/export"
	"github.com/invsim/mdp-optimizer/internal/sim"
	"github.com/invsim/mdp-optimizer/internal/solver"
	"github.com/invsim/mdp-optimizer/pkg/config"
	"github.com/invsim/mdp-optimizer/pkg/logger"
	"github.com/invsim/mdp-optimizer/pkg/utils"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunTerminal  = errors.New("run is terminal")
	ErrRunIDMissing = errors.New("run_id is required")
)

const (
	defaultEpsilon       = 0.01
	defaultMaxIterations = 1000
)

// RunExecutor manages asynchronous solver execution and per-run cancellation.
type RunExecutor struct {
	store *RunStore

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewRunExecutor(store *RunStore) *RunExecutor {
	return &RunExecutor{
		store:   store,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start begins executing a run asynchronously.
// Returns the updated run state (RUNNING) or an error.
func (e *RunExecutor) Start(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	if rec.Run.Status == RunStatusRunning {
		return rec, nil
	}
	if rec.Run.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	updated, err := e.store.SetStatus(runID, RunStatusRunning, "")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	// Replace any existing cancel func (shouldn't happen for non-running, but safe).
	if old, exists := e.cancels[runID]; exists {
		old()
	}
	e.cancels[runID] = cancel
	e.mu.Unlock()

	go e.runSolve(ctx, runID)
	return updated, nil
}

// Stop requests cancellation for a running run and marks it cancelled.
func (e *RunExecutor) Stop(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	if _, ok := e.store.Get(runID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	e.mu.Lock()
	cancel, ok := e.cancels[runID]
	e.mu.Unlock()

	if ok {
		cancel()
	}

	return e.store.SetStatus(runID, RunStatusCancelled, "")
}

func (e *RunExecutor) cleanup(runID string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[runID]; ok {
		cancel()
		delete(e.cancels, runID)
	}
	e.mu.Unlock()
}

// runSolve executes the full optimization pipeline for one run: parse
// config, run value iteration, summarize the policy, optionally roll out a
// simulation episode, and snapshot the export artifact.
func (e *RunExecutor) runSolve(ctx context.Context, runID string) {
	defer e.cleanup(runID)

	rec, ok := e.store.Get(runID)
	if !ok {
		logger.Error("run not found", "run_id", runID)
		return
	}

	cfg := config.DefaultConfig()
	if rec.Input.ConfigYAML != "" {
		var err error
		cfg, err = config.ParseConfigYAMLString(rec.Input.ConfigYAML)
		if err != nil {
			e.fail(runID, fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	engine, err := solver.NewEngine(cfg)
	if err != nil {
		e.fail(runID, fmt.Sprintf("invalid config: %v", err))
		return
	}

	epsilon := rec.Input.Epsilon
	if epsilon <= 0 {
		epsilon = defaultEpsilon
	}
	maxIterations := rec.Input.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	trace, err := engine.RunContext(ctx, epsilon, maxIterations)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Stop already marked the run cancelled.
			logger.Info("run cancelled mid-iteration", "run_id", runID)
			return
		}
		e.fail(runID, fmt.Sprintf("value iteration failed: %v", err))
		return
	}

	results := &RunResults{
		Trace:    trace,
		SS:       engine.ComputeSS(),
		Artifact: export.Build(engine),
	}

	if spec := rec.Input.Simulation; spec != nil {
		simulator := sim.NewSimulator(cfg, engine.Policy(), utils.NewRandSource(spec.Seed))
		simResult, err := simulator.Run(spec.InitialState, spec.Steps, spec.TransportMode)
		if err != nil {
			e.fail(runID, fmt.Sprintf("simulation failed: %v", err))
			return
		}
		results.Simulation = simResult
	}

	if err := e.store.SetResults(runID, results); err != nil {
		logger.Error("failed to store results", "run_id", runID, "error", err)
		return
	}
	if _, err := e.store.SetStatus(runID, RunStatusCompleted, ""); err != nil {
		logger.Error("failed to set completed status", "run_id", runID, "error", err)
		return
	}

	logger.Info("run completed",
		"run_id", runID,
		"converged", trace.Converged,
		"iterations", trace.Iterations,
		"final_delta", trace.FinalDelta)
}

func (e *RunExecutor) fail(runID, msg string) {
	logger.Error("run failed", "run_id", runID, "error", msg)
	if _, err := e.store.SetStatus(runID, RunStatusFailed, msg); err != nil {
		logger.Error("failed to set failed status", "run_id", runID, "error", err)
	}
}
