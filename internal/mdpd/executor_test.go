package mdpd

import (
	"errors"
	"testing"
	"time"
)

const smallConfigYAML = `
max_inventory: 5
order_cost: 10
holding_cost: 1
stockout_cost: 5
selling_price: 3
demand_mean: 2
demand_std: 1
gamma: 0.9
`

// waitForTerminal polls until the run reaches a terminal status
func waitForTerminal(t *testing.T, store *RunStore, runID string) *RunRecord {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		rec, ok := store.Get(runID)
		if !ok {
			t.Fatalf("run %s disappeared", runID)
		}
		if rec.Run.Status.IsTerminal() {
			return rec
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("run %s did not reach a terminal status", runID)
	return nil
}

func TestStartValidation(t *testing.T) {
	executor := NewRunExecutor(NewRunStore())

	if _, err := executor.Start(""); !errors.Is(err, ErrRunIDMissing) {
		t.Errorf("expected ErrRunIDMissing, got %v", err)
	}
	if _, err := executor.Start("run-ghost"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := executor.Stop("run-ghost"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound on stop, got %v", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	store := NewRunStore()
	executor := NewRunExecutor(store)

	input := &RunInput{
		ConfigYAML: smallConfigYAML,
		Simulation: &SimulationSpec{
			InitialState:  3,
			Steps:         20,
			TransportMode: "truck",
			Seed:          42,
		},
	}
	if _, err := store.Create("run-lifecycle", input); err != nil {
		t.Fatal(err)
	}

	updated, err := executor.Start("run-lifecycle")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Run.Status != RunStatusRunning {
		t.Errorf("status after start = %s, expected RUNNING", updated.Run.Status)
	}

	rec := waitForTerminal(t, store, "run-lifecycle")
	if rec.Run.Status != RunStatusCompleted {
		t.Fatalf("final status = %s (error %q), expected COMPLETED", rec.Run.Status, rec.Run.Error)
	}

	results := rec.Results
	if results == nil {
		t.Fatal("completed run has no results")
	}
	if !results.Trace.Converged {
		t.Error("expected convergence on the small scenario")
	}
	if results.SS.OrderUpTo > 5 || results.SS.ReorderPoint < 0 {
		t.Errorf("(s, S) = %+v out of range", results.SS)
	}
	if results.Simulation == nil || len(results.Simulation.Trajectory) != 20 {
		t.Errorf("simulation missing or wrong length: %+v", results.Simulation)
	}
	if results.Artifact == nil || len(results.Artifact.Policy) != 6 {
		t.Error("export artifact missing or wrong shape")
	}
}

func TestStartDefaultsWhenConfigEmpty(t *testing.T) {
	store := NewRunStore()
	executor := NewRunExecutor(store)

	if _, err := store.Create("run-defaults", &RunInput{}); err != nil {
		t.Fatal(err)
	}
	if _, err := executor.Start("run-defaults"); err != nil {
		t.Fatal(err)
	}

	rec := waitForTerminal(t, store, "run-defaults")
	if rec.Run.Status != RunStatusCompleted {
		t.Fatalf("final status = %s (error %q), expected COMPLETED", rec.Run.Status, rec.Run.Error)
	}
	if len(rec.Results.Artifact.Policy) != 101 {
		t.Errorf("policy length %d, expected reference default 101", len(rec.Results.Artifact.Policy))
	}
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	store := NewRunStore()
	executor := NewRunExecutor(store)

	input := &RunInput{ConfigYAML: "demand_std: -1\n"}
	if _, err := store.Create("run-bad", input); err != nil {
		t.Fatal(err)
	}
	if _, err := executor.Start("run-bad"); err != nil {
		t.Fatal(err)
	}

	rec := waitForTerminal(t, store, "run-bad")
	if rec.Run.Status != RunStatusFailed {
		t.Errorf("final status = %s, expected FAILED", rec.Run.Status)
	}
	if rec.Run.Error == "" {
		t.Error("failed run carries no error message")
	}
}

func TestStopPendingRun(t *testing.T) {
	store := NewRunStore()
	executor := NewRunExecutor(store)

	if _, err := store.Create("run-stop", &RunInput{}); err != nil {
		t.Fatal(err)
	}

	rec, err := executor.Stop("run-stop")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Run.Status != RunStatusCancelled {
		t.Errorf("status = %s, expected CANCELLED", rec.Run.Status)
	}

	if _, err := executor.Start("run-stop"); !errors.Is(err, ErrRunTerminal) {
		t.Errorf("expected ErrRunTerminal on restarting a cancelled run, got %v", err)
	}
}

func TestStartRunningRunIsIdempotent(t *testing.T) {
	store := NewRunStore()
	executor := NewRunExecutor(store)

	// A huge state space with a tight tolerance keeps the solve busy long
	// enough to observe the RUNNING state.
	input := &RunInput{
		ConfigYAML: `
max_inventory: 300
order_cost: 50
holding_cost: 2
stockout_cost: 20
selling_price: 15
demand_mean: 40
demand_std: 15
gamma: 0.99
`,
		Epsilon:       1e-10,
		MaxIterations: 1000000,
	}
	if _, err := store.Create("run-busy", input); err != nil {
		t.Fatal(err)
	}
	if _, err := executor.Start("run-busy"); err != nil {
		t.Fatal(err)
	}

	rec, err := executor.Start("run-busy")
	if err != nil {
		t.Fatalf("second start returned %v", err)
	}
	if rec.Run.Status != RunStatusRunning {
		t.Errorf("status = %s, expected RUNNING", rec.Run.Status)
	}

	stopped, err := executor.Stop("run-busy")
	if err != nil {
		t.Fatal(err)
	}
	if stopped.Run.Status != RunStatusCancelled {
		t.Errorf("status after stop = %s, expected CANCELLED", stopped.Run.Status)
	}
}
