package mdpd

import (
	"github.com/invsim/mdp-optimizer/internal/export"
	"github.com/invsim/mdp-optimizer/internal/sim"
	"github.com/invsim/mdp-optimizer/internal/solver"
)

// RunStatus is the lifecycle state of a solver run
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusCancelled RunStatus = "CANCELLED"
)

// IsTerminal reports whether the status admits no further transitions
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// Run is the externally visible state of one solver run
type Run struct {
	ID              string    `json:"id"`
	Status          RunStatus `json:"status"`
	CreatedAtUnixMs int64     `json:"created_at_unix_ms"`
	StartedAtUnixMs int64     `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64     `json:"ended_at_unix_ms,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// SimulationSpec asks the executor to roll out one episode of the derived
// policy after the solve completes.
type SimulationSpec struct {
	InitialState  int    `json:"initial_state"`
	Steps         int    `json:"steps"`
	TransportMode string `json:"transport_mode"`
	Seed          int64  `json:"seed,omitempty"`
}

// RunInput is the payload a run is created with. ConfigYAML may be empty,
// in which case the reference defaults apply.
type RunInput struct {
	ConfigYAML    string          `json:"config_yaml"`
	Epsilon       float64         `json:"epsilon,omitempty"`
	MaxIterations int             `json:"max_iterations,omitempty"`
	Simulation    *SimulationSpec `json:"simulation,omitempty"`
}

// RunResults holds everything a completed run produced
type RunResults struct {
	Trace      *solver.ConvergenceTrace `json:"trace"`
	SS         solver.SSPolicy          `json:"ss_policy"`
	Simulation *sim.Result              `json:"simulation,omitempty"`
	Artifact   *export.Results          `json:"-"`
}
