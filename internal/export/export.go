package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invsim/mdp-optimizer/internal/model"
	"github.com/invsim/mdp-optimizer/internal/solver"
	"github.com/invsim/mdp-optimizer/pkg/config"
)

// Results is the artifact written once after a completed optimization run
type Results struct {
	Config         *config.Config        `json:"config"`
	ValueFunction  []float64             `json:"value_function"`
	Policy         []int                 `json:"policy"`
	ReorderPoint   int                   `json:"s_policy"`
	OrderUpTo      int                   `json:"S_policy"`
	TransportModes []model.TransportMode `json:"transport_modes"`
}

// Build snapshots a finished engine into an exportable artifact
func Build(e *solver.Engine) *Results {
	ss := e.ComputeSS()
	return &Results{
		Config:         e.Config(),
		ValueFunction:  e.Values(),
		Policy:         e.Policy(),
		ReorderPoint:   ss.ReorderPoint,
		OrderUpTo:      ss.OrderUpTo,
		TransportModes: model.TransportModes(),
	}
}

// Marshal renders the artifact as indented JSON
func (r *Results) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results: %w", err)
	}
	return data, nil
}

// WriteFile writes the artifact to path. Failures are reported to the
// caller and leave no partial in-memory state behind.
func (r *Results) WriteFile(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results file %s: %w", path, err)
	}
	return nil
}

// ParseResults parses an exported artifact back into memory
func ParseResults(data []byte) (*Results, error) {
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	return &r, nil
}
