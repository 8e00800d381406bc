package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/invsim/mdp-optimizer/internal/solver"
	"github.com/invsim/mdp-optimizer/pkg/config"
)

func solvedEngine(t *testing.T) *solver.Engine {
	t.Helper()
	cfg := &config.Config{
		MaxInventory: 5,
		OrderCost:    10,
		HoldingCost:  1,
		StockoutCost: 5,
		SellingPrice: 3,
		DemandMean:   2,
		DemandStd:    1,
		Gamma:        0.9,
	}
	engine, err := solver.NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Run(0.01, 1000); err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestBuildShape(t *testing.T) {
	engine := solvedEngine(t)
	results := Build(engine)

	states := engine.Config().NumStates()
	if len(results.ValueFunction) != states {
		t.Errorf("value function length %d, expected %d", len(results.ValueFunction), states)
	}
	if len(results.Policy) != states {
		t.Errorf("policy length %d, expected %d", len(results.Policy), states)
	}
	if len(results.TransportModes) != 4 {
		t.Errorf("transport catalog length %d, expected 4", len(results.TransportModes))
	}
	ss := engine.ComputeSS()
	if results.ReorderPoint != ss.ReorderPoint || results.OrderUpTo != ss.OrderUpTo {
		t.Errorf("(s, S) = (%d, %d), expected (%d, %d)",
			results.ReorderPoint, results.OrderUpTo, ss.ReorderPoint, ss.OrderUpTo)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	engine := solvedEngine(t)
	results := Build(engine)

	data, err := results.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseResults(data)
	if err != nil {
		t.Fatal(err)
	}

	if *parsed.Config != *results.Config {
		t.Errorf("config changed in round trip: %+v vs %+v", parsed.Config, results.Config)
	}
	for i, v := range results.ValueFunction {
		if parsed.ValueFunction[i] != v {
			t.Errorf("value[%d] = %f after round trip, expected %f", i, parsed.ValueFunction[i], v)
		}
	}
	for i, a := range results.Policy {
		if parsed.Policy[i] != a {
			t.Errorf("policy[%d] = %d after round trip, expected %d", i, parsed.Policy[i], a)
		}
	}
	if parsed.ReorderPoint != results.ReorderPoint || parsed.OrderUpTo != results.OrderUpTo {
		t.Errorf("(s, S) changed in round trip")
	}
}

func TestWriteFile(t *testing.T) {
	engine := solvedEngine(t)
	path := filepath.Join(t.TempDir(), "results.json")

	if err := Build(engine).WriteFile(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseResults(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Policy) != engine.Config().NumStates() {
		t.Errorf("policy length %d after write/read, expected %d",
			len(parsed.Policy), engine.Config().NumStates())
	}
}
