package sim

import (
	"errors"
	"testing"

	"github.com/invsim/mdp-optimizer/pkg/config"
	"github.com/invsim/mdp-optimizer/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxInventory: 10,
		OrderCost:    10,
		HoldingCost:  1,
		StockoutCost: 5,
		SellingPrice: 3,
		DemandMean:   2,
		DemandStd:    1,
		Gamma:        0.9,
	}
}

// orderUpToPolicy orders back to capacity from every state below it
func orderUpToPolicy(cfg *config.Config) []int {
	policy := make([]int, cfg.NumStates())
	for state := range policy {
		policy[state] = cfg.MaxInventory - state
	}
	return policy
}

func TestRunRejectsZeroSteps(t *testing.T) {
	s := NewSimulator(testConfig(), orderUpToPolicy(testConfig()), utils.NewRandSource(1))
	if _, err := s.Run(5, 0, "truck"); !errors.Is(err, ErrInvalidSteps) {
		t.Fatalf("expected ErrInvalidSteps, got %v", err)
	}
	if _, err := s.Run(5, -3, "truck"); !errors.Is(err, ErrInvalidSteps) {
		t.Fatalf("expected ErrInvalidSteps for negative steps, got %v", err)
	}
}

func TestRunRejectsOutOfRangeState(t *testing.T) {
	cfg := testConfig()
	s := NewSimulator(cfg, orderUpToPolicy(cfg), utils.NewRandSource(1))
	for _, state := range []int{-1, cfg.MaxInventory + 1} {
		if _, err := s.Run(state, 10, "truck"); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState for state %d, got %v", state, err)
		}
	}
}

func TestRunTrajectoryShape(t *testing.T) {
	cfg := testConfig()
	s := NewSimulator(cfg, orderUpToPolicy(cfg), utils.NewRandSource(42))

	result, err := s.Run(5, 30, "truck")
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Trajectory) != 30 {
		t.Fatalf("trajectory length %d, expected 30", len(result.Trajectory))
	}
	for i, step := range result.Trajectory {
		if step.Step != i {
			t.Errorf("step %d recorded index %d", i, step.Step)
		}
		if step.State < 0 || step.State > cfg.MaxInventory {
			t.Errorf("step %d: state %d out of range", i, step.State)
		}
		if step.NextState < 0 || step.NextState > cfg.MaxInventory {
			t.Errorf("step %d: next state %d out of range", i, step.NextState)
		}
		if i > 0 && result.Trajectory[i-1].NextState != step.State {
			t.Errorf("step %d: state %d does not chain from previous next state %d",
				i, step.State, result.Trajectory[i-1].NextState)
		}
	}
}

func TestRunAggregates(t *testing.T) {
	cfg := testConfig()
	s := NewSimulator(cfg, orderUpToPolicy(cfg), utils.NewRandSource(42))

	result, err := s.Run(5, 20, "ship")
	if err != nil {
		t.Fatal(err)
	}

	total := 0.0
	for _, step := range result.Trajectory {
		total += step.Reward
	}
	if result.TotalReward != total {
		t.Errorf("total reward %f != summed trajectory %f", result.TotalReward, total)
	}
	if result.AverageReward != total/20 {
		t.Errorf("average reward %f != total/steps %f", result.AverageReward, total/20)
	}
}

func TestRunReproducibleWithSeed(t *testing.T) {
	cfg := testConfig()
	policy := orderUpToPolicy(cfg)

	first, err := NewSimulator(cfg, policy, utils.NewRandSource(99)).Run(5, 25, "rail")
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewSimulator(cfg, policy, utils.NewRandSource(99)).Run(5, 25, "rail")
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.Trajectory {
		if first.Trajectory[i] != second.Trajectory[i] {
			t.Fatalf("step %d differs between identically seeded runs: %+v vs %+v",
				i, first.Trajectory[i], second.Trajectory[i])
		}
	}
}

func TestRunTransportSurcharge(t *testing.T) {
	cfg := testConfig()
	policy := orderUpToPolicy(cfg)

	// Identical seeds draw identical demand, so the only difference between
	// a known and an unknown mode is the flat cost on ordering steps.
	truck, err := NewSimulator(cfg, policy, utils.NewRandSource(7)).Run(3, 15, "truck")
	if err != nil {
		t.Fatal(err)
	}
	unknown, err := NewSimulator(cfg, policy, utils.NewRandSource(7)).Run(3, 15, "wagon")
	if err != nil {
		t.Fatal(err)
	}

	orderingSteps := 0
	for _, step := range unknown.Trajectory {
		if step.Action > 0 {
			orderingSteps++
		}
	}
	if orderingSteps == 0 {
		t.Fatal("policy placed no orders; surcharge cannot be observed")
	}

	expectedDiff := 100.0 * float64(orderingSteps)
	if got := unknown.TotalReward - truck.TotalReward; got != expectedDiff {
		t.Errorf("surcharge difference %f, expected %f over %d ordering steps",
			got, expectedDiff, orderingSteps)
	}
}

func TestRunNeverOrdersOnFullShelf(t *testing.T) {
	cfg := testConfig()
	policy := orderUpToPolicy(cfg)
	result, err := NewSimulator(cfg, policy, utils.NewRandSource(5)).Run(cfg.MaxInventory, 10, "air")
	if err != nil {
		t.Fatal(err)
	}
	if result.Trajectory[0].Action != 0 {
		t.Errorf("action at capacity = %d, expected 0", result.Trajectory[0].Action)
	}
}
