package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/invsim/mdp-optimizer/internal/model"
	"github.com/invsim/mdp-optimizer/pkg/config"
	"github.com/invsim/mdp-optimizer/pkg/logger"
	"github.com/invsim/mdp-optimizer/pkg/utils"
)

var (
	// ErrInvalidSteps is returned when an episode is requested with a
	// non-positive step count.
	ErrInvalidSteps = errors.New("steps must be positive")
	// ErrInvalidState is returned when the initial inventory level is
	// outside [0, max_inventory].
	ErrInvalidState = errors.New("initial state out of range")
)

// Step is one period of a simulated episode
type Step struct {
	Step      int     `json:"step"`
	State     int     `json:"state"`
	Action    int     `json:"action"`
	Demand    int     `json:"demand"`
	Reward    float64 `json:"reward"`
	NextState int     `json:"next_state"`
}

// Result is the trajectory and aggregate reward of one episode
type Result struct {
	Trajectory    []Step  `json:"trajectory"`
	TotalReward   float64 `json:"total_reward"`
	AverageReward float64 `json:"average_reward"`
}

// Simulator rolls out a fixed policy against sampled demand. The random
// source is injected so episodes are reproducible under a fixed seed.
type Simulator struct {
	cfg        *config.Config
	policy     []int
	reward     *model.RewardModel
	transition *model.TransitionModel
	rng        *utils.RandSource
	logger     *slog.Logger
}

// NewSimulator creates a simulator for the given policy. The policy slice
// must be index-aligned to state (length max_inventory+1).
func NewSimulator(cfg *config.Config, policy []int, rng *utils.RandSource) *Simulator {
	return &Simulator{
		cfg:        cfg,
		policy:     policy,
		reward:     model.NewRewardModel(cfg),
		transition: model.NewTransitionModel(cfg),
		rng:        rng,
		logger:     logger.Default,
	}
}

// SetLogger sets the simulator's logger
func (s *Simulator) SetLogger(l *slog.Logger) {
	s.logger = l
}

// Run executes one Monte-Carlo episode of the policy from initialState.
// Each step draws demand from the configured normal distribution (rounded,
// clipped at zero), applies the period reward plus the transport surcharge
// when an order is placed, and advances the inventory level.
func (s *Simulator) Run(initialState, steps int, transportMode string) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSteps, steps)
	}
	if initialState < 0 || initialState > s.cfg.MaxInventory {
		return nil, fmt.Errorf("%w: got %d with max_inventory %d", ErrInvalidState, initialState, s.cfg.MaxInventory)
	}

	transportCost := model.TransportCost(transportMode)
	trajectory := make([]Step, 0, steps)
	state := initialState
	totalReward := 0.0

	for step := 0; step < steps; step++ {
		action := s.policy[state]
		demand := s.rng.NormInt(s.cfg.DemandMean, s.cfg.DemandStd)

		reward := s.reward.Reward(state, action, demand)
		if action > 0 {
			reward -= transportCost
		}
		nextState := s.transition.NextState(state, action, demand)

		trajectory = append(trajectory, Step{
			Step:      step,
			State:     state,
			Action:    action,
			Demand:    demand,
			Reward:    reward,
			NextState: nextState,
		})

		totalReward += reward
		state = nextState
	}

	s.logger.Debug("episode finished",
		"steps", steps,
		"initial_state", initialState,
		"final_state", state,
		"total_reward", totalReward)

	return &Result{
		Trajectory:    trajectory,
		TotalReward:   totalReward,
		AverageReward: totalReward / float64(steps),
	}, nil
}
