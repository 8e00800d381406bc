package model

import (
	"github.com/invsim/mdp-optimizer/pkg/config"
	"github.com/invsim/mdp-optimizer/pkg/utils"
)

// TransitionModel computes the deterministic next inventory level for an
// (inventory level, order quantity, demand) triple.
type TransitionModel struct {
	maxInventory int
}

// NewTransitionModel creates a transition model bounded by the configured capacity
func NewTransitionModel(cfg *config.Config) *TransitionModel {
	return &TransitionModel{maxInventory: cfg.MaxInventory}
}

// NextState returns state + action - demand clipped to [0, max_inventory]
func (m *TransitionModel) NextState(state, action, demand int) int {
	return utils.Clamp(state+action-demand, 0, m.maxInventory)
}
