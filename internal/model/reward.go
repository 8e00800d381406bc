package model

import "github.com/invsim/mdp-optimizer/pkg/config"

// perUnitOrderCost is the flat variable cost charged on every ordered unit,
// on top of the fixed order cost.
const perUnitOrderCost = 5.0

// RewardModel computes the single-period economic payoff of an
// (inventory level, order quantity, demand) triple.
type RewardModel struct {
	orderCost    float64
	holdingCost  float64
	stockoutCost float64
	sellingPrice float64
}

// NewRewardModel creates a reward model from the configured costs and price
func NewRewardModel(cfg *config.Config) *RewardModel {
	return &RewardModel{
		orderCost:    cfg.OrderCost,
		holdingCost:  cfg.HoldingCost,
		stockoutCost: cfg.StockoutCost,
		sellingPrice: cfg.SellingPrice,
	}
}

// Reward returns revenue minus holding, ordering and stockout costs for one
// period. Holding is charged on the period-start inventory level, before
// sales are deducted.
func (m *RewardModel) Reward(state, action, demand int) float64 {
	sales := state
	if demand < sales {
		sales = demand
	}
	revenue := float64(sales) * m.sellingPrice
	holding := float64(state) * m.holdingCost

	ordering := 0.0
	if action > 0 {
		ordering = m.orderCost + float64(action)*perUnitOrderCost
	}

	unmet := demand - state
	if unmet < 0 {
		unmet = 0
	}
	stockout := float64(unmet) * m.stockoutCost

	return revenue - holding - ordering - stockout
}
