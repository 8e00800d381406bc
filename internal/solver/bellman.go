package solver

import "math"

// bellmanUpdate scans every feasible action for one state and returns the
// best expected discounted return together with the action achieving it.
// The accumulated sum for each feasible action is stored into the Q-table.
//
// Ties resolve toward the lower action index: only a strictly larger value
// replaces the best action seen so far.
func (e *Engine) bellmanUpdate(state int) (float64, int) {
	maxValue := math.Inf(-1)
	bestAction := 0
	maxAction := e.cfg.MaxInventory - state
	maxDemand := e.demand.MaxDemand()

	for action := 0; action <= maxAction; action++ {
		expectedValue := 0.0

		for demand := 0; demand <= maxDemand; demand++ {
			prob := e.demand.Probability(demand)
			reward := e.reward.Reward(state, action, demand)
			nextState := e.transition.NextState(state, action, demand)
			expectedValue += prob * (reward + e.cfg.Gamma*e.values[nextState])
		}

		e.qValues[state][action] = expectedValue

		if expectedValue > maxValue {
			maxValue = expectedValue
			bestAction = action
		}
	}

	return maxValue, bestAction
}
