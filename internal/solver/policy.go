package solver

import "github.com/invsim/mdp-optimizer/pkg/utils"

// SSPolicy is the heuristic reorder-point / order-up-to summary of a
// per-state action table. It is representative, not an exact base-stock
// recovery: a true (s,S) policy would show one constant order-up-to target
// across all reorder states.
type SSPolicy struct {
	ReorderPoint int `json:"s"`
	OrderUpTo    int `json:"S"`
}

// ExtractSS summarizes a policy into an approximate (s,S) pair. Every state
// with a positive order contributes itself as a reorder-point sample and
// state+action as an order-up-to sample; s is the largest reorder point and
// S the truncated mean of the order-up-to samples. A policy that never
// orders falls back to maxInventory/3 and 2*maxInventory/3.
func ExtractSS(policy []int, maxInventory int) SSPolicy {
	var reorderPoints []int
	var orderUpTo []float64

	for state, action := range policy {
		if action > 0 {
			reorderPoints = append(reorderPoints, state)
			orderUpTo = append(orderUpTo, float64(state+action))
		}
	}

	if len(reorderPoints) == 0 {
		return SSPolicy{
			ReorderPoint: maxInventory / 3,
			OrderUpTo:    2 * maxInventory / 3,
		}
	}

	s := reorderPoints[0]
	for _, p := range reorderPoints[1:] {
		s = utils.Max(s, p)
	}

	return SSPolicy{
		ReorderPoint: s,
		OrderUpTo:    int(utils.Mean(orderUpTo)),
	}
}

// ComputeSS summarizes the engine's current policy into an (s,S) pair
func (e *Engine) ComputeSS() SSPolicy {
	return ExtractSS(e.policy, e.cfg.MaxInventory)
}
