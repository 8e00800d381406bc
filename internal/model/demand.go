package model

import (
	"math"

	"github.com/invsim/mdp-optimizer/pkg/config"
)

// DemandModel weights integer demand values under a continuous normal
// approximation of the configured demand distribution.
type DemandModel struct {
	mean float64
	std  float64
}

// NewDemandModel creates a demand model from the configured mean and std
func NewDemandModel(cfg *config.Config) *DemandModel {
	return &DemandModel{
		mean: cfg.DemandMean,
		std:  cfg.DemandStd,
	}
}

// Probability returns the likelihood weight of integer demand d. Negative
// demand has zero weight. The value is the raw normal density at d, not
// renormalized over the truncated support the Bellman operator sums over;
// expected values computed from these weights are therefore slightly
// dampened relative to a true expectation.
func (m *DemandModel) Probability(d int) float64 {
	if d < 0 {
		return 0
	}
	return normalPDF(float64(d), m.mean, m.std)
}

// MaxDemand returns the upper bound of the truncated demand support.
// Tail mass beyond four standard deviations is treated as exactly zero.
func (m *DemandModel) MaxDemand() int {
	return int(m.mean + 4*m.std)
}

func normalPDF(x, mean, std float64) float64 {
	exponent := -0.5 * math.Pow((x-mean)/std, 2)
	return math.Exp(exponent) / (std * math.Sqrt(2*math.Pi))
}
