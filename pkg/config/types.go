package config

// Config holds the economic and distributional parameters of the
// single-product inventory problem. It is built once and never mutated.
type Config struct {
	MaxInventory int     `yaml:"max_inventory" json:"max_inventory"`
	OrderCost    float64 `yaml:"order_cost" json:"order_cost"`
	HoldingCost  float64 `yaml:"holding_cost" json:"holding_cost"`
	StockoutCost float64 `yaml:"stockout_cost" json:"stockout_cost"`
	SellingPrice float64 `yaml:"selling_price" json:"selling_price"`
	DemandMean   float64 `yaml:"demand_mean" json:"demand_mean"`
	DemandStd    float64 `yaml:"demand_std" json:"demand_std"`
	Gamma        float64 `yaml:"gamma" json:"gamma"`
}

// DefaultConfig returns the reference parameter set
func DefaultConfig() *Config {
	return &Config{
		MaxInventory: 100,
		OrderCost:    50.0,
		HoldingCost:  2.0,
		StockoutCost: 20.0,
		SellingPrice: 15.0,
		DemandMean:   10.0,
		DemandStd:    3.0,
		Gamma:        0.95,
	}
}

// NumStates returns the size of the state space (inventory levels 0..max)
func (c *Config) NumStates() int {
	return c.MaxInventory + 1
}
