package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrInvalidConfig marks configuration validation failures. Callers can
// test for it with errors.Is.
var ErrInvalidConfig = errors.New("invalid config")

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration before any solver runs. Invalid
// parameters fail fast here rather than surfacing as numeric garbage
// mid-iteration.
func (c *Config) Validate() error {
	if c.MaxInventory < 0 {
		return fmt.Errorf("%w: max_inventory cannot be negative, got %d", ErrInvalidConfig, c.MaxInventory)
	}
	if c.OrderCost < 0 {
		return fmt.Errorf("%w: order_cost cannot be negative, got %f", ErrInvalidConfig, c.OrderCost)
	}
	if c.HoldingCost < 0 {
		return fmt.Errorf("%w: holding_cost cannot be negative, got %f", ErrInvalidConfig, c.HoldingCost)
	}
	if c.StockoutCost < 0 {
		return fmt.Errorf("%w: stockout_cost cannot be negative, got %f", ErrInvalidConfig, c.StockoutCost)
	}
	if c.SellingPrice < 0 {
		return fmt.Errorf("%w: selling_price cannot be negative, got %f", ErrInvalidConfig, c.SellingPrice)
	}
	if c.DemandMean < 0 {
		return fmt.Errorf("%w: demand_mean cannot be negative, got %f", ErrInvalidConfig, c.DemandMean)
	}
	if c.DemandStd <= 0 {
		return fmt.Errorf("%w: demand_std must be positive, got %f", ErrInvalidConfig, c.DemandStd)
	}
	if c.Gamma < 0 || c.Gamma >= 1 {
		return fmt.Errorf("%w: gamma must be in [0, 1), got %f", ErrInvalidConfig, c.Gamma)
	}
	return nil
}
