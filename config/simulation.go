package config

import (
	"errors"

	"github.com/kilianp07/edfsim/core/edf"
)

// SimulationConfig holds the scheduler parameters.
type SimulationConfig struct {
	// Horizon is the number of simulated ticks.
	Horizon uint32 `json:"horizon"`
	// InitialContextSwitch charges the first task its context cost before
	// it runs.
	InitialContextSwitch bool `json:"initial_context_switch"`
	// SortSpeeds sorts the speed table ascending so the lowest sufficient
	// speed is selected instead of the first one in file order.
	SortSpeeds bool `json:"sort_speeds"`
	// AbsoluteWindow bounds the admission test by absolute deadlines
	// instead of relative ones.
	AbsoluteWindow bool `json:"absolute_window"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.Horizon == 0 {
		c.Horizon = edf.DefaultHorizon
	}
}

// Validate checks mandatory fields.
func (c SimulationConfig) Validate() error {
	if c.Horizon == 0 {
		return errors.New("horizon must be positive")
	}
	return nil
}

// Engine converts the section to the simulator configuration.
func (c SimulationConfig) Engine() edf.Config {
	cfg := edf.Config{
		Horizon:              c.Horizon,
		InitialContextSwitch: c.InitialContextSwitch,
		SortSpeeds:           c.SortSpeeds,
		Window:               edf.WindowRelative,
	}
	if c.AbsoluteWindow {
		cfg.Window = edf.WindowAbsolute
	}
	return cfg
}
