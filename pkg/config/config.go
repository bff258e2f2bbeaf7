// Package config provides configuration loading and management for ctvm.
// It handles loading solver settings from YAML files and provides default
// values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ctvm/pkg/tval3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Solver parameters of the TVAL3 reconstruction.
	Solver struct {
		// Mu0 is the initial penalty on the data constraint.
		Mu0 float64 `yaml:"mu0"`

		// Beta0 is the initial penalty on the splitting constraint.
		Beta0 float64 `yaml:"beta0"`

		// PenaltyGrowth is the geometric growth factor of both penalties.
		PenaltyGrowth float64 `yaml:"penaltyGrowth"`

		// InnerTol is the stopping tolerance of the alternating minimization.
		InnerTol float64 `yaml:"innerTol"`

		// OuterTol is the stopping tolerance of the outer loop.
		OuterTol float64 `yaml:"outerTol"`

		// MaxOuterIters bounds the outer augmented-Lagrangian loop.
		MaxOuterIters int `yaml:"maxOuterIters"`

		// MaxInnerIters bounds one alternating minimization.
		MaxInnerIters int `yaml:"maxInnerIters"`

		// Rho is the backtracking shrink factor of the line search.
		Rho float64 `yaml:"rho"`

		// Delta is the sufficient-decrease coefficient of the line search.
		Delta float64 `yaml:"delta"`

		// Eta is the forgetting factor of the non-monotone reference value.
		Eta float64 `yaml:"eta"`
	} `yaml:"solver"`

	// Projection parameters of the forward-operator builder.
	Projection struct {
		// Seed drives the random projection stub deterministically.
		Seed uint64 `yaml:"seed"`
	} `yaml:"projection"`

	// Output parameters.
	Output struct {
		// SaveIntermediaryResults writes the iterate after each outer
		// iteration as an image.
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is the directory for intermediary results. Only
		// used when SaveIntermediaryResults is true.
		IntermediaryDir string `yaml:"intermediaryDir"`

		// Verbose controls the level of logging output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	params := tval3.DefaultParams()
	cfg.Solver.Mu0 = params.Mu0
	cfg.Solver.Beta0 = params.Beta0
	cfg.Solver.PenaltyGrowth = params.PenaltyGrowth
	cfg.Solver.InnerTol = params.InnerTol
	cfg.Solver.OuterTol = params.OuterTol
	cfg.Solver.MaxOuterIters = params.MaxOuterIters
	cfg.Solver.MaxInnerIters = params.MaxInnerIters
	cfg.Solver.Rho = params.Rho
	cfg.Solver.Delta = params.Delta
	cfg.Solver.Eta = params.Eta

	cfg.Projection.Seed = 1

	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.Verbose = true

	return cfg
}

// SolverParams converts the solver section into the parameter struct the
// reconstruction entry point accepts.
func (c *Config) SolverParams() tval3.SolverParams {
	return tval3.SolverParams{
		Mu0:           c.Solver.Mu0,
		Beta0:         c.Solver.Beta0,
		PenaltyGrowth: c.Solver.PenaltyGrowth,
		InnerTol:      c.Solver.InnerTol,
		OuterTol:      c.Solver.OuterTol,
		MaxOuterIters: c.Solver.MaxOuterIters,
		MaxInnerIters: c.Solver.MaxInnerIters,
		Rho:           c.Solver.Rho,
		Delta:         c.Solver.Delta,
		Eta:           c.Solver.Eta,
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
