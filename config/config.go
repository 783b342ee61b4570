// Package config provides configuration loading and access for a sampling
// run.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// KnownObservables lists the observable names a config may register.
var KnownObservables = []string{
	"volume_profile",
	"hausdorff",
	"hausdorff_dual",
	"ricci",
	"ricci_dual",
	"ricciv",
}

// Config holds all run parameters. The top-level keys are the historical
// run-card names; Output and Tuning group the ancillary knobs.
type Config struct {
	Lambda       float64 `yaml:"lambda"`       // cosmological constant
	TargetVolume int     `yaml:"targetVolume"` // triangle count to drive toward
	Slices       int     `yaml:"slices"`       // number of time slices
	Seed         int64   `yaml:"seed"`         // base RNG seed
	FileID       string  `yaml:"fileID"`       // identifier woven into output names
	Measurements int     `yaml:"measurements"` // number of measurement sweeps
	Sphere       bool    `yaml:"sphere"`       // spherical instead of toroidal boundary
	ImportGeom   bool    `yaml:"importGeom"`   // start from a checkpointed geometry

	Output        OutputConfig `yaml:"output"`
	Observables   []string     `yaml:"observables"`
	RicciEpsilons []int        `yaml:"ricciEpsilons"`
	Tuning        TuningConfig `yaml:"tuning"`
}

// OutputConfig holds file output settings.
type OutputConfig struct {
	DataDir   string `yaml:"dataDir"`   // observable .dat files
	GeomDir   string `yaml:"geomDir"`   // geometry checkpoints
	Telemetry bool   `yaml:"telemetry"` // per-sweep CSV telemetry
}

// TuningConfig holds the tunable constants of the driver. The defaults
// reproduce the historical behavior.
type TuningConfig struct {
	Epsilon          float64 `yaml:"epsilon"`          // volume-fixing strength
	GrowFactor       int     `yaml:"growFactor"`       // attempts per grow step, in units of targetVolume
	SweepFactor      int     `yaml:"sweepFactor"`      // attempts per sweep, in units of targetVolume
	CoordBoundFactor int     `yaml:"coordBoundFactor"` // thermalization bound is log2(factor * targetVolume)
	DebugChecks      bool    `yaml:"debugChecks"`      // run the integrity check after every sweep
}

// Load reads a YAML config file, merging it over the embedded defaults.
// An empty path yields the defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TargetVolume < 4 || c.TargetVolume%2 != 0 {
		return fmt.Errorf("config: targetVolume must be even and at least 4, got %d", c.TargetVolume)
	}
	if c.Slices < 3 {
		return fmt.Errorf("config: slices must be at least 3, got %d", c.Slices)
	}
	if c.Measurements < 0 {
		return fmt.Errorf("config: measurements must not be negative, got %d", c.Measurements)
	}
	if c.FileID == "" {
		return fmt.Errorf("config: fileID must not be empty")
	}
	for _, name := range c.Observables {
		if !slices.Contains(KnownObservables, name) {
			return fmt.Errorf("config: unknown observable %q", name)
		}
	}
	for _, eps := range c.RicciEpsilons {
		if eps < 1 {
			return fmt.Errorf("config: ricci epsilons must be positive, got %d", eps)
		}
	}
	if c.Tuning.Epsilon <= 0 {
		return fmt.Errorf("config: tuning.epsilon must be positive, got %g", c.Tuning.Epsilon)
	}
	if c.Tuning.GrowFactor < 1 || c.Tuning.SweepFactor < 1 {
		return fmt.Errorf("config: tuning factors must be at least 1")
	}
	return nil
}

// WriteYAML snapshots the effective configuration next to the run output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
