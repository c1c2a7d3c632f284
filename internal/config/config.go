// Package config loads uvfits_rip run files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Run is the YAML form of one extraction run. Every field can also be given
// on the command line, where it takes precedence.
type Run struct {
	Input                   string  `yaml:"input"`
	Output                  string  `yaml:"output"`
	NumTimesteps            int     `yaml:"num_timesteps"`
	NumBaselinesPerTimestep int     `yaml:"num_baselines_per_timestep"`
	NumChannels             int     `yaml:"num_channels"`
	XXAndYY                 bool    `yaml:"xx_and_yy"`
	Rows                    []int   `yaml:"rows"`
	Parameter               *string `yaml:"parameter"` // nil keeps the default
	Catalog                 string  `yaml:"catalog"`
	Quicklook               string  `yaml:"quicklook"`
}

// Load reads and parses a run file. Unknown keys are rejected.
func Load(path string) (*Run, error) {
	//nolint:gosec // G304: run file path comes from the operator
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read run config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var run Run
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&run); err != nil {
		return nil, fmt.Errorf("parse run config %s: %w", path, err)
	}
	return &run, nil
}
