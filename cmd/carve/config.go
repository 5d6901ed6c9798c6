package main

import (
	"github.com/BurntSushi/toml"
)

// config holds the default CLI options, loadable from a TOML file through
// the -conf flag. Explicitly set flags always win over the file values.
type config struct {
	Width     int     `toml:"width"`
	Height    int     `toml:"height"`
	Energy    string  `toml:"energy"`
	Order     string  `toml:"order"`
	StepRatio float64 `toml:"step_ratio"`
	Threshold float64 `toml:"threshold"`
	Static    bool    `toml:"static"`
	Visualize bool    `toml:"visualize"`
	SeamColor string  `toml:"seam_color"`
	Cascade   string  `toml:"cascade"`
}

func loadConfig(path string) (*config, error) {
	var cfg config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
