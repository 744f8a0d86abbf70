package universe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the declarative universe document. Exactly one of an
// explicit ticker list or a filter block; a file with neither, or with
// both, is an error.
type fileConfig struct {
	Tickers []string     `yaml:"tickers"`
	Filters *fileFilters `yaml:"filters"`
}

type fileFilters struct {
	Indices      []string `yaml:"indices"`
	Sectors      []string `yaml:"sectors"`
	MinMarketCap float64  `yaml:"min_market_cap"`
	MaxStocks    int      `yaml:"max_stocks"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	if path == "" {
		return nil, &ConfigParseError{Path: path, Reason: "no config path set for file mode"}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Reason: "cannot read config", Err: err}
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, &ConfigParseError{Path: path, Reason: "malformed YAML", Err: err}
	}

	if len(cfg.Tickers) == 0 && cfg.Filters == nil {
		return nil, &ConfigParseError{Path: path, Reason: "config must contain a tickers or filters section"}
	}
	if len(cfg.Tickers) > 0 && cfg.Filters != nil {
		// Refusing the ambiguous document beats silently ignoring one half.
		return nil, &ConfigParseError{Path: path, Reason: "config must contain either a tickers or a filters section, not both"}
	}

	if cfg.Filters != nil {
		for _, index := range cfg.Filters.Indices {
			if index != "sp500" && index != "nasdaq100" {
				return nil, &ConfigParseError{
					Path:   path,
					Reason: fmt.Sprintf("unknown index %q (supported: sp500, nasdaq100)", index),
				}
			}
		}
	}

	return &cfg, nil
}
