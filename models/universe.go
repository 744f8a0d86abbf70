package models

import "time"

// UniverseMode selects how the screening universe is built.
type UniverseMode string

const (
	UniverseSP500      UniverseMode = "sp500"
	UniverseNasdaq100  UniverseMode = "nasdaq100"
	UniverseTech       UniverseMode = "tech"
	UniverseHealthcare UniverseMode = "healthcare"
	UniverseGrowth     UniverseMode = "growth"
	UniverseCombined   UniverseMode = "combined"
	UniverseFile       UniverseMode = "file"
	UniverseExplicit   UniverseMode = "explicit"
)

// UniverseProvenance records which source actually supplied the ticker list.
// Fallback transitions are never silent: the provenance of a static-list
// universe is visibly different from a live-fetched one.
type UniverseProvenance string

const (
	ProvenanceLive     UniverseProvenance = "live"
	ProvenanceStatic   UniverseProvenance = "static"
	ProvenanceConfig   UniverseProvenance = "config-file"
	ProvenanceExplicit UniverseProvenance = "explicit"
)

// UniverseSpec describes the universe a caller wants to screen.
type UniverseSpec struct {
	Mode UniverseMode `json:"mode"`

	// MaxStocks truncates the tail of the resolved list when > 0.
	MaxStocks int `json:"max_stocks,omitempty"`

	// Sectors filters the resolved list when non-empty.
	Sectors []string `json:"sectors,omitempty"`

	// MinMarketCap filters out smaller companies when > 0 (dollars).
	MinMarketCap float64 `json:"min_market_cap,omitempty"`

	// ConfigPath is required for UniverseFile mode.
	ConfigPath string `json:"config_path,omitempty"`

	// Tickers is required for UniverseExplicit mode.
	Tickers []string `json:"tickers,omitempty"`
}

// ResolvedUniverse is the ordered, deduplicated set of symbols that will be
// scored, plus the provenance of the source that produced it.
type ResolvedUniverse struct {
	Spec       UniverseSpec       `json:"spec"`
	Symbols    []string           `json:"symbols"`
	Source     UniverseProvenance `json:"source"`
	ResolvedAt time.Time          `json:"resolved_at"`
}
