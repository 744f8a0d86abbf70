package universe

import (
	"stock-scout/config"
	"stock-scout/models"
)

// SpecFromConfig builds the default universe spec from application config.
func SpecFromConfig(cfg config.UniverseConfig) models.UniverseSpec {
	return models.UniverseSpec{
		Mode:         models.UniverseMode(cfg.Mode),
		MaxStocks:    cfg.MaxStocks,
		Sectors:      cfg.Sectors,
		MinMarketCap: cfg.MinMarketCap,
		ConfigPath:   cfg.ConfigPath,
	}
}
