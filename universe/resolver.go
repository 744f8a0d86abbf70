package universe

import (
	"context"
	"strings"
	"time"

	"stock-scout/models"
	"stock-scout/observability"
)

// ConstituentFetcher supplies live index membership.
type ConstituentFetcher interface {
	GetIndexConstituents(ctx context.Context, index string) ([]string, error)
}

// ProfileLookup supplies per-symbol sector and market cap for filtering.
type ProfileLookup interface {
	GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
}

// Resolver turns a UniverseSpec into an ordered, deduplicated symbol list.
// Live sources are tried first and fall back to the curated static lists;
// the transition is logged and recorded in the result's provenance.
type Resolver struct {
	constituents ConstituentFetcher // nil skips live fetching
	profiles     ProfileLookup      // nil disables sector and market-cap filters
}

// NewResolver creates a new Resolver instance
func NewResolver(constituents ConstituentFetcher, profiles ProfileLookup) *Resolver {
	return &Resolver{constituents: constituents, profiles: profiles}
}

// Resolve produces the screening universe for a spec.
func (r *Resolver) Resolve(ctx context.Context, spec models.UniverseSpec) (*models.ResolvedUniverse, error) {
	var (
		symbols   []string
		source    models.UniverseProvenance
		sectors   = append([]string{}, spec.Sectors...)
		minCap    = spec.MinMarketCap
		maxStocks = spec.MaxStocks
	)

	switch spec.Mode {
	case models.UniverseExplicit:
		if len(spec.Tickers) == 0 {
			return nil, &ResolutionError{Mode: spec.Mode, Reason: "explicit mode needs a ticker list"}
		}
		symbols, source = spec.Tickers, models.ProvenanceExplicit

	case models.UniverseFile:
		cfg, err := loadFileConfig(spec.ConfigPath)
		if err != nil {
			return nil, err
		}
		if len(cfg.Tickers) > 0 {
			symbols = cfg.Tickers
		} else {
			f := cfg.Filters
			for _, index := range f.Indices {
				part, _ := r.indexSymbols(ctx, index)
				symbols = append(symbols, part...)
			}
			sectors = append(sectors, f.Sectors...)
			if f.MinMarketCap > minCap {
				minCap = f.MinMarketCap
			}
			if maxStocks == 0 {
				maxStocks = f.MaxStocks
			}
		}
		source = models.ProvenanceConfig

	case models.UniverseSP500:
		symbols, source = r.indexSymbols(ctx, "sp500")

	case models.UniverseNasdaq100:
		symbols, source = r.indexSymbols(ctx, "nasdaq100")

	case models.UniverseTech:
		symbols, source = r.indexSymbols(ctx, "sp500")
		sectors = append(sectors, "Technology")

	case models.UniverseHealthcare:
		symbols, source = r.indexSymbols(ctx, "sp500")
		sectors = append(sectors, "Healthcare")

	case models.UniverseGrowth:
		symbols, source = r.indexSymbols(ctx, "sp500")
		sectors = append(sectors, growthSectors...)

	case models.UniverseCombined:
		// Union before deduplication, never a concatenation kept as-is.
		sp, spSource := r.indexSymbols(ctx, "sp500")
		nd, ndSource := r.indexSymbols(ctx, "nasdaq100")
		symbols = append(append([]string{}, sp...), nd...)
		source = models.ProvenanceLive
		if spSource == models.ProvenanceStatic || ndSource == models.ProvenanceStatic {
			source = models.ProvenanceStatic
		}

	default:
		return nil, &ResolutionError{Mode: spec.Mode, Reason: "unknown universe mode"}
	}

	symbols = dedupe(symbols)

	filtered, err := r.filter(ctx, spec.Mode, symbols, sectors, minCap)
	if err != nil {
		return nil, err
	}
	symbols = filtered

	// Stable tail truncation, never sampling.
	if maxStocks > 0 && len(symbols) > maxStocks {
		symbols = symbols[:maxStocks]
	}

	if len(symbols) == 0 {
		return nil, &ResolutionError{Mode: spec.Mode, Reason: "no symbols left after resolution and filtering"}
	}

	observability.Info("universe resolved",
		"mode", string(spec.Mode),
		"source", string(source),
		"size", len(symbols))
	observability.GetMetrics().RecordUniverse(string(spec.Mode), string(source), len(symbols))

	return &models.ResolvedUniverse{
		Spec:       spec,
		Symbols:    symbols,
		Source:     source,
		ResolvedAt: time.Now().UTC(),
	}, nil
}

// indexSymbols tries the live constituent source and falls back to the
// curated static list.
func (r *Resolver) indexSymbols(ctx context.Context, index string) ([]string, models.UniverseProvenance) {
	if r.constituents != nil {
		symbols, err := r.constituents.GetIndexConstituents(ctx, index)
		if err == nil && len(symbols) > 0 {
			return symbols, models.ProvenanceLive
		}
		observability.Warn("live constituent fetch failed, falling back to static list",
			"index", index,
			"error", err)
	}
	return staticList(index), models.ProvenanceStatic
}

// filter applies sector and market-cap filters via per-symbol profile
// lookups. A failed lookup skips the symbol rather than failing the run.
func (r *Resolver) filter(ctx context.Context, mode models.UniverseMode, symbols, sectors []string, minCap float64) ([]string, error) {
	if len(sectors) == 0 && minCap <= 0 {
		return symbols, nil
	}
	if r.profiles == nil {
		return nil, &ResolutionError{Mode: mode, Reason: "sector or market-cap filter requires a company data provider"}
	}

	wanted := make(map[string]struct{}, len(sectors))
	for _, s := range sectors {
		wanted[strings.ToLower(s)] = struct{}{}
	}

	kept := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		profile, err := r.profiles.GetProfile(ctx, symbol)
		if err != nil {
			observability.WithSymbol(symbol).Warn("profile lookup failed during universe filtering, skipping", "error", err)
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[strings.ToLower(profile.Sector)]; !ok {
				continue
			}
		}
		if minCap > 0 {
			if profile.MarketCap == nil || profile.MarketCap.InexactFloat64() < minCap {
				continue
			}
		}
		kept = append(kept, symbol)
	}
	return kept, nil
}

// dedupe normalizes symbols and keeps the first occurrence of each.
func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		normalized := strings.ToUpper(strings.TrimSpace(s))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
