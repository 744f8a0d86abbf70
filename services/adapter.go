package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stock-scout/models"
	"stock-scout/observability"
)

// MarketDataAdapter assembles a MarketSnapshot for one symbol from the
// company-data provider and the price-history provider.
//
// The profile and the price history are load-bearing: if either is missing
// the symbol cannot be scored and the fetch fails with DataUnavailableError.
// Everything else is best effort and degrades to nil fields.
type MarketDataAdapter struct {
	company     CompanyDataInterface
	history     PriceHistoryInterface
	historyDays int

	cache    SnapshotCache // nil disables caching
	cacheTTL time.Duration
}

// NewMarketDataAdapter creates a new MarketDataAdapter instance
func NewMarketDataAdapter(company CompanyDataInterface, history PriceHistoryInterface, historyDays int) *MarketDataAdapter {
	return &MarketDataAdapter{
		company:     company,
		history:     history,
		historyDays: historyDays,
	}
}

// SetCache installs an optional snapshot cache. Cache failures are logged
// and treated as misses so a broken cache never blocks screening.
func (a *MarketDataAdapter) SetCache(cache SnapshotCache, ttl time.Duration) {
	a.cache = cache
	a.cacheTTL = ttl
}

// GetSnapshot fetches and assembles the full snapshot for a symbol.
func (a *MarketDataAdapter) GetSnapshot(ctx context.Context, symbol string) (*models.MarketSnapshot, error) {
	if a.cache != nil {
		cached, err := a.cache.GetCachedSnapshot(ctx, symbol)
		if err != nil {
			observability.WithSymbol(symbol).Warn("snapshot cache lookup failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	timer := observability.GetMetrics().NewTimer()

	profile, err := a.company.GetProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}

	bars, err := a.history.GetDailyBars(ctx, symbol, a.historyDays)
	if err != nil {
		return nil, err
	}

	snapshot := &models.MarketSnapshot{
		Symbol:      symbol,
		CompanyName: profile.CompanyName,
		Sector:      profile.Sector,
		Industry:    profile.Industry,
		FetchedAt:   time.Now().UTC(),
		Price:       profile.Price,
		Technicals:  ComputeTechnicals(bars),
	}
	if snapshot.Price == nil && len(bars) > 0 {
		last := decimal.NewFromFloat(bars[len(bars)-1].Close)
		snapshot.Price = &last
	}

	if fundamentals, err := a.company.GetFundamentals(ctx, symbol); err != nil {
		observability.WithSymbol(symbol).Warn("fundamentals unavailable", "error", err)
	} else {
		snapshot.Fundamentals = *fundamentals
	}

	if catalysts, err := a.company.GetCatalysts(ctx, symbol); err != nil {
		observability.WithSymbol(symbol).Warn("catalysts unavailable", "error", err)
	} else {
		snapshot.Catalysts = *catalysts
	}
	if snapshot.Catalysts.MarketCap == nil {
		snapshot.Catalysts.MarketCap = profile.MarketCap
	}

	if sentiment, err := a.company.GetSentiment(ctx, symbol); err != nil {
		observability.WithSymbol(symbol).Warn("sentiment unavailable", "error", err)
	} else {
		snapshot.Sentiment = *sentiment
	}

	timer.ObserveTicker("fetch")

	if a.cache != nil {
		if err := a.cache.SetCachedSnapshot(ctx, snapshot, a.cacheTTL); err != nil {
			observability.WithSymbol(symbol).Warn("snapshot cache store failed", "error", err)
		}
	}

	return snapshot, nil
}
