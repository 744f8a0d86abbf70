package services

import (
	"context"
	"time"

	"stock-scout/models"
)

// CompanyDataInterface defines the interface for company-level data: profile,
// fundamentals, catalysts and sentiment. Providers return DataUnavailableError
// when they have no record of the symbol; individual missing fields come back
// as nil pointers inside the structs instead.
type CompanyDataInterface interface {
	GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
	GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalData, error)
	GetCatalysts(ctx context.Context, symbol string) (*models.CatalystData, error)
	GetSentiment(ctx context.Context, symbol string) (*models.SentimentData, error)
}

// PriceHistoryInterface defines the interface for daily bar history.
type PriceHistoryInterface interface {
	GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error)
}

// SnapshotCache stores assembled snapshots between screening attempts.
// A nil error with a nil snapshot is a cache miss.
type SnapshotCache interface {
	GetCachedSnapshot(ctx context.Context, symbol string) (*models.MarketSnapshot, error)
	SetCachedSnapshot(ctx context.Context, snapshot *models.MarketSnapshot, ttl time.Duration) error
}

// Compile-time interface verification
var _ CompanyDataInterface = (*FMPService)(nil)
var _ PriceHistoryInterface = (*AlpacaService)(nil)
var _ PriceHistoryInterface = (*YahooService)(nil)
