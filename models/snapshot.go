package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketSnapshot is a point-in-time view of everything the scorers need for
// one symbol. It is assembled once per scoring attempt by the market data
// adapter and never mutated afterwards.
//
// Optional fields are pointers: nil means the provider had no data, which is
// distinct from a true zero. Scorers must treat nil as "contributes nothing",
// never as an error.
type MarketSnapshot struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Sector      string    `json:"sector"`
	Industry    string    `json:"industry"`
	FetchedAt   time.Time `json:"fetched_at"`

	// Price is the latest traded price, if known.
	Price *decimal.Decimal `json:"price,omitempty"`

	Fundamentals FundamentalData `json:"fundamentals"`
	Technicals   TechnicalData   `json:"technicals"`
	Catalysts    CatalystData    `json:"catalysts"`
	Sentiment    SentimentData   `json:"sentiment"`
}

// FundamentalData holds growth, health, profitability and valuation inputs.
// Percentages are expressed as percent values (revenue growth of 35% is 35.0).
type FundamentalData struct {
	RevenueGrowthPct  *float64 `json:"revenue_growth_pct,omitempty"`
	EarningsGrowthPct *float64 `json:"earnings_growth_pct,omitempty"`
	DebtToEquity      *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio      *float64 `json:"current_ratio,omitempty"`
	ProfitMarginPct   *float64 `json:"profit_margin_pct,omitempty"`
	ReturnOnEquityPct *float64 `json:"return_on_equity_pct,omitempty"`
	PEGRatio          *float64 `json:"peg_ratio,omitempty"`
}

// TechnicalData holds indicators derived from daily price history.
type TechnicalData struct {
	SMA20  *float64 `json:"sma_20,omitempty"`
	SMA50  *float64 `json:"sma_50,omitempty"`
	SMA200 *float64 `json:"sma_200,omitempty"`

	RSI14 *float64 `json:"rsi_14,omitempty"`

	MACD              *float64 `json:"macd,omitempty"`
	MACDSignal        *float64 `json:"macd_signal,omitempty"`
	MACDHistogram     *float64 `json:"macd_histogram,omitempty"`
	MACDHistogramPrev *float64 `json:"macd_histogram_prev,omitempty"`

	AvgVolume         *float64 `json:"avg_volume,omitempty"`
	RelativeVolume    *float64 `json:"relative_volume,omitempty"`
	UpDownVolumeRatio *float64 `json:"up_down_volume_ratio,omitempty"`

	// Trailing 20-session structure: latest high/low vs. ten sessions prior.
	HigherHighs *bool `json:"higher_highs,omitempty"`
	HigherLows  *bool `json:"higher_lows,omitempty"`
}

// CatalystData holds scheduled and recent events that may move the stock.
type CatalystData struct {
	DaysToEarnings      *int             `json:"days_to_earnings,omitempty"`
	AnalystUpgrades30d  *int             `json:"analyst_upgrades_30d,omitempty"`
	PositiveRevisions   *int             `json:"positive_revisions,omitempty"`
	MarketCap           *decimal.Decimal `json:"market_cap,omitempty"`
}

// Recommendation is the consensus analyst recommendation bucket.
type Recommendation string

const (
	RecommendationStrongBuy Recommendation = "strong_buy"
	RecommendationBuy       Recommendation = "buy"
	RecommendationHold      Recommendation = "hold"
	RecommendationSell      Recommendation = "sell"
	RecommendationNone      Recommendation = ""
)

// SentimentData holds ownership and analyst positioning inputs.
// Insider figures cover the trailing 60 days and only count transactions
// above the $100k reporting threshold.
type SentimentData struct {
	InstitutionalOwnershipPct *float64         `json:"institutional_ownership_pct,omitempty"`
	InsiderBuyers             *int             `json:"insider_buyers,omitempty"`
	InsiderBuyValue           *decimal.Decimal `json:"insider_buy_value,omitempty"`
	InsiderNetSelling         *bool            `json:"insider_net_selling,omitempty"`
	AnalystConsensus          Recommendation   `json:"analyst_consensus,omitempty"`
}

// Float is a convenience constructor for optional float fields.
func Float(v float64) *float64 { return &v }

// Int is a convenience constructor for optional int fields.
func Int(v int) *int { return &v }

// Bool is a convenience constructor for optional bool fields.
func Bool(v bool) *bool { return &v }
