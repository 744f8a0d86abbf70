package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one daily OHLCV bar.
type Bar struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// CompanyProfile is a provider's static view of a company: identity plus the
// latest price and market cap when the provider reports them.
type CompanyProfile struct {
	Symbol      string           `json:"symbol"`
	CompanyName string           `json:"company_name"`
	Sector      string           `json:"sector"`
	Industry    string           `json:"industry"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	MarketCap   *decimal.Decimal `json:"market_cap,omitempty"`
}
