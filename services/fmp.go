package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock-scout/models"
	"stock-scout/observability"
)

// FMPService handles communication with the Financial Modeling Prep API.
// It is the company-data side of the snapshot: profile, fundamentals,
// catalysts and sentiment. Price history comes from a separate provider.
type FMPService struct {
	apiKey     string
	httpClient *http.Client
	baseURLv3  string
	baseURLv4  string
}

// NewFMPService creates a new FMPService instance
func NewFMPService(apiKey string) *FMPService {
	return &FMPService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURLv3:  "https://financialmodelingprep.com/api/v3",
		baseURLv4:  "https://financialmodelingprep.com/api/v4",
	}
}

// fmpProfileResponse represents a company profile from the FMP API
type fmpProfileResponse struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Price             float64 `json:"price"`
	MktCap            int64   `json:"mktCap"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	Exchange          string  `json:"exchangeShortName"`
	Country           string  `json:"country"`
	IsEtf             bool    `json:"isEtf"`
	IsActivelyTrading bool    `json:"isActivelyTrading"`
}

// fmpRatiosResponse represents trailing-twelve-month ratios from the FMP API.
// Pointer fields keep "null" distinct from a true zero.
type fmpRatiosResponse struct {
	Symbol          string   `json:"symbol"`
	DebtEquityRatio *float64 `json:"debtEquityRatioTTM"`
	CurrentRatio    *float64 `json:"currentRatioTTM"`
	NetProfitMargin *float64 `json:"netProfitMarginTTM"`
	ReturnOnEquity  *float64 `json:"returnOnEquityTTM"`
	PEGRatio        *float64 `json:"pegRatioTTM"`
}

// fmpGrowthResponse represents year-over-year growth from the FMP API
type fmpGrowthResponse struct {
	Symbol          string   `json:"symbol"`
	RevenueGrowth   *float64 `json:"revenueGrowth"`
	NetIncomeGrowth *float64 `json:"netIncomeGrowth"`
}

// fmpEarningsResponse represents one earnings calendar entry
type fmpEarningsResponse struct {
	Date   string `json:"date"`
	Symbol string `json:"symbol"`
}

// fmpGradeResponse represents one analyst grade change
type fmpGradeResponse struct {
	Symbol        string `json:"symbol"`
	PublishedDate string `json:"publishedDate"`
	Action        string `json:"action"`
	NewGrade      string `json:"newGrade"`
	PreviousGrade string `json:"previousGrade"`
}

// fmpConsensusResponse represents the analyst consensus for a symbol
type fmpConsensusResponse struct {
	Symbol    string `json:"symbol"`
	Consensus string `json:"consensus"`
}

// fmpPriceTargetResponse represents one published price target
type fmpPriceTargetResponse struct {
	Symbol          string  `json:"symbol"`
	PublishedDate   string  `json:"publishedDate"`
	PriceTarget     float64 `json:"priceTarget"`
	PriceWhenPosted float64 `json:"priceWhenPosted"`
}

// fmpOwnershipResponse represents institutional ownership for a symbol
type fmpOwnershipResponse struct {
	Symbol           string   `json:"symbol"`
	OwnershipPercent *float64 `json:"ownershipPercent"`
}

// fmpInsiderTradeResponse represents one insider transaction
type fmpInsiderTradeResponse struct {
	Symbol               string  `json:"symbol"`
	TransactionDate      string  `json:"transactionDate"`
	TransactionType      string  `json:"transactionType"`
	SecuritiesTransacted float64 `json:"securitiesTransacted"`
	Price                float64 `json:"price"`
	ReportingName        string  `json:"reportingName"`
}

// insiderReportingThreshold filters out token transactions: only trades worth
// at least this much count toward buyer and selling totals.
const insiderReportingThreshold = 100_000

// insiderLookbackDays is the trailing window for insider activity.
const insiderLookbackDays = 60

// gradeLookbackDays is the trailing window for upgrades and price targets.
const gradeLookbackDays = 30

// GetProfile returns the company profile for a symbol. A symbol the provider
// has never heard of is a DataUnavailableError.
func (s *FMPService) GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	return WithCircuitBreaker(ctx, BreakerFMP, func() (*models.CompanyProfile, error) {
		var resp []fmpProfileResponse

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			resp = resp[:0]
			return s.get(ctx, "profile", s.baseURLv3+"/profile/"+url.PathEscape(symbol), nil, &resp)
		})
		if err != nil {
			return nil, &DataUnavailableError{Symbol: symbol, Reason: "profile fetch failed", Err: err}
		}

		// An empty array is FMP's way of saying the symbol does not exist.
		if len(resp) == 0 {
			return nil, &DataUnavailableError{Symbol: symbol, Reason: "no profile data"}
		}

		p := resp[0]
		profile := &models.CompanyProfile{
			Symbol:      p.Symbol,
			CompanyName: p.CompanyName,
			Sector:      p.Sector,
			Industry:    p.Industry,
		}
		if p.Price > 0 {
			price := decimal.NewFromFloat(p.Price)
			profile.Price = &price
		}
		if p.MktCap > 0 {
			cap := decimal.NewFromInt(p.MktCap)
			profile.MarketCap = &cap
		}

		return profile, nil
	})
}

// GetFundamentals returns growth, health and valuation inputs. A failed
// sub-fetch leaves its fields nil instead of failing the symbol.
func (s *FMPService) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalData, error) {
	return WithCircuitBreaker(ctx, BreakerFMP, func() (*models.FundamentalData, error) {
		data := &models.FundamentalData{}

		var ratios []fmpRatiosResponse
		if err := s.get(ctx, "ratios", s.baseURLv3+"/ratios-ttm/"+url.PathEscape(symbol), nil, &ratios); err != nil {
			observability.WithSymbol(symbol).Warn("ratios fetch failed", "error", err)
		} else if len(ratios) > 0 {
			r := ratios[0]
			data.DebtToEquity = r.DebtEquityRatio
			data.CurrentRatio = r.CurrentRatio
			data.ProfitMarginPct = asPercent(r.NetProfitMargin)
			data.ReturnOnEquityPct = asPercent(r.ReturnOnEquity)
			data.PEGRatio = r.PEGRatio
		}

		var growth []fmpGrowthResponse
		params := url.Values{"limit": {"1"}}
		if err := s.get(ctx, "growth", s.baseURLv3+"/financial-growth/"+url.PathEscape(symbol), params, &growth); err != nil {
			observability.WithSymbol(symbol).Warn("growth fetch failed", "error", err)
		} else if len(growth) > 0 {
			g := growth[0]
			data.RevenueGrowthPct = asPercent(g.RevenueGrowth)
			data.EarningsGrowthPct = asPercent(g.NetIncomeGrowth)
		}

		return data, nil
	})
}

// GetCatalysts returns scheduled earnings and recent analyst activity.
func (s *FMPService) GetCatalysts(ctx context.Context, symbol string) (*models.CatalystData, error) {
	return WithCircuitBreaker(ctx, BreakerFMP, func() (*models.CatalystData, error) {
		data := &models.CatalystData{}
		now := time.Now().UTC()

		var earnings []fmpEarningsResponse
		params := url.Values{"limit": {"20"}}
		if err := s.get(ctx, "earnings_calendar", s.baseURLv3+"/historical/earning_calendar/"+url.PathEscape(symbol), params, &earnings); err != nil {
			observability.WithSymbol(symbol).Warn("earnings calendar fetch failed", "error", err)
		} else {
			data.DaysToEarnings = daysToNextEarnings(earnings, now)
		}

		var grades []fmpGradeResponse
		gradeParams := url.Values{"symbol": {symbol}}
		if err := s.get(ctx, "grades", s.baseURLv4+"/upgrades-downgrades", gradeParams, &grades); err != nil {
			observability.WithSymbol(symbol).Warn("grades fetch failed", "error", err)
		} else {
			upgrades := 0
			cutoff := now.AddDate(0, 0, -gradeLookbackDays)
			for _, g := range grades {
				published, err := parseFMPDate(g.PublishedDate)
				if err != nil || published.Before(cutoff) {
					continue
				}
				if strings.EqualFold(g.Action, "upgrade") {
					upgrades++
				}
			}
			data.AnalystUpgrades30d = models.Int(upgrades)
		}

		var targets []fmpPriceTargetResponse
		targetParams := url.Values{"symbol": {symbol}}
		if err := s.get(ctx, "price_target", s.baseURLv4+"/price-target", targetParams, &targets); err != nil {
			observability.WithSymbol(symbol).Warn("price target fetch failed", "error", err)
		} else {
			revisions := 0
			cutoff := now.AddDate(0, 0, -gradeLookbackDays)
			for _, pt := range targets {
				published, err := parseFMPDate(pt.PublishedDate)
				if err != nil || published.Before(cutoff) {
					continue
				}
				if pt.PriceTarget > pt.PriceWhenPosted {
					revisions++
				}
			}
			data.PositiveRevisions = models.Int(revisions)
		}

		return data, nil
	})
}

// GetSentiment returns ownership and analyst positioning inputs.
func (s *FMPService) GetSentiment(ctx context.Context, symbol string) (*models.SentimentData, error) {
	return WithCircuitBreaker(ctx, BreakerFMP, func() (*models.SentimentData, error) {
		data := &models.SentimentData{}
		now := time.Now().UTC()

		var ownership []fmpOwnershipResponse
		ownParams := url.Values{"symbol": {symbol}, "includeCurrentQuarter": {"true"}}
		if err := s.get(ctx, "ownership", s.baseURLv4+"/institutional-ownership/symbol-ownership", ownParams, &ownership); err != nil {
			observability.WithSymbol(symbol).Warn("ownership fetch failed", "error", err)
		} else if len(ownership) > 0 {
			data.InstitutionalOwnershipPct = ownership[0].OwnershipPercent
		}

		var trades []fmpInsiderTradeResponse
		tradeParams := url.Values{"symbol": {symbol}, "page": {"0"}}
		if err := s.get(ctx, "insider_trading", s.baseURLv4+"/insider-trading", tradeParams, &trades); err != nil {
			observability.WithSymbol(symbol).Warn("insider trading fetch failed", "error", err)
		} else {
			buyers, buyValue, netSelling := summarizeInsiderTrades(trades, now)
			data.InsiderBuyers = models.Int(buyers)
			data.InsiderBuyValue = &buyValue
			data.InsiderNetSelling = models.Bool(netSelling)
		}

		var consensus []fmpConsensusResponse
		consParams := url.Values{"symbol": {symbol}}
		if err := s.get(ctx, "consensus", s.baseURLv4+"/upgrades-downgrades-consensus", consParams, &consensus); err != nil {
			observability.WithSymbol(symbol).Warn("consensus fetch failed", "error", err)
		} else if len(consensus) > 0 {
			data.AnalystConsensus = parseConsensus(consensus[0].Consensus)
		}

		return data, nil
	})
}

// fmpConstituentResponse represents one index constituent
type fmpConstituentResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// GetIndexConstituents returns the symbols of a supported index ("sp500" or
// "nasdaq100") in the provider's order.
func (s *FMPService) GetIndexConstituents(ctx context.Context, index string) ([]string, error) {
	var endpoint string
	switch index {
	case "sp500":
		endpoint = "/sp500_constituent"
	case "nasdaq100":
		endpoint = "/nasdaq_constituent"
	default:
		return nil, fmt.Errorf("unsupported index %q", index)
	}

	return WithCircuitBreaker(ctx, BreakerFMP, func() ([]string, error) {
		var resp []fmpConstituentResponse

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			resp = resp[:0]
			return s.get(ctx, "constituents", s.baseURLv3+endpoint, nil, &resp)
		})
		if err != nil {
			return nil, err
		}

		symbols := make([]string, 0, len(resp))
		for _, c := range resp {
			symbols = append(symbols, c.Symbol)
		}
		return symbols, nil
	})
}

// get performs a GET request with the API key appended and decodes the JSON
// body into out.
func (s *FMPService) get(ctx context.Context, operation, reqURL string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest("fmp", operation)
	timer := metrics.NewTimer()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError("fmp", operation, "request_failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	timer.ObserveExternalAPI("fmp", operation)

	if resp.StatusCode != http.StatusOK {
		metrics.RecordExternalAPIError("fmp", operation, fmt.Sprintf("status_%d", resp.StatusCode))
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordExternalAPIError("fmp", operation, "decode_failed")
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// asPercent converts a fractional ratio (0.35) to percent form (35.0).
func asPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return models.Float(*v * 100)
}

// daysToNextEarnings finds the earliest calendar entry on or after now.
func daysToNextEarnings(entries []fmpEarningsResponse, now time.Time) *int {
	today := now.Truncate(24 * time.Hour)
	var next *time.Time
	for _, e := range entries {
		date, err := parseFMPDate(e.Date)
		if err != nil || date.Before(today) {
			continue
		}
		if next == nil || date.Before(*next) {
			d := date
			next = &d
		}
	}
	if next == nil {
		return nil
	}
	return models.Int(int(next.Sub(today).Hours() / 24))
}

// summarizeInsiderTrades reduces the trade list to the sentiment inputs:
// distinct buyers, total buy value, and whether selling outweighs buying.
// Only transactions above the reporting threshold in the trailing window
// count.
func summarizeInsiderTrades(trades []fmpInsiderTradeResponse, now time.Time) (int, decimal.Decimal, bool) {
	cutoff := now.AddDate(0, 0, -insiderLookbackDays)
	buyers := map[string]struct{}{}
	buyValue := decimal.Zero
	sellValue := decimal.Zero

	for _, tr := range trades {
		date, err := parseFMPDate(tr.TransactionDate)
		if err != nil || date.Before(cutoff) {
			continue
		}
		value := tr.SecuritiesTransacted * tr.Price
		if value < insiderReportingThreshold {
			continue
		}

		switch {
		case strings.HasPrefix(tr.TransactionType, "P"):
			buyers[tr.ReportingName] = struct{}{}
			buyValue = buyValue.Add(decimal.NewFromFloat(value))
		case strings.HasPrefix(tr.TransactionType, "S"):
			sellValue = sellValue.Add(decimal.NewFromFloat(value))
		}
	}

	return len(buyers), buyValue, sellValue.GreaterThan(buyValue)
}

// parseConsensus maps the provider's consensus label onto the recommendation
// buckets.
func parseConsensus(label string) models.Recommendation {
	switch strings.ToLower(strings.ReplaceAll(label, " ", "_")) {
	case "strong_buy":
		return models.RecommendationStrongBuy
	case "buy", "outperform", "overweight":
		return models.RecommendationBuy
	case "hold", "neutral":
		return models.RecommendationHold
	case "sell", "strong_sell", "underperform", "underweight":
		return models.RecommendationSell
	default:
		return models.RecommendationNone
	}
}

func parseFMPDate(s string) (time.Time, error) {
	if len(s) > 10 {
		s = s[:10]
	}
	return time.Parse("2006-01-02", s)
}
