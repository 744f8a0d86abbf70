package services

import (
	"context"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"stock-scout/models"
	"stock-scout/observability"
)

// YahooService provides daily price history from Yahoo Finance. It needs no
// credentials, which makes it the fallback history provider when Alpaca is
// not configured.
type YahooService struct{}

// NewYahooService creates a new YahooService instance
func NewYahooService() *YahooService {
	return &YahooService{}
}

// GetDailyBars returns daily bars for the trailing number of calendar days,
// oldest first. Closes are split-adjusted.
func (s *YahooService) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	return WithCircuitBreaker(ctx, BreakerYahoo, func() ([]models.Bar, error) {
		start := time.Now().AddDate(0, 0, -days)
		now := time.Now()
		params := &chart.Params{
			Start:    datetime.New(&start),
			End:      datetime.New(&now),
			Symbol:   symbol,
			Interval: datetime.OneDay,
		}

		metrics := observability.GetMetrics()
		metrics.RecordExternalAPIRequest("yahoo", "chart")
		timer := metrics.NewTimer()

		iter := chart.Get(params)

		bars := []models.Bar{}
		for iter.Next() {
			b := iter.Bar()
			bars = append(bars, models.Bar{
				Symbol:    symbol,
				Timestamp: time.Unix(int64(b.Timestamp), 0).UTC(),
				Open:      b.Open.InexactFloat64(),
				High:      b.High.InexactFloat64(),
				Low:       b.Low.InexactFloat64(),
				Close:     b.AdjClose.InexactFloat64(),
				Volume:    int64(b.Volume),
			})
		}
		timer.ObserveExternalAPI("yahoo", "chart")

		if err := iter.Err(); err != nil {
			metrics.RecordExternalAPIError("yahoo", "chart", "request_failed")
			return nil, &DataUnavailableError{Symbol: symbol, Reason: "price history fetch failed", Err: err}
		}
		if len(bars) == 0 {
			return nil, &DataUnavailableError{Symbol: symbol, Reason: "no price history"}
		}

		return bars, nil
	})
}
