package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"stock-scout/models"
	"stock-scout/observability"
)

// AlpacaService provides daily price history via Alpaca market data.
type AlpacaService struct {
	dataClient *marketdata.Client
}

// NewAlpacaService creates a new AlpacaService instance. An empty baseURL
// uses the default Alpaca market data endpoint.
func NewAlpacaService(apiKey, apiSecret, baseURL string) *AlpacaService {
	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})

	return &AlpacaService{dataClient: dataClient}
}

// GetDailyBars returns daily bars for the trailing number of calendar days,
// oldest first.
func (s *AlpacaService) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	return WithCircuitBreaker(ctx, BreakerAlpaca, func() ([]models.Bar, error) {
		var result []models.Bar

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			end := time.Now()
			start := end.AddDate(0, 0, -days)

			metrics := observability.GetMetrics()
			metrics.RecordExternalAPIRequest("alpaca", "bars")
			timer := metrics.NewTimer()

			bars, err := s.dataClient.GetBars(symbol, marketdata.GetBarsRequest{
				TimeFrame: marketdata.OneDay,
				Start:     start,
				End:       end,
			})
			timer.ObserveExternalAPI("alpaca", "bars")
			if err != nil {
				metrics.RecordExternalAPIError("alpaca", "bars", "request_failed")
				return fmt.Errorf("failed to get bars for %s: %w", symbol, err)
			}

			result = make([]models.Bar, 0, len(bars))
			for _, bar := range bars {
				result = append(result, models.Bar{
					Symbol:    symbol,
					Timestamp: bar.Timestamp,
					Open:      bar.Open,
					High:      bar.High,
					Low:       bar.Low,
					Close:     bar.Close,
					Volume:    int64(bar.Volume),
				})
			}

			return nil
		})
		if err != nil {
			return nil, &DataUnavailableError{Symbol: symbol, Reason: "price history fetch failed", Err: err}
		}

		if len(result) == 0 {
			return nil, &DataUnavailableError{Symbol: symbol, Reason: "no price history"}
		}

		return result, nil
	})
}
