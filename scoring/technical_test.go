package scoring

import (
	"testing"

	"github.com/shopspring/decimal"

	"stock-scout/models"
)

func fullTechnicalSnapshot() *models.MarketSnapshot {
	price := decimal.NewFromFloat(110)
	return &models.MarketSnapshot{
		Symbol: "TEST",
		Price:  &price,
		Technicals: models.TechnicalData{
			SMA20:             models.Float(100),
			SMA50:             models.Float(95),
			SMA200:            models.Float(90),
			RSI14:             models.Float(55),
			MACD:              models.Float(2),
			MACDSignal:        models.Float(1),
			MACDHistogram:     models.Float(1),
			MACDHistogramPrev: models.Float(0.5),
			AvgVolume:         models.Float(1_000_000),
			RelativeVolume:    models.Float(1.6),
			UpDownVolumeRatio: models.Float(1.3),
			HigherHighs:       models.Bool(true),
			HigherLows:        models.Bool(true),
		},
	}
}

func TestScoreTechnical_PerfectSetup(t *testing.T) {
	// Trend 30 + momentum 30 + volume 20 + pattern 20
	score := ScoreTechnical(fullTechnicalSnapshot())

	if score.Score != 100 {
		t.Errorf("Score = %v, want 100", score.Score)
	}
}

func TestScoreTechnical_AllMissing(t *testing.T) {
	score := ScoreTechnical(&models.MarketSnapshot{Symbol: "TEST"})

	if score.Score != 0 {
		t.Errorf("Score = %v, want 0", score.Score)
	}
	if len(score.Breakdown) != 1 || score.Breakdown[0].Name != "no data available" {
		t.Errorf("expected single explanatory entry, got %+v", score.Breakdown)
	}
}

func TestScoreTechnical_Downtrend(t *testing.T) {
	price := decimal.NewFromFloat(80)
	snapshot := &models.MarketSnapshot{
		Symbol: "TEST",
		Price:  &price,
		Technicals: models.TechnicalData{
			SMA20:             models.Float(100),
			SMA50:             models.Float(105),
			SMA200:            models.Float(110),
			RSI14:             models.Float(25), // oversold
			MACD:              models.Float(-2),
			MACDSignal:        models.Float(-1),
			MACDHistogram:     models.Float(-1),
			MACDHistogramPrev: models.Float(-0.5), // worsening
			RelativeVolume:    models.Float(0.9),
			UpDownVolumeRatio: models.Float(0.7),
			HigherHighs:       models.Bool(false),
			HigherLows:        models.Bool(false),
		},
	}

	score := ScoreTechnical(snapshot)
	// trend 0, rsi 5, macd 0, relative volume 2, up/down 0, pattern 0
	if score.Score != 7 {
		t.Errorf("Score = %v, want 7", score.Score)
	}
}

func TestRSIPoints(t *testing.T) {
	tests := []struct {
		rsi  float64
		want float64
	}{
		{55, 15},
		{40, 15},
		{70, 15},
		{35, 10},
		{75, 10},
		{80, 10},
		{25, 5},
		{85, 3},
	}

	for _, tt := range tests {
		if got := rsiPoints(tt.rsi); got != tt.want {
			t.Errorf("rsiPoints(%v) = %v, want %v", tt.rsi, got, tt.want)
		}
	}
}

func TestMACDPoints(t *testing.T) {
	tests := []struct {
		name string
		tech models.TechnicalData
		want float64
	}{
		{
			name: "confirmed bullish cross",
			tech: models.TechnicalData{
				MACD: models.Float(2), MACDSignal: models.Float(1), MACDHistogram: models.Float(1),
			},
			want: 15,
		},
		{
			name: "positive histogram only",
			tech: models.TechnicalData{
				MACD: models.Float(1), MACDSignal: models.Float(2), MACDHistogram: models.Float(0.5),
			},
			want: 10,
		},
		{
			name: "negative but improving",
			tech: models.TechnicalData{
				MACD: models.Float(-2), MACDSignal: models.Float(-1),
				MACDHistogram: models.Float(-0.5), MACDHistogramPrev: models.Float(-1),
			},
			want: 5,
		},
		{
			name: "negative and worsening",
			tech: models.TechnicalData{
				MACD: models.Float(-2), MACDSignal: models.Float(-1),
				MACDHistogram: models.Float(-1), MACDHistogramPrev: models.Float(-0.5),
			},
			want: 0,
		},
		{
			name: "negative without prior histogram",
			tech: models.TechnicalData{
				MACD: models.Float(-2), MACDSignal: models.Float(-1), MACDHistogram: models.Float(-1),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := macdPoints(tt.tech); got != tt.want {
				t.Errorf("macdPoints = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreTechnical_NoPriceSkipsTrendRules(t *testing.T) {
	snapshot := fullTechnicalSnapshot()
	snapshot.Price = nil

	score := ScoreTechnical(snapshot)
	// Loses the three price-vs-MA rules (25 points); golden cross survives.
	if score.Score != 75 {
		t.Errorf("Score = %v, want 75", score.Score)
	}
}

func TestScoreTechnical_InRange(t *testing.T) {
	snapshots := []*models.MarketSnapshot{
		fullTechnicalSnapshot(),
		{Symbol: "EMPTY"},
		{Symbol: "PARTIAL", Technicals: models.TechnicalData{RSI14: models.Float(55)}},
	}

	for _, snapshot := range snapshots {
		score := ScoreTechnical(snapshot)
		if score.Score < 0 || score.Score > 100 {
			t.Errorf("%s: score %v out of [0,100]", snapshot.Symbol, score.Score)
		}
	}
}
