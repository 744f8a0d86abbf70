package scoring

import (
	"stock-scout/models"
)

// ScoreTechnical scores trend, momentum, volume and pattern: 30 + 30 + 20 +
// 20 points.
func ScoreTechnical(s *models.MarketSnapshot) models.ComponentScore {
	tech := s.Technicals
	t := newTally(models.ComponentTechnical)

	var price *float64
	if s.Price != nil {
		p := s.Price.InexactFloat64()
		price = &p
	}

	// Trend (30)
	scoreAbove := func(name string, ma *float64, points float64) {
		if price == nil || ma == nil {
			t.missing(name, points)
			return
		}
		if *price > *ma {
			t.add(name, points, points)
		} else {
			t.add(name, 0, points)
		}
	}
	scoreAbove("price above 20-day MA", tech.SMA20, 10)
	scoreAbove("price above 50-day MA", tech.SMA50, 10)
	scoreAbove("price above 200-day MA", tech.SMA200, 5)

	if tech.SMA50 != nil && tech.SMA200 != nil {
		if *tech.SMA50 > *tech.SMA200 {
			t.add("golden cross", 5, 5)
		} else {
			t.add("golden cross", 0, 5)
		}
	} else {
		t.missing("golden cross", 5)
	}

	// Momentum (30)
	if tech.RSI14 != nil {
		t.add("rsi", rsiPoints(*tech.RSI14), 15)
	} else {
		t.missing("rsi", 15)
	}
	if tech.MACD != nil && tech.MACDSignal != nil && tech.MACDHistogram != nil {
		t.add("macd", macdPoints(tech), 15)
	} else {
		t.missing("macd", 15)
	}

	// Volume (20)
	if tech.RelativeVolume != nil {
		t.add("relative volume", relativeVolumePoints(*tech.RelativeVolume), 10)
	} else {
		t.missing("relative volume", 10)
	}
	if tech.UpDownVolumeRatio != nil {
		t.add("up/down volume", upDownPoints(*tech.UpDownVolumeRatio), 10)
	} else {
		t.missing("up/down volume", 10)
	}

	// Pattern (20)
	if tech.HigherHighs != nil {
		t.add("higher highs", boolPoints(*tech.HigherHighs, 10), 10)
	} else {
		t.missing("higher highs", 10)
	}
	if tech.HigherLows != nil {
		t.add("higher lows", boolPoints(*tech.HigherLows, 10), 10)
	} else {
		t.missing("higher lows", 10)
	}

	return t.result()
}

// rsiPoints rewards the 40-70 sweet spot; oversold gets partial credit,
// overbought nearly none.
func rsiPoints(rsi float64) float64 {
	switch {
	case rsi >= 40 && rsi <= 70:
		return 15
	case rsi >= 30 && rsi <= 80:
		return 10
	case rsi < 30:
		return 5
	default:
		return 3
	}
}

// macdPoints: a positive histogram with MACD above signal is a confirmed
// bullish cross; a negative but improving histogram is early accumulation.
func macdPoints(tech models.TechnicalData) float64 {
	histogram := *tech.MACDHistogram
	switch {
	case histogram > 0 && *tech.MACD > *tech.MACDSignal:
		return 15
	case histogram > 0:
		return 10
	case histogram < 0 && tech.MACDHistogramPrev != nil && histogram > *tech.MACDHistogramPrev:
		return 5
	default:
		return 0
	}
}

func relativeVolumePoints(ratio float64) float64 {
	switch {
	case ratio > 1.5:
		return 10
	case ratio > 1.2:
		return 5
	default:
		return 2
	}
}

func upDownPoints(ratio float64) float64 {
	switch {
	case ratio > 1.2:
		return 10
	case ratio > 1.0:
		return 5
	default:
		return 0
	}
}

func boolPoints(present bool, points float64) float64 {
	if present {
		return points
	}
	return 0
}
