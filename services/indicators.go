package services

import (
	"github.com/montanaflynn/stats"

	"stock-scout/models"
)

// ComputeTechnicals derives the full indicator set from daily bars ordered
// oldest first. Indicators whose lookback exceeds the available history come
// back nil rather than zero.
func ComputeTechnicals(bars []models.Bar) models.TechnicalData {
	td := models.TechnicalData{}
	n := len(bars)
	if n == 0 {
		return td
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = float64(b.Volume)
	}

	td.SMA20 = trailingMean(closes, 20)
	td.SMA50 = trailingMean(closes, 50)
	td.SMA200 = trailingMean(closes, 200)

	td.RSI14 = rsi(closes, 14)

	macd, signal, histogram, histogramPrev := macdLine(closes)
	td.MACD = macd
	td.MACDSignal = signal
	td.MACDHistogram = histogram
	td.MACDHistogramPrev = histogramPrev

	avgVolume, _ := stats.Mean(tail(volumes, 50))
	recentVolume, _ := stats.Mean(tail(volumes, 10))
	td.AvgVolume = models.Float(avgVolume)
	relative := 1.0
	if avgVolume > 0 {
		relative = recentVolume / avgVolume
	}
	td.RelativeVolume = models.Float(relative)
	td.UpDownVolumeRatio = models.Float(upDownVolumeRatio(closes, volumes))

	if n >= 20 {
		td.HigherHighs = models.Bool(highs[n-1] >= highs[n-10])
		td.HigherLows = models.Bool(lows[n-1] >= lows[n-10])
	}

	return td
}

// trailingMean returns the mean of the last window values, or nil when the
// series is shorter than the window.
func trailingMean(values []float64, window int) *float64 {
	if len(values) < window {
		return nil
	}
	mean, err := stats.Mean(values[len(values)-window:])
	if err != nil {
		return nil
	}
	return models.Float(mean)
}

// rsi computes the relative strength index over a simple rolling mean of
// gains and losses. Requires period+1 closes.
func rsi(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	var gainSum, lossSum float64
	start := len(closes) - period
	for i := start; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}

	if lossSum == 0 {
		return models.Float(100)
	}
	rs := gainSum / lossSum
	return models.Float(100 - 100/(1+rs))
}

// macdLine computes MACD(12,26) with a 9-period signal. The previous
// histogram value is reported so callers can detect momentum inflection.
func macdLine(closes []float64) (macd, signal, histogram, histogramPrev *float64) {
	if len(closes) < 26 {
		return nil, nil, nil, nil
	}

	fast := emaSeries(closes, 12)
	slow := emaSeries(closes, 26)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signalSeries := emaSeries(line, 9)

	last := len(closes) - 1
	macd = models.Float(line[last])
	signal = models.Float(signalSeries[last])
	histogram = models.Float(line[last] - signalSeries[last])
	if last >= 1 {
		histogramPrev = models.Float(line[last-1] - signalSeries[last-1])
	}
	return macd, signal, histogram, histogramPrev
}

// emaSeries computes a recursive exponential moving average seeded with the
// first value, alpha = 2/(span+1).
func emaSeries(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// upDownVolumeRatio compares average volume on the last 20 up days against
// the last 20 down days. Defaults to 1 when either side has no sessions.
func upDownVolumeRatio(closes, volumes []float64) float64 {
	var upVolumes, downVolumes []float64
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			upVolumes = append(upVolumes, volumes[i])
		case closes[i] < closes[i-1]:
			downVolumes = append(downVolumes, volumes[i])
		}
	}

	upMean, errUp := stats.Mean(tail(upVolumes, 20))
	downMean, errDown := stats.Mean(tail(downVolumes, 20))
	if errUp != nil || errDown != nil || downMean == 0 {
		return 1
	}
	return upMean / downMean
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
