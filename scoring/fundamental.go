package scoring

import (
	"stock-scout/models"
)

// ScoreFundamental scores growth, financial health, profitability and
// valuation: 40 + 30 + 20 + 10 points.
func ScoreFundamental(s *models.MarketSnapshot) models.ComponentScore {
	f := s.Fundamentals
	t := newTally(models.ComponentFundamental)

	// Growth (40)
	if f.RevenueGrowthPct != nil {
		t.add("revenue growth", growthPoints(*f.RevenueGrowthPct), 20)
	} else {
		t.missing("revenue growth", 20)
	}
	if f.EarningsGrowthPct != nil {
		t.add("earnings growth", growthPoints(*f.EarningsGrowthPct), 20)
	} else {
		t.missing("earnings growth", 20)
	}

	// Financial health (30)
	if f.DebtToEquity != nil {
		t.add("debt to equity", debtToEquityPoints(*f.DebtToEquity), 15)
	} else {
		t.missing("debt to equity", 15)
	}
	if f.CurrentRatio != nil {
		t.add("current ratio", currentRatioPoints(*f.CurrentRatio), 15)
	} else {
		t.missing("current ratio", 15)
	}

	// Profitability (20)
	if f.ProfitMarginPct != nil {
		t.add("profit margin", profitabilityPoints(*f.ProfitMarginPct), 10)
	} else {
		t.missing("profit margin", 10)
	}
	if f.ReturnOnEquityPct != nil {
		t.add("return on equity", profitabilityPoints(*f.ReturnOnEquityPct), 10)
	} else {
		t.missing("return on equity", 10)
	}

	// Valuation (10)
	if f.PEGRatio != nil {
		t.add("peg ratio", pegPoints(*f.PEGRatio), 10)
	} else {
		t.missing("peg ratio", 10)
	}

	return t.result()
}

// growthPoints applies the shared revenue/earnings growth breakpoints.
// Below 10% the award scales linearly up to 5 points.
func growthPoints(pct float64) float64 {
	switch {
	case pct > 30:
		return 20
	case pct > 20:
		return 15
	case pct > 10:
		return 10
	case pct > 0:
		return pct / 2
	default:
		return 0
	}
}

func debtToEquityPoints(ratio float64) float64 {
	switch {
	case ratio < 0.5:
		return 15
	case ratio < 1.0:
		return 10
	case ratio < 1.5:
		return 5
	default:
		return 0
	}
}

func currentRatioPoints(ratio float64) float64 {
	switch {
	case ratio > 2.0:
		return 15
	case ratio > 1.5:
		return 10
	case ratio > 1.0:
		return 5
	default:
		return 0
	}
}

// profitabilityPoints applies the shared margin/ROE breakpoints.
func profitabilityPoints(pct float64) float64 {
	switch {
	case pct > 20:
		return 10
	case pct > 10:
		return 7
	case pct > 5:
		return 4
	default:
		return 0
	}
}

func pegPoints(peg float64) float64 {
	switch {
	case peg > 0 && peg < 1.0:
		return 10
	case peg >= 1.0 && peg < 1.5:
		return 7
	case peg >= 1.5 && peg < 2.0:
		return 4
	default:
		return 0
	}
}
