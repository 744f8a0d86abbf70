package scoring

import (
	"github.com/shopspring/decimal"

	"stock-scout/models"
)

// BusinessEvent is a manually confirmed catalyst (product launch, FDA
// decision, contract win) that cannot be derived from market data. Each
// event is worth 15-25 points; inputs outside that band are clamped.
type BusinessEvent struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// CatalystOverrides carries the discretionary catalyst inputs for one
// symbol. The zero value means no manual signal.
type CatalystOverrides struct {
	BusinessEvents []BusinessEvent `json:"business_events,omitempty"`

	// FavorableRotation marks the symbol's sector as currently in favor.
	FavorableRotation bool `json:"favorable_rotation,omitempty"`
}

const (
	businessEventMinPoints = 15
	businessEventMaxPoints = 25
	businessBucketCap      = 40
	earningsBucketCap      = 40

	earningsWindowDays = 60

	midCapFloor   = 2_000_000_000
	midCapCeiling = 10_000_000_000
)

// ScoreCatalyst scores scheduled events, discretionary business catalysts
// and market position: 40 + 40 + 20 points.
func ScoreCatalyst(s *models.MarketSnapshot, overrides CatalystOverrides) models.ComponentScore {
	c := s.Catalysts
	t := newTally(models.ComponentCatalyst)

	// Scheduled catalysts (40, capped). The three awards are additive but
	// the bucket never exceeds its cap.
	earnings := 0.0
	anyScheduled := false
	if c.DaysToEarnings != nil {
		anyScheduled = true
		if *c.DaysToEarnings >= 0 && *c.DaysToEarnings <= earningsWindowDays {
			earnings += 30
		}
	}
	if c.AnalystUpgrades30d != nil {
		anyScheduled = true
		if *c.AnalystUpgrades30d >= 2 {
			earnings += 20
		}
	}
	if c.PositiveRevisions != nil {
		anyScheduled = true
		if *c.PositiveRevisions >= 1 {
			earnings += 10
		}
	}
	if earnings > earningsBucketCap {
		earnings = earningsBucketCap
	}
	if anyScheduled {
		t.add("scheduled catalysts", earnings, earningsBucketCap)
	} else {
		t.missing("scheduled catalysts", earningsBucketCap)
	}

	// Business catalysts (40, capped). Manual signal only.
	if len(overrides.BusinessEvents) > 0 {
		business := 0.0
		for _, event := range overrides.BusinessEvents {
			business += clamp(event.Points, businessEventMinPoints, businessEventMaxPoints)
		}
		if business > businessBucketCap {
			business = businessBucketCap
		}
		t.add("business catalysts", business, businessBucketCap)
	} else {
		t.missing("business catalysts", businessBucketCap)
	}

	// Market position (20)
	if s.Sector != "" {
		t.add("sector classification", 10, 10)
	} else {
		t.missing("sector classification", 10)
	}
	if c.MarketCap != nil {
		t.add("market cap band", marketCapPoints(*c.MarketCap), 5)
	} else {
		t.missing("market cap band", 5)
	}
	if overrides.FavorableRotation {
		t.add("sector rotation", 5, 5)
	} else {
		t.missing("sector rotation", 5)
	}

	return t.result()
}

// marketCapPoints awards the mid-cap sweet spot and established large caps
// equally; small caps get nothing.
func marketCapPoints(cap decimal.Decimal) float64 {
	floor := decimal.NewFromInt(midCapFloor)
	ceiling := decimal.NewFromInt(midCapCeiling)
	if cap.GreaterThanOrEqual(floor) && cap.LessThanOrEqual(ceiling) {
		return 5
	}
	if cap.GreaterThan(ceiling) {
		return 5
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
