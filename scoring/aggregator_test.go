package scoring

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stock-scout/models"
)

func componentScore(c models.Component, score float64) models.ComponentScore {
	return models.ComponentScore{Component: c, Score: score}
}

func TestNewAggregator_DefaultWeights(t *testing.T) {
	agg, err := NewAggregator(DefaultWeights)
	if err != nil {
		t.Fatalf("NewAggregator(DefaultWeights) failed: %v", err)
	}
	if agg.Weights() != DefaultWeights {
		t.Error("weights not retained")
	}
}

func TestNewAggregator_InvalidWeights(t *testing.T) {
	_, err := NewAggregator(Weights{Fundamental: 0.5, Technical: 0.5, Catalyst: 0.5, Sentiment: 0.5})
	if err == nil {
		t.Fatal("expected error for weights summing to 2.0")
	}
	if !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestWeights_ValidateTolerance(t *testing.T) {
	// Floating-point noise within 1e-6 is fine.
	w := Weights{Fundamental: 0.3, Technical: 0.25, Catalyst: 0.3, Sentiment: 0.1499999}
	if err := w.Validate(); err != nil {
		t.Errorf("Validate() should tolerate 1e-7 drift: %v", err)
	}
}

func TestAggregate_WeightedScore(t *testing.T) {
	// 90×.30 + 80×.25 + 85×.30 + 70×.15 = 83.0 → STRONG BUY
	agg, err := NewAggregator(DefaultWeights)
	if err != nil {
		t.Fatal(err)
	}

	price := decimal.NewFromFloat(230.5)
	fetched := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	snapshot := &models.MarketSnapshot{Symbol: "AAPL", CompanyName: "Apple Inc.", Price: &price, FetchedAt: fetched}

	result := agg.Aggregate(snapshot,
		componentScore(models.ComponentFundamental, 90),
		componentScore(models.ComponentTechnical, 80),
		componentScore(models.ComponentCatalyst, 85),
		componentScore(models.ComponentSentiment, 70),
	)

	if result.FinalScore != 83.0 {
		t.Errorf("FinalScore = %v, want 83.0", result.FinalScore)
	}
	if result.Rating != models.RatingStrongBuy {
		t.Errorf("Rating = %q, want STRONG BUY", result.Rating)
	}
	if result.Symbol != "AAPL" || result.CompanyName != "Apple Inc." {
		t.Error("identity fields not carried through")
	}
	if result.CurrentPrice == nil || !result.CurrentPrice.Equal(price) {
		t.Error("price not carried through")
	}
	if !result.GeneratedAt.Equal(fetched) {
		t.Errorf("GeneratedAt = %v, want the snapshot fetch time %v", result.GeneratedAt, fetched)
	}
}

func TestAggregate_RoundsToOneDecimal(t *testing.T) {
	agg, err := NewAggregator(DefaultWeights)
	if err != nil {
		t.Fatal(err)
	}

	result := agg.Aggregate(&models.MarketSnapshot{Symbol: "TEST"},
		componentScore(models.ComponentFundamental, 33.333),
		componentScore(models.ComponentTechnical, 33.333),
		componentScore(models.ComponentCatalyst, 33.333),
		componentScore(models.ComponentSentiment, 33.333),
	)

	if result.FinalScore != 33.3 {
		t.Errorf("FinalScore = %v, want 33.3", result.FinalScore)
	}
}

func TestAggregate_BoundsHold(t *testing.T) {
	agg, err := NewAggregator(DefaultWeights)
	if err != nil {
		t.Fatal(err)
	}

	extremes := [][4]float64{
		{0, 0, 0, 0},
		{100, 100, 100, 100},
		{100, 0, 100, 0},
		{0, 100, 0, 100},
	}

	for _, e := range extremes {
		result := agg.Aggregate(&models.MarketSnapshot{Symbol: "TEST"},
			componentScore(models.ComponentFundamental, e[0]),
			componentScore(models.ComponentTechnical, e[1]),
			componentScore(models.ComponentCatalyst, e[2]),
			componentScore(models.ComponentSentiment, e[3]),
		)
		if result.FinalScore < 0 || result.FinalScore > 100 {
			t.Errorf("FinalScore %v out of [0,100] for components %v", result.FinalScore, e)
		}
	}
}

func TestScore_EndToEnd(t *testing.T) {
	agg, err := NewAggregator(DefaultWeights)
	if err != nil {
		t.Fatal(err)
	}

	snapshot := fullFundamentalSnapshot()
	result := agg.Score(snapshot, CatalystOverrides{})

	// Only fundamentals present: 100×0.30 = 30.0 → PASS
	if result.FinalScore != 30.0 {
		t.Errorf("FinalScore = %v, want 30.0", result.FinalScore)
	}
	if result.Rating != models.RatingPass {
		t.Errorf("Rating = %q, want PASS", result.Rating)
	}
	if result.Fundamental.Score != 100 {
		t.Errorf("Fundamental.Score = %v, want 100", result.Fundamental.Score)
	}
}

func TestScore_Idempotent(t *testing.T) {
	agg, err := NewAggregator(DefaultWeights)
	if err != nil {
		t.Fatal(err)
	}

	snapshot := fullTechnicalSnapshot()
	snapshot.FetchedAt = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	first := agg.Score(snapshot, CatalystOverrides{})
	second := agg.Score(snapshot, CatalystOverrides{})

	// Byte-identical, timestamps included: scoring has no wall-clock input.
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical snapshots must yield identical results:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
