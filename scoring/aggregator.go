package scoring

import (
	"errors"
	"fmt"
	"math"

	"stock-scout/models"
)

// ErrInvalidWeights means the configured component weights do not sum to 1.0.
var ErrInvalidWeights = errors.New("scoring weights must sum to 1.0")

// Weights holds the four component weights. Immutable once validated.
type Weights struct {
	Fundamental float64
	Technical   float64
	Catalyst    float64
	Sentiment   float64
}

// DefaultWeights is the production weighting.
var DefaultWeights = Weights{
	Fundamental: 0.30,
	Technical:   0.25,
	Catalyst:    0.30,
	Sentiment:   0.15,
}

// Validate checks the weights sum to 1.0 within floating-point tolerance.
func (w Weights) Validate() error {
	sum := w.Fundamental + w.Technical + w.Catalyst + w.Sentiment
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("%w: got %.4f", ErrInvalidWeights, sum)
	}
	return nil
}

// Aggregator combines the four component scores into a final result.
type Aggregator struct {
	weights Weights
}

// NewAggregator validates the weights once at construction. Bad weights are
// a startup error, never a per-symbol one.
func NewAggregator(weights Weights) (*Aggregator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{weights: weights}, nil
}

// Weights returns the configured weights.
func (a *Aggregator) Weights() Weights {
	return a.weights
}

// Aggregate computes the weighted final score, rounded to one decimal, and
// derives the rating from the fixed thresholds.
func (a *Aggregator) Aggregate(snapshot *models.MarketSnapshot, fundamental, technical, catalyst, sentiment models.ComponentScore) models.FinalResult {
	weighted := fundamental.Score*a.weights.Fundamental +
		technical.Score*a.weights.Technical +
		catalyst.Score*a.weights.Catalyst +
		sentiment.Score*a.weights.Sentiment
	final := math.Round(weighted*10) / 10

	return models.FinalResult{
		Symbol:       snapshot.Symbol,
		CompanyName:  snapshot.CompanyName,
		FinalScore:   final,
		Rating:       models.RatingForScore(final),
		Fundamental:  fundamental,
		Technical:    technical,
		Catalyst:     catalyst,
		Sentiment:    sentiment,
		CurrentPrice: snapshot.Price,
		// Derived from the snapshot, not the wall clock: scoring the same
		// snapshot twice must yield an identical result.
		GeneratedAt: snapshot.FetchedAt,
	}
}

// Score runs all four scorers over a snapshot and aggregates them.
func (a *Aggregator) Score(snapshot *models.MarketSnapshot, overrides CatalystOverrides) models.FinalResult {
	return a.Aggregate(snapshot,
		ScoreFundamental(snapshot),
		ScoreTechnical(snapshot),
		ScoreCatalyst(snapshot, overrides),
		ScoreSentiment(snapshot),
	)
}
