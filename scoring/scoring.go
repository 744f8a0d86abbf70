// Package scoring turns one MarketSnapshot into four component scores and a
// weighted final score. Every scorer is a pure function: identical snapshots
// always produce identical scores, and a missing input contributes zero to
// its own rule instead of failing the symbol.
package scoring

import (
	"stock-scout/models"
)

// tally accumulates rule results for one component score.
type tally struct {
	component models.Component
	score     float64
	breakdown []models.RuleResult
	present   bool
}

func newTally(component models.Component) *tally {
	return &tally{component: component}
}

// add records a rule evaluated against present data.
func (t *tally) add(name string, points, possible float64) {
	t.present = true
	t.score += points
	t.breakdown = append(t.breakdown, models.RuleResult{Name: name, Points: points, Possible: possible})
}

// missing records a rule whose underlying data was absent.
func (t *tally) missing(name string, possible float64) {
	t.breakdown = append(t.breakdown, models.RuleResult{Name: name, Points: 0, Possible: possible})
}

// result clamps the score into [0,100]. A component with no present data at
// all collapses to a single explanatory entry.
func (t *tally) result() models.ComponentScore {
	if !t.present {
		return models.ComponentScore{
			Component: t.component,
			Score:     0,
			Breakdown: []models.RuleResult{{Name: "no data available", Points: 0, Possible: 100}},
		}
	}
	score := t.score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return models.ComponentScore{Component: t.component, Score: score, Breakdown: t.breakdown}
}
