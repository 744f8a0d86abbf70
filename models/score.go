package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component identifies one of the four scoring dimensions.
type Component string

const (
	ComponentFundamental Component = "fundamental"
	ComponentTechnical   Component = "technical"
	ComponentCatalyst    Component = "catalyst"
	ComponentSentiment   Component = "sentiment"
)

// RuleResult records how a single scoring rule contributed to a component
// score. Breakdowns are kept so a reviewer can reproduce every point awarded.
type RuleResult struct {
	Name     string  `json:"name"`
	Points   float64 `json:"points"`
	Possible float64 `json:"possible"`
}

// ComponentScore is one 0-100 sub-score plus the itemized rules behind it.
type ComponentScore struct {
	Component Component    `json:"component"`
	Score     float64      `json:"score"`
	Breakdown []RuleResult `json:"breakdown"`
}

// Rating is the discrete label derived from the final score.
type Rating string

const (
	RatingStrongBuy Rating = "STRONG BUY"
	RatingBuy       Rating = "BUY"
	RatingHold      Rating = "HOLD"
	RatingPass      Rating = "PASS"
)

// Rank orders ratings PASS < HOLD < BUY < STRONG BUY.
func (r Rating) Rank() int {
	switch r {
	case RatingStrongBuy:
		return 3
	case RatingBuy:
		return 2
	case RatingHold:
		return 1
	default:
		return 0
	}
}

// RatingForScore maps a final score to its rating band. Lower bounds are
// inclusive: 80 is a STRONG BUY, 65 a BUY, 50 a HOLD.
func RatingForScore(score float64) Rating {
	switch {
	case score >= 80:
		return RatingStrongBuy
	case score >= 65:
		return RatingBuy
	case score >= 50:
		return RatingHold
	default:
		return RatingPass
	}
}

// FinalResult is the scored outcome for one symbol in one screening run.
// It is immutable after creation.
type FinalResult struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`

	FinalScore float64 `json:"final_score"`
	Rating     Rating  `json:"rating"`

	Fundamental ComponentScore `json:"fundamental"`
	Technical   ComponentScore `json:"technical"`
	Catalyst    ComponentScore `json:"catalyst"`
	Sentiment   ComponentScore `json:"sentiment"`

	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
