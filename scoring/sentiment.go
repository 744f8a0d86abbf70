package scoring

import (
	"stock-scout/models"
)

// ScoreSentiment scores institutional backing, insider activity and analyst
// consensus: 40 + 40 + 20 points.
func ScoreSentiment(s *models.MarketSnapshot) models.ComponentScore {
	sent := s.Sentiment
	t := newTally(models.ComponentSentiment)

	if sent.InstitutionalOwnershipPct != nil {
		t.add("institutional ownership", institutionalPoints(*sent.InstitutionalOwnershipPct), 40)
	} else {
		t.missing("institutional ownership", 40)
	}

	if sent.InsiderBuyers != nil {
		netSelling := sent.InsiderNetSelling != nil && *sent.InsiderNetSelling
		t.add("insider buying", insiderPoints(*sent.InsiderBuyers, netSelling), 40)
	} else {
		t.missing("insider buying", 40)
	}

	if sent.AnalystConsensus != models.RecommendationNone {
		t.add("analyst consensus", consensusPoints(sent.AnalystConsensus), 20)
	} else {
		t.missing("analyst consensus", 20)
	}

	return t.result()
}

func institutionalPoints(pct float64) float64 {
	switch {
	case pct > 70:
		return 40
	case pct > 50:
		return 30
	case pct > 30:
		return 20
	default:
		return 10
	}
}

// insiderPoints counts distinct buyers over the trailing window. With no
// buyers, net selling drags the award to the floor.
func insiderPoints(buyers int, netSelling bool) float64 {
	switch {
	case buyers >= 3:
		return 40
	case buyers == 2:
		return 30
	case buyers == 1:
		return 20
	case netSelling:
		return 5
	default:
		return 10
	}
}

func consensusPoints(rec models.Recommendation) float64 {
	switch rec {
	case models.RecommendationStrongBuy, models.RecommendationBuy:
		return 20
	case models.RecommendationHold:
		return 10
	default:
		return 0
	}
}
