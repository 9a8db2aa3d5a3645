package strategy

import (
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/oddsmath"
)

const (
	valueUnderdogOdds = 150
	flyerOdds         = 200
	parlayJuiceLimit  = -150
)

// Assumed win probabilities by confidence tier
var tierWinProbability = map[models.Confidence]float64{
	models.ConfidenceHigh:   0.60,
	models.ConfidenceMedium: 0.52,
	models.ConfidenceLow:    0.45,
}

// WinProbability returns the assumed win probability for a tier
func WinProbability(c models.Confidence) float64 {
	if p, ok := tierWinProbability[c]; ok {
		return p
	}
	return tierWinProbability[models.ConfidenceLow]
}

// pickSide is the side a pick backs, falling back to the analysis pick type
func pickSide(p models.Pick) models.Side {
	if p.Side != "" {
		return p.Side
	}
	if p.Analysis != nil {
		return p.Analysis.PickType.Side()
	}
	return ""
}

// pickOdds is the moneyline on the picked side, defaulting to -110
func pickOdds(p models.Pick) int {
	if price, ok := p.Game.Moneyline(pickSide(p)); ok {
		return price
	}
	return oddsmath.DefaultPrice
}

// IsValueUnderdog is a plus-money pick (> +150) the model still rates medium or high
func IsValueUnderdog(p models.Pick) bool {
	if p.Analysis == nil {
		return false
	}
	return pickOdds(p) > valueUnderdogOdds && p.Analysis.Confidence.AtLeast(models.ConfidenceMedium)
}

// IsUnderdogFlyer is a low-confidence longshot priced above +200
func IsUnderdogFlyer(p models.Pick) bool {
	if p.Analysis == nil {
		return false
	}
	return p.Analysis.Confidence == models.ConfidenceLow && pickOdds(p) > flyerOdds
}

func absDifferential(p models.Pick) float64 {
	if p.Analysis == nil {
		return 0
	}
	d := p.Analysis.Differential
	if d < 0 {
		return -d
	}
	return d
}
