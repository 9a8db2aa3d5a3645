package strategy

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// ModeConfig holds the per-risk-mode allocation constants
type ModeConfig struct {
	DailyBudgetPct  float64
	StraightRatio   float64
	ParlayRatio     float64
	UnderdogRatio   float64
	MinConfidence   models.Confidence
	BestValueParlay bool
	LongshotParlay  bool
}

var modeConfigs = map[models.RiskMode]ModeConfig{
	models.RiskConservative: {
		DailyBudgetPct: 0.15,
		StraightRatio:  0.75, ParlayRatio: 0.20, UnderdogRatio: 0.05,
		MinConfidence: models.ConfidenceMedium,
	},
	models.RiskBalanced: {
		DailyBudgetPct: 0.25,
		StraightRatio:  0.65, ParlayRatio: 0.25, UnderdogRatio: 0.10,
		MinConfidence:   models.ConfidenceMedium,
		BestValueParlay: true,
	},
	models.RiskAggressive: {
		DailyBudgetPct: 0.40,
		StraightRatio:  0.50, ParlayRatio: 0.30, UnderdogRatio: 0.20,
		MinConfidence:   models.ConfidenceLow,
		BestValueParlay: true,
		LongshotParlay:  true,
	},
}

// ConfigFor returns the constants for a mode; unknown modes fall back to balanced
func ConfigFor(mode models.RiskMode) ModeConfig {
	if cfg, ok := modeConfigs[mode]; ok {
		return cfg
	}
	return modeConfigs[models.RiskBalanced]
}

// Limits are the budget-derived sizing bounds for one strategy
type Limits struct {
	DailyBudget     int
	MinBet          int
	MaxStraightBets int
}

// DeriveLimits computes the daily budget, per-bet minimum and straight-bet cap
func DeriveLimits(bankroll float64, mode models.RiskMode) Limits {
	if bankroll <= 0 || math.IsNaN(bankroll) || math.IsInf(bankroll, 0) {
		return Limits{}
	}

	budget := int(math.Round(bankroll * ConfigFor(mode).DailyBudgetPct))

	minBet := int(math.Floor(float64(budget) * 0.05))
	if minBet < 2 {
		minBet = 2
	}

	maxStraight := budget / minBet
	if maxStraight < 3 {
		maxStraight = 3
	}
	if maxStraight > 8 {
		maxStraight = 8
	}

	return Limits{DailyBudget: budget, MinBet: minBet, MaxStraightBets: maxStraight}
}
