package projection

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// Factor names and weights. Weights sum to 1.0.
const (
	FactorWinPct     = "win_pct"
	FactorSplit      = "home_away_split"
	FactorForm       = "recent_form"
	FactorMargin     = "scoring_margin"
	FactorAdvanced   = "advanced_stats"
	FactorRest       = "rest"
	FactorHeadToHead = "head_to_head"
	FactorInjuries   = "injuries"

	WeightWinPct     = 0.15
	WeightSplit      = 0.15
	WeightForm       = 0.15
	WeightMargin     = 0.10
	WeightAdvanced   = 0.20
	WeightRest       = 0.10
	WeightHeadToHead = 0.10
	WeightInjuries   = 0.05

	neutralScore = 50.0
)

func neutral(name string, weight float64) models.FactorScore {
	return models.FactorScore{Name: name, Weight: weight, Value: neutralScore, Defaulted: true}
}

func scored(name string, weight, value float64) models.FactorScore {
	return models.FactorScore{Name: name, Weight: weight, Value: clamp(value, 0, 100)}
}

// WinPctScore is wins / (wins+losses) × 100
func WinPctScore(s *models.TeamStats) models.FactorScore {
	if s == nil || s.Wins+s.Losses == 0 {
		return neutral(FactorWinPct, WeightWinPct)
	}
	return scored(FactorWinPct, WeightWinPct, float64(s.Wins)/float64(s.Wins+s.Losses)*100)
}

// SplitScore is the home (or away) win rate × 100
func SplitScore(s *models.TeamStats, isHome bool) models.FactorScore {
	if s == nil {
		return neutral(FactorSplit, WeightSplit)
	}
	w, l := s.AwayWins, s.AwayLosses
	if isHome {
		w, l = s.HomeWins, s.HomeLosses
	}
	if w+l == 0 {
		return neutral(FactorSplit, WeightSplit)
	}
	return scored(FactorSplit, WeightSplit, float64(w)/float64(w+l)*100)
}

// FormScore is 50 ± 5 per streak game
func FormScore(s *models.TeamStats) models.FactorScore {
	if s == nil || (s.StreakType != "W" && s.StreakType != "L") {
		return neutral(FactorForm, WeightForm)
	}
	return scored(FactorForm, WeightForm, neutralScore+float64(s.SignedStreak())*5)
}

// MarginScore is 50 + 2.5 × average scoring margin
func MarginScore(s *models.TeamStats) models.FactorScore {
	if !s.HasScoringHistory() {
		return neutral(FactorMargin, WeightMargin)
	}
	margin := s.PointsForPerGame() - s.PointsAgainstPerGame()
	return scored(FactorMargin, WeightMargin, neutralScore+2.5*margin)
}

// normalizeMetric maps value/baseline, clamped to [0.5, 1.5], onto [0, 1]
func normalizeMetric(value, baseline float64) (float64, bool) {
	if value <= 0 || baseline <= 0 {
		return 0, false
	}
	return clamp(value/baseline, 0.5, 1.5) - 0.5, true
}

func averageMetrics(pairs [][2]float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, p := range pairs {
		if v, ok := normalizeMetric(p[0], p[1]); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// AdvancedScore blends offense (0.6) and defense (0.4) efficiency against league baselines
func AdvancedScore(a *models.AdvancedStats, b sports.AdvancedBaselines) models.FactorScore {
	if a == nil {
		return neutral(FactorAdvanced, WeightAdvanced)
	}

	offense, hasOff := averageMetrics([][2]float64{
		{a.PointsPerGame, b.PointsPerGame},
		{a.FieldGoalPct, b.FieldGoalPct},
		{a.ThreePointPct, b.ThreePointPct},
		{a.FreeThrowPct, b.FreeThrowPct},
		{a.AssistTurnover, b.AssistTurnover},
	})
	defense, hasDef := averageMetrics([][2]float64{
		{a.ReboundsPerGame, b.ReboundsPerGame},
		{a.BlocksPerGame, b.BlocksPerGame},
		{a.StealsPerGame, b.StealsPerGame},
	})

	var blended float64
	switch {
	case hasOff && hasDef:
		blended = 0.6*offense + 0.4*defense
	case hasOff:
		blended = offense
	case hasDef:
		blended = defense
	default:
		return neutral(FactorAdvanced, WeightAdvanced)
	}

	return scored(FactorAdvanced, WeightAdvanced, blended*100)
}

// restBase maps days of rest onto a base score
func restBase(ctx *models.ScheduleContext) float64 {
	switch {
	case ctx.BackToBack || ctx.DaysRest <= 1:
		return 30
	case ctx.DaysRest == 2:
		return 60
	case ctx.DaysRest == 3:
		return 75
	default:
		return 85
	}
}

// RestScore scores days of rest, adjusted ±10 when the opponent's rest differs by 2+ days
func RestScore(own, opp *models.ScheduleContext) models.FactorScore {
	if own == nil {
		return neutral(FactorRest, WeightRest)
	}
	score := restBase(own)
	if opp != nil {
		diff := own.DaysRest - opp.DaysRest
		if diff >= 2 {
			score += 10
		} else if diff <= -2 {
			score -= 10
		}
	}
	return scored(FactorRest, WeightRest, score)
}

// HeadToHeadScore needs at least 2 meetings
func HeadToHeadScore(h *models.HeadToHead) models.FactorScore {
	if h == nil || h.Meetings < 2 {
		return neutral(FactorHeadToHead, WeightHeadToHead)
	}
	score := neutralScore + (h.WinRate()-0.5)*60 + clamp(h.AvgPointDiff, -10, 10)/10*20
	return scored(FactorHeadToHead, WeightHeadToHead, score)
}

// InjuryScore is 50 + (own health − opponent health) / 2.
// A team missing from a fetched report is treated as fully healthy.
func InjuryScore(own, opp *models.InjuryReport) models.FactorScore {
	if own == nil && opp == nil {
		return neutral(FactorInjuries, WeightInjuries)
	}
	return scored(FactorInjuries, WeightInjuries, neutralScore+(healthOf(own)-healthOf(opp))/2)
}

func healthOf(r *models.InjuryReport) float64 {
	if r == nil {
		return 100
	}
	return r.ImpactScore
}

// Composite is the weighted sum of factor scores
func Composite(factors []models.FactorScore) float64 {
	total := 0.0
	for _, f := range factors {
		total += f.Weight * f.Value
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
