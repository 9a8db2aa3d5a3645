package strategy

import (
	"sort"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/oddsmath"
)

// Parlay names
const (
	ParlayLock      = "Lock of the Day"
	ParlayBestValue = "Best Value"
	ParlayLongshot  = "Longshot"
)

type parlayTemplate struct {
	name          string
	minLegs       int
	maxLegs       int
	allowLow      bool
	enabledInMode func(ModeConfig) bool
}

var parlayTemplates = []parlayTemplate{
	{name: ParlayLock, minLegs: 2, maxLegs: 3, enabledInMode: func(ModeConfig) bool { return true }},
	{name: ParlayBestValue, minLegs: 3, maxLegs: 4, enabledInMode: func(c ModeConfig) bool { return c.BestValueParlay }},
	{name: ParlayLongshot, minLegs: 2, maxLegs: 4, allowLow: true, enabledInMode: func(c ModeConfig) bool { return c.LongshotParlay }},
}

// parlayPool ranks analyzed picks by confidence tier then differential, one entry per game
func parlayPool(picks []models.Pick) []models.Pick {
	seen := make(map[string]bool)
	pool := make([]models.Pick, 0, len(picks))
	for _, p := range picks {
		if p.Analysis == nil || seen[p.Game.GameID] {
			continue
		}
		seen[p.Game.GameID] = true
		pool = append(pool, p)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		ri, rj := pool[i].Analysis.Confidence.Rank(), pool[j].Analysis.Confidence.Rank()
		if ri != rj {
			return ri > rj
		}
		return absDifferential(pool[i]) > absDifferential(pool[j])
	})
	return pool
}

// GenerateParlays builds the mode's parlays. No game appears in more than one parlay,
// and a parlay that cannot reach its minimum leg count is omitted.
func (a *Allocator) GenerateParlays(picks []models.Pick, mode models.RiskMode) []models.Parlay {
	cfg := ConfigFor(mode)
	pool := parlayPool(picks)
	used := make(map[string]bool)
	parlays := make([]models.Parlay, 0, len(parlayTemplates))

	for _, tmpl := range parlayTemplates {
		if !tmpl.enabledInMode(cfg) {
			continue
		}

		var legs []models.Pick
		for _, p := range pool {
			if len(legs) == tmpl.maxLegs {
				break
			}
			if used[p.Game.GameID] {
				continue
			}
			if !tmpl.allowLow && p.Analysis.Confidence == models.ConfidenceLow {
				continue
			}
			legs = append(legs, p)
		}

		if len(legs) < tmpl.minLegs {
			continue
		}

		parlay, ok := a.buildParlay(tmpl.name, legs)
		if !ok {
			continue
		}
		for _, p := range legs {
			used[p.Game.GameID] = true
		}
		parlays = append(parlays, parlay)
	}

	return parlays
}

func (a *Allocator) buildParlay(name string, picks []models.Pick) (models.Parlay, bool) {
	legs := make([]models.ParlayLeg, 0, len(picks))
	prices := make([]int, 0, len(picks))
	winProb := 1.0

	for _, p := range picks {
		choice := a.parlayLegChoice(p)
		legs = append(legs, models.ParlayLeg{
			GameID:     p.Game.GameID,
			Matchup:    p.Game.Matchup(),
			Label:      choice.Label,
			BetType:    choice.BetType,
			Side:       choice.Side,
			Odds:       choice.Odds,
			Confidence: p.Analysis.Confidence,
		})
		prices = append(prices, choice.Odds)
		winProb *= WinProbability(p.Analysis.Confidence)
	}

	decimalOdds, err := oddsmath.CombineDecimal(prices)
	if err != nil {
		return models.Parlay{}, false
	}
	american, err := oddsmath.DecimalToAmerican(decimalOdds)
	if err != nil {
		return models.Parlay{}, false
	}

	return models.Parlay{
		Name:           name,
		Legs:           legs,
		DecimalOdds:    decimalOdds,
		AmericanOdds:   american,
		WinProbability: winProb,
	}, true
}
