package strategy_test

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

type pickOpts struct {
	sport        string
	side         models.Side
	confidence   models.Confidence
	differential float64
	homeML       int
	awayML       int
	drawML       int
	spread       *float64
	spreadPick   models.PickType
}

func makePick(id string, o pickOpts) models.Pick {
	if o.sport == "" {
		o.sport = "basketball_nba"
	}
	if o.side == "" {
		o.side = models.SideHome
	}
	odds := &models.Odds{Spread: o.spread}
	if o.homeML != 0 {
		odds.HomeMoneyline = intPtr(o.homeML)
	}
	if o.awayML != 0 {
		odds.AwayMoneyline = intPtr(o.awayML)
	}
	if o.drawML != 0 {
		odds.DrawMoneyline = intPtr(o.drawML)
	}

	pickType := models.PickHome
	switch o.side {
	case models.SideAway:
		pickType = models.PickAway
	case models.SideDraw:
		pickType = models.PickDraw
	}

	return models.Pick{
		Game: models.Game{
			GameID:   id,
			SportKey: o.sport,
			Home:     models.TeamRef{ID: id + "-h", Abbr: "H" + id},
			Away:     models.TeamRef{ID: id + "-a", Abbr: "A" + id},
			Odds:     odds,
		},
		Side: o.side,
		Analysis: &models.PickAnalysis{
			GameID:       id,
			SportKey:     o.sport,
			Confidence:   o.confidence,
			Differential: o.differential,
			PickType:     pickType,
			SpreadPick:   o.spreadPick,
		},
	}
}

// slate builds a mixed set of picks: favorites across all tiers, a value underdog and two flyers
func slate() []models.Pick {
	picks := []models.Pick{
		makePick("g1", pickOpts{confidence: models.ConfidenceHigh, differential: 22, homeML: -180, awayML: 155}),
		makePick("g2", pickOpts{confidence: models.ConfidenceHigh, differential: 17, homeML: -250, awayML: 205, spread: floatPtr(-6.5)}),
		makePick("g3", pickOpts{confidence: models.ConfidenceMedium, differential: 12, side: models.SideAway, homeML: -200, awayML: 170}),
		makePick("g4", pickOpts{confidence: models.ConfidenceMedium, differential: 8, homeML: -120, awayML: 100}),
		makePick("g5", pickOpts{confidence: models.ConfidenceMedium, differential: 6, homeML: -140, awayML: 120}),
		makePick("g6", pickOpts{confidence: models.ConfidenceLow, differential: 4, side: models.SideAway, homeML: -300, awayML: 250}),
		makePick("g7", pickOpts{confidence: models.ConfidenceLow, differential: 3, side: models.SideAway, homeML: -400, awayML: 320}),
		makePick("g8", pickOpts{confidence: models.ConfidenceLow, differential: 2, homeML: -110, awayML: -110}),
	}
	return picks
}

func manyHighPicks(n int) []models.Pick {
	picks := make([]models.Pick, n)
	for i := range picks {
		picks[i] = makePick(fmt.Sprintf("h%d", i), pickOpts{
			confidence:   models.ConfidenceHigh,
			differential: float64(30 - i),
			homeML:       -130,
			awayML:       110,
		})
	}
	return picks
}
