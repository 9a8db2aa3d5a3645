package projection

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// DrawMargin is the soccer projected margin below which a draw is picked
const DrawMargin = 0.5

// TeamFactors computes the eight factor scores for one side
func TeamFactors(p sports.Profile, own, opp TeamInputs, h2h *models.HeadToHead, isHome bool) []models.FactorScore {
	return []models.FactorScore{
		WinPctScore(own.Stats),
		SplitScore(own.Stats, isHome),
		FormScore(own.Stats),
		MarginScore(own.Stats),
		AdvancedScore(own.Advanced, p.Baselines),
		RestScore(own.Schedule, opp.Schedule),
		HeadToHeadScore(h2h),
		InjuryScore(own.Injuries, opp.Injuries),
	}
}

// Analyze produces the pick analysis for one game. It is deterministic for the same inputs.
func Analyze(p sports.Profile, in GameInputs) *models.PickAnalysis {
	homeFactors := TeamFactors(p, in.Home, in.Away, in.HeadToHead, true)
	awayFactors := TeamFactors(p, in.Away, in.Home, in.HeadToHead.Invert(), false)

	homeScore := Composite(homeFactors)
	awayScore := Composite(awayFactors)
	// One decimal, shared by Differential and both confidence tiers
	differential := round1(math.Abs(homeScore - awayScore))

	favorite := models.SideHome
	if awayScore > homeScore {
		favorite = models.SideAway
	}

	proj := ProjectScore(p, in.Home.Stats, in.Away.Stats, differential)

	pickType := models.PickHome
	if proj.ProjectedWinner == models.SideAway {
		pickType = models.PickAway
	}
	if p.Soccer && math.Abs(proj.ProjectedMargin) < DrawMargin {
		pickType = models.PickDraw
	}

	a := &models.PickAnalysis{
		GameID:            in.Game.GameID,
		SportKey:          in.Game.SportKey,
		HomeScore:         round1(homeScore),
		AwayScore:         round1(awayScore),
		Differential:      differential,
		CompositeFavorite: favorite,
		Confidence:        ConfidenceFor(differential),
		PickType:          pickType,
		Projection:        proj,
		HomeFactors:       homeFactors,
		AwayFactors:       awayFactors,
	}

	applyLinePicks(p, in.Game.Odds, a)
	a.Reasoning = BuildReasoning(in, a)

	return a
}

// applyLinePicks sets the independent spread and total picks when lines are posted
func applyLinePicks(p sports.Profile, odds *models.Odds, a *models.PickAnalysis) {
	if odds == nil {
		return
	}

	if !p.Soccer && odds.Spread != nil {
		edge := a.Projection.ProjectedMargin + *odds.Spread
		a.SpreadPick = models.PickAwayCover
		if edge > 0 {
			a.SpreadPick = models.PickHomeCover
		}

		unit := p.LeagueAverage
		switch abs := math.Abs(edge); {
		case abs < 0.02*unit:
			a.SpreadConfidence = models.ConfidenceLow
		case abs < 0.05*unit:
			a.SpreadConfidence = models.ConfidenceMedium
		default:
			a.SpreadConfidence = models.ConfidenceHigh
		}
	}

	if odds.Total != nil {
		a.TotalPick = models.PickUnder
		if a.Projection.TotalPoints > *odds.Total {
			a.TotalPick = models.PickOver
		}
	}
}
