package projection

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// ConfidenceFor maps a composite differential onto a confidence tier
func ConfidenceFor(differential float64) models.Confidence {
	d := math.Abs(differential)
	switch {
	case d < 5:
		return models.ConfidenceLow
	case d < 15:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceHigh
	}
}

func winPctOf(s *models.TeamStats) float64 {
	if s == nil {
		return 0.5
	}
	if s.Wins+s.Losses > 0 {
		return float64(s.Wins) / float64(s.Wins+s.Losses)
	}
	if s.WinPct > 0 {
		return s.WinPct
	}
	return 0.5
}

// ProjectTeamPoints estimates one team's points independently of the composite score
func ProjectTeamPoints(p sports.Profile, own, opp *models.TeamStats, isHome bool) float64 {
	winPct := winPctOf(own)

	if !own.HasScoringHistory() {
		points := p.LeagueAverage * (0.85 + winPct*0.3)
		if isHome {
			points += p.HomeBonus
		}
		return math.Max(0, points)
	}

	points := own.PointsForPerGame()
	if opp.HasScoringHistory() {
		points = (points + opp.PointsAgainstPerGame()) / 2
	}

	if isHome {
		points += p.HomeBonus
	} else {
		points -= p.HomeBonus / 2
	}

	points += float64(own.SignedStreak()) * 0.5
	points += (winPct - 0.5) * p.LeagueAverage * 0.1

	return math.Max(0, points)
}

// ProjectScore builds the score line. Its confidence comes from the composite differential.
func ProjectScore(p sports.Profile, home, away *models.TeamStats, compositeDifferential float64) models.GameProjection {
	homePts := round1(ProjectTeamPoints(p, home, away, true))
	awayPts := round1(ProjectTeamPoints(p, away, home, false))

	winner := models.SideHome
	if homePts < awayPts {
		winner = models.SideAway
	}

	return models.GameProjection{
		HomePoints:      homePts,
		AwayPoints:      awayPts,
		TotalPoints:     round1(homePts + awayPts),
		ProjectedWinner: winner,
		ProjectedMargin: round1(homePts - awayPts),
		Confidence:      ConfidenceFor(compositeDifferential),
	}
}
