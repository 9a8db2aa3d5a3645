package projection

import (
	"fmt"
	"math"
	"strings"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// MaxReasons caps the reasoning list
const MaxReasons = 5

type reasonList struct {
	items []string
	seen  map[string]bool
}

func (r *reasonList) add(s string) {
	if s == "" || len(r.items) >= MaxReasons {
		return
	}
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	if r.seen[s] {
		return
	}
	r.seen[s] = true
	r.items = append(r.items, s)
}

func record(s *models.TeamStats) string {
	if s == nil {
		return "0-0"
	}
	return fmt.Sprintf("%d-%d", s.Wins, s.Losses)
}

func playerNames(players []models.InjuredPlayer, limit int) string {
	names := make([]string, 0, limit)
	for i, p := range players {
		if i >= limit {
			break
		}
		if p.Position != "" {
			names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Position))
		} else {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}

// BuildReasoning produces up to five justifications for the favored side, in priority order
func BuildReasoning(in GameInputs, a *models.PickAnalysis) []string {
	if a.PickType == models.PickDraw {
		return drawReasoning(in, a)
	}

	favSide := a.PickType.Side()
	fav, los := in.Home, in.Away
	favTeam, losTeam := in.Game.Home.Label(), in.Game.Away.Label()
	h2h := in.HeadToHead
	if favSide == models.SideAway {
		fav, los = in.Away, in.Home
		favTeam, losTeam = losTeam, favTeam
		h2h = h2h.Invert()
	}

	var r reasonList

	// 1. Significant injury to the losing side
	if significantInjury(los.Injuries) {
		r.add(fmt.Sprintf("%s missing %s (%d out, health %.0f/100)",
			losTeam, playerNames(los.Injuries.Out, 2), len(los.Injuries.Out), los.Injuries.ImpactScore))
	}

	// 2. Rest disparity
	if fav.Schedule != nil && los.Schedule != nil {
		switch {
		case los.Schedule.BackToBack && !fav.Schedule.BackToBack:
			r.add(fmt.Sprintf("%s on a back-to-back while %s has %d days rest", losTeam, favTeam, fav.Schedule.DaysRest))
		case fav.Schedule.DaysRest-los.Schedule.DaysRest >= 2:
			r.add(fmt.Sprintf("%s rested (%d days) vs %s (%d days)",
				favTeam, fav.Schedule.DaysRest, losTeam, los.Schedule.DaysRest))
		}
	}

	// 3. Head-to-head dominance
	if h2h != nil && h2h.Meetings >= 3 && h2h.WinRate() >= 0.7 {
		r.add(fmt.Sprintf("%s won %d of the last %d meetings with %s", favTeam, h2h.Wins, h2h.Meetings, losTeam))
	}

	// 4. Shooting / efficiency edge
	if fav.Advanced != nil && los.Advanced != nil {
		switch {
		case fav.Advanced.FieldGoalPct > 0 && los.Advanced.FieldGoalPct > 0 &&
			fav.Advanced.FieldGoalPct-los.Advanced.FieldGoalPct >= 3:
			r.add(fmt.Sprintf("%s shooting %.1f%% from the field vs %.1f%% for %s",
				favTeam, fav.Advanced.FieldGoalPct, los.Advanced.FieldGoalPct, losTeam))
		case fav.Advanced.ThreePointPct > 0 && los.Advanced.ThreePointPct > 0 &&
			fav.Advanced.ThreePointPct-los.Advanced.ThreePointPct >= 3:
			r.add(fmt.Sprintf("%s hitting %.1f%% from three vs %.1f%% for %s",
				favTeam, fav.Advanced.ThreePointPct, los.Advanced.ThreePointPct, losTeam))
		}
	}

	// 5. Overall record
	if fav.Stats != nil && los.Stats != nil && fav.Stats.Wins+fav.Stats.Losses > 0 &&
		winPctOf(fav.Stats) > winPctOf(los.Stats) {
		r.add(fmt.Sprintf("%s (%s) has the better record than %s (%s)",
			favTeam, record(fav.Stats), losTeam, record(los.Stats)))
	}

	// 6. Home/away split record
	if fav.Stats != nil {
		if favSide == models.SideHome && fav.Stats.HomeWins+fav.Stats.HomeLosses >= 5 {
			r.add(fmt.Sprintf("%s is %d-%d at home", favTeam, fav.Stats.HomeWins, fav.Stats.HomeLosses))
		}
		if favSide == models.SideAway && fav.Stats.AwayWins+fav.Stats.AwayLosses >= 5 {
			r.add(fmt.Sprintf("%s is %d-%d on the road", favTeam, fav.Stats.AwayWins, fav.Stats.AwayLosses))
		}
	}

	// 7. Active streaks
	if fav.Stats != nil && fav.Stats.StreakType == "W" && fav.Stats.Streak >= 3 {
		r.add(fmt.Sprintf("%s has won %d straight", favTeam, fav.Stats.Streak))
	}
	if los.Stats != nil && los.Stats.StreakType == "L" && los.Stats.Streak >= 3 {
		r.add(fmt.Sprintf("%s has lost %d straight", losTeam, los.Stats.Streak))
	}

	if len(r.items) == 0 {
		favScore, losScore := a.HomeScore, a.AwayScore
		if favSide == models.SideAway {
			favScore, losScore = losScore, favScore
		}
		r.add(fmt.Sprintf("%s holds a %.1f-point composite edge (%.1f vs %.1f)",
			favTeam, a.Differential, favScore, losScore))
	}

	return r.items
}

func drawReasoning(in GameInputs, a *models.PickAnalysis) []string {
	home, away := in.Game.Home.Label(), in.Game.Away.Label()
	var r reasonList

	if math.Abs(winPctOf(in.Home.Stats)-winPctOf(in.Away.Stats)) < 0.1 {
		r.add(fmt.Sprintf("Evenly matched sides: %s (%s) vs %s (%s)",
			home, record(in.Home.Stats), away, record(in.Away.Stats)))
	}

	if h := in.HeadToHead; h != nil && h.Draws > 0 {
		r.add(fmt.Sprintf("%d of the last %d meetings ended level", h.Draws, h.Meetings))
	}

	if a.Projection.TotalPoints < 2.5 {
		r.add(fmt.Sprintf("Projected total of %.1f goals points to a tight, low-scoring match", a.Projection.TotalPoints))
	}

	r.add(fmt.Sprintf("Projected margin of %.1f goals is too close to separate the sides",
		math.Abs(a.Projection.ProjectedMargin)))

	return r.items
}
