package projection

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// HeadToHeadWindow is how many recent meetings count toward head-to-head
const HeadToHeadWindow = 5

// TeamInputs is everything known about one side of a game
type TeamInputs struct {
	Stats    *models.TeamStats
	Advanced *models.AdvancedStats
	Schedule *models.ScheduleContext
	Injuries *models.InjuryReport
}

// GameInputs is the raw data for one analysis. HeadToHead is from the home side's perspective.
type GameInputs struct {
	Game       models.Game
	Home       TeamInputs
	Away       TeamInputs
	HeadToHead *models.HeadToHead
}

// SynthesizeStats builds a minimal stats record from a "W-L" or "W-L-T" record string.
// An empty or unparseable record yields a .500 team with no scoring history.
func SynthesizeStats(teamID, record string) *models.TeamStats {
	stats := &models.TeamStats{TeamID: teamID, WinPct: 0.5, Synthesized: true}

	parts := strings.Split(strings.TrimSpace(record), "-")
	if len(parts) < 2 {
		return stats
	}
	wins, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	losses, errL := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errL != nil || wins < 0 || losses < 0 {
		return stats
	}

	stats.Wins = wins
	stats.Losses = losses
	stats.GamesPlayed = wins + losses
	if len(parts) > 2 {
		if ties, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil && ties > 0 {
			stats.GamesPlayed += ties
		}
	}
	if wins+losses > 0 {
		stats.WinPct = float64(wins) / float64(wins+losses)
	}
	return stats
}

// ScheduleContextFrom derives rest from a team's schedule relative to the game start.
// Returns nil when no completed game precedes the start.
func ScheduleContextFrom(schedule []models.ScheduledGame, start time.Time) *models.ScheduleContext {
	var last time.Time
	for _, g := range schedule {
		if !g.Completed || !g.Date.Before(start) {
			continue
		}
		if g.Date.After(last) {
			last = g.Date
		}
	}
	if last.IsZero() {
		return nil
	}

	days := int(start.Sub(last).Hours() / 24)
	return &models.ScheduleContext{
		DaysRest:   days,
		BackToBack: days <= 1,
	}
}

// HeadToHeadFrom aggregates the most recent completed meetings with an opponent
// from the schedule owner's perspective
func HeadToHeadFrom(schedule []models.ScheduledGame, opponentID string, before time.Time) *models.HeadToHead {
	if opponentID == "" {
		return nil
	}

	var meetings []models.ScheduledGame
	for _, g := range schedule {
		if g.Completed && g.OpponentID == opponentID && g.Date.Before(before) {
			meetings = append(meetings, g)
		}
	}
	if len(meetings) == 0 {
		return nil
	}

	sort.SliceStable(meetings, func(i, j int) bool { return meetings[i].Date.After(meetings[j].Date) })
	if len(meetings) > HeadToHeadWindow {
		meetings = meetings[:HeadToHeadWindow]
	}

	h := &models.HeadToHead{Meetings: len(meetings)}
	diff := 0
	for _, m := range meetings {
		switch {
		case m.TeamScore > m.OppScore:
			h.Wins++
		case m.TeamScore < m.OppScore:
			h.Losses++
		default:
			h.Draws++
		}
		diff += m.TeamScore - m.OppScore
	}
	h.AvgPointDiff = float64(diff) / float64(len(meetings))
	return h
}

// Injury status penalties against a 100-point health score
var injuryPenalties = map[string]float64{
	"out":          15,
	"doubtful":     8,
	"questionable": 4,
	"day-to-day":   4,
}

// BuildInjuryReport scores a team's injury list. Health is floored at 0.
func BuildInjuryReport(teamID string, players []models.InjuredPlayer) *models.InjuryReport {
	report := &models.InjuryReport{TeamID: teamID, Players: players, ImpactScore: 100}
	for _, p := range players {
		status := strings.ToLower(strings.TrimSpace(p.Status))
		report.ImpactScore -= injuryPenalties[status]
		if status == "out" {
			report.Out = append(report.Out, p)
		}
	}
	if report.ImpactScore < 0 {
		report.ImpactScore = 0
	}
	return report
}

// significantInjury marks a health score of 70 or below with at least one player out
func significantInjury(r *models.InjuryReport) bool {
	return r != nil && r.ImpactScore <= 70 && len(r.Out) > 0
}
