package models

import "time"

// TeamStats is a per-team record snapshot used by the projection engine
type TeamStats struct {
	TeamID        string  `json:"team_id"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	HomeWins      int     `json:"home_wins"`
	HomeLosses    int     `json:"home_losses"`
	AwayWins      int     `json:"away_wins"`
	AwayLosses    int     `json:"away_losses"`
	WinPct        float64 `json:"win_pct"`
	PointsFor     float64 `json:"points_for"` // Season totals
	PointsAgainst float64 `json:"points_against"`
	GamesPlayed   int     `json:"games_played"`
	Streak        int     `json:"streak"`      // Length of the current streak
	StreakType    string  `json:"streak_type"` // "W" or "L"
	Synthesized   bool    `json:"synthesized"` // Built from a record string, not provider stats
}

// HasScoringHistory reports whether points for/against can be averaged
func (s *TeamStats) HasScoringHistory() bool {
	return s != nil && s.GamesPlayed > 0 && (s.PointsFor > 0 || s.PointsAgainst > 0)
}

// PointsForPerGame returns average points scored
func (s *TeamStats) PointsForPerGame() float64 {
	if s == nil || s.GamesPlayed == 0 {
		return 0
	}
	return s.PointsFor / float64(s.GamesPlayed)
}

// PointsAgainstPerGame returns average points allowed
func (s *TeamStats) PointsAgainstPerGame() float64 {
	if s == nil || s.GamesPlayed == 0 {
		return 0
	}
	return s.PointsAgainst / float64(s.GamesPlayed)
}

// SignedStreak returns the streak length, negative for a losing streak
func (s *TeamStats) SignedStreak() int {
	if s == nil {
		return 0
	}
	if s.StreakType == "L" {
		return -s.Streak
	}
	if s.StreakType == "W" {
		return s.Streak
	}
	return 0
}

// AdvancedStats holds per-team efficiency metrics. Zero means not reported.
type AdvancedStats struct {
	PointsPerGame   float64 `json:"points_per_game"`
	FieldGoalPct    float64 `json:"field_goal_pct"`
	ThreePointPct   float64 `json:"three_point_pct"`
	FreeThrowPct    float64 `json:"free_throw_pct"`
	AssistTurnover  float64 `json:"assist_turnover"`
	ReboundsPerGame float64 `json:"rebounds_per_game"`
	BlocksPerGame   float64 `json:"blocks_per_game"`
	StealsPerGame   float64 `json:"steals_per_game"`
}

// ScheduledGame is one entry of a team's recent schedule
type ScheduledGame struct {
	GameID     string    `json:"game_id"`
	Date       time.Time `json:"date"`
	OpponentID string    `json:"opponent_id"`
	Completed  bool      `json:"completed"`
	TeamScore  int       `json:"team_score"`
	OppScore   int       `json:"opp_score"`
}

// ScheduleContext is the derived rest fact for one team and one game
type ScheduleContext struct {
	DaysRest   int  `json:"days_rest"`
	BackToBack bool `json:"back_to_back"`
}

// HeadToHead aggregates recent meetings from the perspective of one team
type HeadToHead struct {
	Meetings     int     `json:"meetings"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Draws        int     `json:"draws"`
	AvgPointDiff float64 `json:"avg_point_diff"`
}

// WinRate returns wins over meetings
func (h *HeadToHead) WinRate() float64 {
	if h == nil || h.Meetings == 0 {
		return 0
	}
	return float64(h.Wins) / float64(h.Meetings)
}

// Invert returns the same record from the opponent's perspective
func (h *HeadToHead) Invert() *HeadToHead {
	if h == nil {
		return nil
	}
	return &HeadToHead{
		Meetings:     h.Meetings,
		Wins:         h.Losses,
		Losses:       h.Wins,
		Draws:        h.Draws,
		AvgPointDiff: -h.AvgPointDiff,
	}
}

// InjuredPlayer is a player listed on the injury report
type InjuredPlayer struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Status   string `json:"status"` // "Out", "Doubtful", "Questionable", "Day-To-Day"
}

// InjuryReport is a per-team health snapshot
type InjuryReport struct {
	TeamID      string          `json:"team_id"`
	Out         []InjuredPlayer `json:"out"`
	Players     []InjuredPlayer `json:"players"`
	ImpactScore float64         `json:"impact_score"` // 0-100, higher = healthier
}
