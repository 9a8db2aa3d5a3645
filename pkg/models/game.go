package models

import "time"

// GameStatus represents the current state of a game
type GameStatus string

const (
	StatusUpcoming  GameStatus = "upcoming"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
	StatusPostponed GameStatus = "postponed"
)

// TeamRef identifies one side of a game
type TeamRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Abbr   string `json:"abbr"`
	Record string `json:"record,omitempty"` // "10-5" summary from the scoreboard
}

// Label returns the short display name for the team
func (t TeamRef) Label() string {
	if t.Abbr != "" {
		return t.Abbr
	}
	return t.Name
}

// Odds is a single betting-line snapshot for a game.
// Nil pointers mean the book did not post that line.
type Odds struct {
	Provider      string   `json:"provider,omitempty"`
	Spread        *float64 `json:"spread,omitempty"`      // Home spread, e.g. -5.5
	SpreadOdds    *int     `json:"spread_odds,omitempty"` // American price on the spread
	Total         *float64 `json:"total,omitempty"`
	HomeMoneyline *int     `json:"home_moneyline,omitempty"`
	AwayMoneyline *int     `json:"away_moneyline,omitempty"`
	DrawMoneyline *int     `json:"draw_moneyline,omitempty"` // Soccer only
}

// Game is the universal game model for any sport
type Game struct {
	GameID    string     `json:"game_id"`
	SportKey  string     `json:"sport_key"` // "basketball_nba", "soccer_epl"
	Status    GameStatus `json:"status"`
	Home      TeamRef    `json:"home"`
	Away      TeamRef    `json:"away"`
	StartTime time.Time  `json:"start_time"`
	Odds      *Odds      `json:"odds,omitempty"`
}

// Matchup returns "AWAY @ HOME"
func (g Game) Matchup() string {
	return g.Away.Label() + " @ " + g.Home.Label()
}
