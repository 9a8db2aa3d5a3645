package models

import "time"

// RiskMode selects the bankroll exposure profile
type RiskMode string

const (
	RiskConservative RiskMode = "conservative"
	RiskBalanced     RiskMode = "balanced"
	RiskAggressive   RiskMode = "aggressive"
)

// Valid reports whether the mode is one of the three enumerated values
func (m RiskMode) Valid() bool {
	switch m {
	case RiskConservative, RiskBalanced, RiskAggressive:
		return true
	}
	return false
}

// BetType is the market a wager is placed on
type BetType string

const (
	BetMoneyline BetType = "moneyline"
	BetSpread    BetType = "spread"
)

// StraightBet is a single-game wager
type StraightBet struct {
	GameID          string     `json:"game_id"`
	Matchup         string     `json:"matchup"`
	Label           string     `json:"label"`
	BetType         BetType    `json:"bet_type"`
	Side            Side       `json:"side"`
	Odds            int        `json:"odds"`
	Wager           int        `json:"wager"`
	Confidence      Confidence `json:"confidence"`
	Differential    float64    `json:"differential"`
	IsValueUnderdog bool       `json:"is_value_underdog"`
	IsUnderdogFlyer bool       `json:"is_underdog_flyer"`
	PotentialProfit float64    `json:"potential_profit"`
	ExpectedValue   float64    `json:"expected_value"`
}

// ParlayLeg is one leg of a parlay
type ParlayLeg struct {
	GameID     string     `json:"game_id"`
	Matchup    string     `json:"matchup"`
	Label      string     `json:"label"`
	BetType    BetType    `json:"bet_type"`
	Side       Side       `json:"side"`
	Odds       int        `json:"odds"`
	Confidence Confidence `json:"confidence"`
}

// Parlay is a multi-leg combined wager
type Parlay struct {
	Name            string      `json:"name"`
	Legs            []ParlayLeg `json:"legs"`
	DecimalOdds     float64     `json:"decimal_odds"`
	AmericanOdds    int         `json:"american_odds"`
	WinProbability  float64     `json:"win_probability"`
	Wager           int         `json:"wager"`
	PotentialProfit float64     `json:"potential_profit"`
	ExpectedValue   float64     `json:"expected_value"`
}

// ReturnRange is the low/expected/high potential return of a strategy
type ReturnRange struct {
	Low      float64 `json:"low"`
	Expected float64 `json:"expected"`
	High     float64 `json:"high"`
}

// CategoryBudgets records how the daily budget was split after redistribution
type CategoryBudgets struct {
	Straight  int `json:"straight"`
	Parlays   int `json:"parlays"`
	Underdogs int `json:"underdogs"`
}

// DailyStrategy is the allocator output.
// The wagers across all three collections sum to DailyBudget; an empty strategy has a zero budget.
type DailyStrategy struct {
	ID                   string          `json:"id"`
	Date                 string          `json:"date"`
	Bankroll             float64         `json:"bankroll"`
	DailyBudget          int             `json:"daily_budget"`
	MinBet               int             `json:"min_bet"`
	MaxStraightBets      int             `json:"max_straight_bets"`
	RiskMode             RiskMode        `json:"risk_mode"`
	Budgets              CategoryBudgets `json:"budgets"`
	StraightBets         []StraightBet   `json:"straight_bets"`
	Parlays              []Parlay        `json:"parlays"`
	UnderdogFlyers       []StraightBet   `json:"underdog_flyers"`
	PotentialReturnRange ReturnRange     `json:"potential_return_range"`
	CreatedAt            time.Time       `json:"created_at"`
}

// Empty reports whether no bets could be built
func (s *DailyStrategy) Empty() bool {
	return len(s.StraightBets) == 0 && len(s.Parlays) == 0 && len(s.UnderdogFlyers) == 0
}

// TotalWagered sums every wager in the strategy
func (s *DailyStrategy) TotalWagered() int {
	total := 0
	for _, b := range s.StraightBets {
		total += b.Wager
	}
	for _, p := range s.Parlays {
		total += p.Wager
	}
	for _, b := range s.UnderdogFlyers {
		total += b.Wager
	}
	return total
}
