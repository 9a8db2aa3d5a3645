package models

// Confidence is the tier derived from the composite score differential
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank orders tiers so that high > medium > low
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether c is the same tier as floor or better
func (c Confidence) AtLeast(floor Confidence) bool {
	return c.Rank() >= floor.Rank()
}

// PickType is the side or market an analysis settles on
type PickType string

const (
	PickHome      PickType = "home"
	PickAway      PickType = "away"
	PickDraw      PickType = "draw"
	PickHomeCover PickType = "home_cover"
	PickAwayCover PickType = "away_cover"
	PickOver      PickType = "over"
	PickUnder     PickType = "under"
)

// Side is the team side a pick backs
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
	SideDraw Side = "draw"
)

// Side maps a pick type onto the team it backs
func (p PickType) Side() Side {
	switch p {
	case PickHome, PickHomeCover:
		return SideHome
	case PickAway, PickAwayCover:
		return SideAway
	case PickDraw:
		return SideDraw
	default:
		return ""
	}
}

// GameProjection is the numeric score-line output of the engine
type GameProjection struct {
	HomePoints      float64    `json:"home_points"`
	AwayPoints      float64    `json:"away_points"`
	TotalPoints     float64    `json:"total_points"`
	ProjectedWinner Side       `json:"projected_winner"` // "home" iff HomePoints >= AwayPoints
	ProjectedMargin float64    `json:"projected_margin"` // home - away
	Confidence      Confidence `json:"confidence"`
}

// FactorScore is one normalized 0-100 factor; Defaulted marks the neutral fallback path
type FactorScore struct {
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Value     float64 `json:"value"`
	Defaulted bool    `json:"defaulted"`
}

// PickAnalysis wraps a projection with composite scores and reasoning.
// Created once per game per analysis pass and never mutated afterwards.
type PickAnalysis struct {
	GameID            string         `json:"game_id"`
	SportKey          string         `json:"sport_key"`
	HomeScore         float64        `json:"home_score"` // Composite 0-100
	AwayScore         float64        `json:"away_score"`
	Differential      float64        `json:"differential"`
	CompositeFavorite Side           `json:"composite_favorite"`
	Confidence        Confidence     `json:"confidence"`
	PickType          PickType       `json:"pick_type"`
	Projection        GameProjection `json:"projection"`
	Reasoning         []string       `json:"reasoning"`
	HomeFactors       []FactorScore  `json:"home_factors"`
	AwayFactors       []FactorScore  `json:"away_factors"`

	// Independently optimized spread and total picks
	SpreadPick       PickType   `json:"spread_pick,omitempty"`
	SpreadConfidence Confidence `json:"spread_confidence,omitempty"`
	TotalPick        PickType   `json:"total_pick,omitempty"`
}

// Pick is a game plus a chosen bet label and optional analysis.
// Picks without an analysis are never selected by the allocator.
type Pick struct {
	Game     Game          `json:"game"`
	Label    string        `json:"label"`
	Side     Side          `json:"side"`
	Analysis *PickAnalysis `json:"analysis,omitempty"`
}

// Moneyline returns the American price for the picked side, if posted
func (p Pick) Moneyline() (int, bool) {
	return p.Game.Moneyline(p.Side)
}

// Moneyline returns the American price for a side, if posted
func (g Game) Moneyline(side Side) (int, bool) {
	if g.Odds == nil {
		return 0, false
	}
	var price *int
	switch side {
	case SideHome:
		price = g.Odds.HomeMoneyline
	case SideAway:
		price = g.Odds.AwayMoneyline
	case SideDraw:
		price = g.Odds.DrawMoneyline
	}
	if price == nil || *price == 0 {
		return 0, false
	}
	return *price, true
}

// TeamFor returns the team on a side
func (g Game) TeamFor(side Side) TeamRef {
	if side == SideAway {
		return g.Away
	}
	return g.Home
}
