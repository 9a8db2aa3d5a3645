package strategy

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/oddsmath"
)

// betChoice is the market, side and price settled on for one pick
type betChoice struct {
	BetType models.BetType
	Side    models.Side
	Odds    int
	Label   string
}

func soccerPick(reg *sports.Registry, p models.Pick) bool {
	return reg.Lookup(p.Game.SportKey).Soccer
}

func spreadPrice(g models.Game) int {
	if g.Odds != nil && g.Odds.SpreadOdds != nil && *g.Odds.SpreadOdds != 0 {
		return *g.Odds.SpreadOdds
	}
	return oddsmath.DefaultPrice
}

func hasSpread(g models.Game) bool {
	return g.Odds != nil && g.Odds.Spread != nil
}

func moneylineChoice(p models.Pick, side models.Side) betChoice {
	price, ok := p.Game.Moneyline(side)
	if !ok {
		price = oddsmath.DefaultPrice
	}
	label := "Draw"
	if side != models.SideDraw {
		label = p.Game.TeamFor(side).Label() + " ML"
	}
	return betChoice{BetType: models.BetMoneyline, Side: side, Odds: price, Label: label}
}

func spreadChoice(p models.Pick, side models.Side, price int) betChoice {
	line := *p.Game.Odds.Spread
	if side == models.SideAway {
		line = -line
	}
	return betChoice{
		BetType: models.BetSpread,
		Side:    side,
		Odds:    price,
		Label:   fmt.Sprintf("%s %+.1f", p.Game.TeamFor(side).Label(), line),
	}
}

// straightChoice picks the market for a straight bet. Soccer is always the 3-way
// moneyline; otherwise an optimized spread pick wins when the game has a spread line.
func (a *Allocator) straightChoice(p models.Pick) betChoice {
	side := pickSide(p)
	if soccerPick(a.sports, p) {
		return moneylineChoice(p, side)
	}
	if p.Analysis != nil && p.Analysis.SpreadPick != "" && hasSpread(p.Game) {
		return spreadChoice(p, p.Analysis.SpreadPick.Side(), spreadPrice(p.Game))
	}
	return moneylineChoice(p, side)
}

// flyerChoice keeps underdog flyers on the moneyline that made them flyers
func flyerChoice(p models.Pick) betChoice {
	return moneylineChoice(p, pickSide(p))
}

// parlayLegChoice switches heavy moneyline favorites to the spread so the
// parlay multiplier does not collapse toward 1.0. Spread legs price at -110.
func (a *Allocator) parlayLegChoice(p models.Pick) betChoice {
	side := pickSide(p)
	ml := moneylineChoice(p, side)
	if soccerPick(a.sports, p) {
		return ml
	}
	if ml.Odds < parlayJuiceLimit && hasSpread(p.Game) {
		spreadSide := side
		if p.Analysis != nil && p.Analysis.SpreadPick != "" {
			spreadSide = p.Analysis.SpreadPick.Side()
		}
		return spreadChoice(p, spreadSide, oddsmath.DefaultPrice)
	}
	return ml
}
