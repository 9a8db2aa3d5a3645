package strategy

import (
	"math"
	"sort"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/oddsmath"
)

const (
	maxUnderdogFlyers  = 3
	valueUnderdogBoost = 1.5
)

// Request is the allocator input
type Request struct {
	Picks    []models.Pick
	Bankroll float64
	RiskMode models.RiskMode
	Date     string
}

// Allocator turns ranked picks into a budget-conserving betting plan.
// It is pure and deterministic: identical requests produce identical strategies.
type Allocator struct {
	sports *sports.Registry
}

// NewAllocator creates an allocator
func NewAllocator(registry *sports.Registry) *Allocator {
	if registry == nil {
		registry = sports.New()
	}
	return &Allocator{sports: registry}
}

// BuildStrategy produces the daily strategy. When no category has eligible picks
// the result is empty (see DailyStrategy.Empty) with a zero DailyBudget rather than an error.
func (a *Allocator) BuildStrategy(req Request) *models.DailyStrategy {
	mode := req.RiskMode
	if !mode.Valid() {
		mode = models.RiskBalanced
	}
	cfg := ConfigFor(mode)
	limits := DeriveLimits(req.Bankroll, mode)

	s := &models.DailyStrategy{
		Date:            req.Date,
		Bankroll:        req.Bankroll,
		DailyBudget:     limits.DailyBudget,
		MinBet:          limits.MinBet,
		MaxStraightBets: limits.MaxStraightBets,
		RiskMode:        mode,
		StraightBets:    []models.StraightBet{},
		Parlays:         []models.Parlay{},
		UnderdogFlyers:  []models.StraightBet{},
	}
	if limits.DailyBudget <= 0 {
		return s
	}

	straights := a.SelectStraights(req.Picks, cfg.MinConfidence, limits.MaxStraightBets)
	flyers := SelectUnderdogFlyers(req.Picks)
	parlays := a.GenerateParlays(req.Picks, mode)

	if len(straights) == 0 && len(flyers) == 0 && len(parlays) == 0 {
		s.DailyBudget = 0
		return s
	}

	s.Budgets = SplitBudget(limits.DailyBudget, cfg, len(straights) > 0, len(parlays) > 0, len(flyers) > 0)

	s.StraightBets = sizeSingles(straights, rankKeys(straights), a.straightChoice, s.Budgets.Straight, limits.MinBet)
	s.UnderdogFlyers = sizeSingles(flyers, absDifferentials(flyers), flyerChoice, s.Budgets.Underdogs, limits.MinBet)
	s.Parlays = sizeParlays(parlays, s.Budgets.Parlays, limits.MinBet)
	s.PotentialReturnRange = returnRange(s)

	return s
}

// SelectStraights ranks eligible picks by |differential|, boosting value underdogs 1.5×,
// and truncates to max. Flyers and picks below the confidence floor are excluded.
func (a *Allocator) SelectStraights(picks []models.Pick, floor models.Confidence, max int) []models.Pick {
	type ranked struct {
		pick models.Pick
		key  float64
	}

	var candidates []ranked
	for _, p := range picks {
		if p.Analysis == nil || IsUnderdogFlyer(p) || !p.Analysis.Confidence.AtLeast(floor) {
			continue
		}
		candidates = append(candidates, ranked{pick: p, key: rankKey(p)})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].key > candidates[j].key })

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]models.Pick, len(candidates))
	for i, c := range candidates {
		out[i] = c.pick
	}
	return out
}

// SelectUnderdogFlyers returns up to three low-confidence longshots ranked by |differential|
func SelectUnderdogFlyers(picks []models.Pick) []models.Pick {
	var flyers []models.Pick
	for _, p := range picks {
		if IsUnderdogFlyer(p) {
			flyers = append(flyers, p)
		}
	}
	sort.SliceStable(flyers, func(i, j int) bool { return absDifferential(flyers[i]) > absDifferential(flyers[j]) })
	if len(flyers) > maxUnderdogFlyers {
		flyers = flyers[:maxUnderdogFlyers]
	}
	return flyers
}

// rankKey is |differential|, boosted 1.5× for value underdogs
func rankKey(p models.Pick) float64 {
	key := absDifferential(p)
	if IsValueUnderdog(p) {
		key *= valueUnderdogBoost
	}
	return key
}

func rankKeys(picks []models.Pick) []float64 {
	keys := make([]float64, len(picks))
	for i, p := range picks {
		keys[i] = rankKey(p)
	}
	return keys
}

func absDifferentials(picks []models.Pick) []float64 {
	out := make([]float64, len(picks))
	for i, p := range picks {
		out[i] = absDifferential(p)
	}
	return out
}

// sizeSingles distributes a budget over ranked picks. weights must follow the
// ranking order so the first pick is also the heaviest.
func sizeSingles(picks []models.Pick, weights []float64, choose func(models.Pick) betChoice, budget, minBet int) []models.StraightBet {
	bets := []models.StraightBet{}
	if len(picks) == 0 || budget <= 0 {
		return bets
	}

	wagers := Distribute(budget, weights, minBet)

	for i, wager := range wagers {
		p := picks[i]
		choice := choose(p)
		dec := oddsmath.MustDecimal(choice.Odds)
		bets = append(bets, models.StraightBet{
			GameID:          p.Game.GameID,
			Matchup:         p.Game.Matchup(),
			Label:           choice.Label,
			BetType:         choice.BetType,
			Side:            choice.Side,
			Odds:            choice.Odds,
			Wager:           wager,
			Confidence:      p.Analysis.Confidence,
			Differential:    p.Analysis.Differential,
			IsValueUnderdog: IsValueUnderdog(p),
			IsUnderdogFlyer: IsUnderdogFlyer(p),
			PotentialProfit: oddsmath.PotentialProfit(wager, dec),
			ExpectedValue:   oddsmath.ExpectedValue(wager, dec, WinProbability(p.Analysis.Confidence)),
		})
	}
	return bets
}

// sizeParlays splits the parlay budget uniformly
func sizeParlays(parlays []models.Parlay, budget, minBet int) []models.Parlay {
	out := []models.Parlay{}
	if len(parlays) == 0 || budget <= 0 {
		return out
	}

	weights := make([]float64, len(parlays))
	for i := range weights {
		weights[i] = 1
	}
	wagers := Distribute(budget, weights, minBet)

	for i, wager := range wagers {
		p := parlays[i]
		p.Wager = wager
		p.PotentialProfit = oddsmath.PotentialProfit(wager, p.DecimalOdds)
		p.ExpectedValue = oddsmath.ExpectedValue(wager, p.DecimalOdds, p.WinProbability)
		out = append(out, p)
	}
	return out
}

// returnRange sums EV and potential profit. Low is a heuristic floor of half the
// expected value, not a statistical bound.
func returnRange(s *models.DailyStrategy) models.ReturnRange {
	expected, high := 0.0, 0.0
	for _, b := range s.StraightBets {
		expected += b.ExpectedValue
		high += b.PotentialProfit
	}
	for _, p := range s.Parlays {
		expected += p.ExpectedValue
		high += p.PotentialProfit
	}
	for _, b := range s.UnderdogFlyers {
		expected += b.ExpectedValue
		high += b.PotentialProfit
	}

	return models.ReturnRange{
		Low:      oddsmath.RoundCents(math.Max(0, expected*0.5)),
		Expected: oddsmath.RoundCents(expected),
		High:     oddsmath.RoundCents(high),
	}
}
