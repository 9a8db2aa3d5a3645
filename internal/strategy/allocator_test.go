package strategy_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/strategy"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

func newAllocator() *strategy.Allocator {
	return strategy.NewAllocator(sports.New())
}

func gameIDs(bets []models.StraightBet) []string {
	ids := make([]string, len(bets))
	for i, b := range bets {
		ids[i] = b.GameID
	}
	return ids
}

func TestBuildStrategy_BalancedSlate(t *testing.T) {
	s := newAllocator().BuildStrategy(strategy.Request{
		Picks:    slate(),
		Bankroll: 100,
		RiskMode: models.RiskBalanced,
		Date:     "2025-01-15",
	})

	if s.DailyBudget != 25 || s.MinBet != 2 || s.MaxStraightBets != 8 {
		t.Fatalf("limits = %d/%d/%d, want 25/2/8", s.DailyBudget, s.MinBet, s.MaxStraightBets)
	}

	wantStraight := []string{"g1", "g3", "g2", "g4", "g5"}
	if got := gameIDs(s.StraightBets); !reflect.DeepEqual(got, wantStraight) {
		t.Errorf("straight bets = %v, want %v", got, wantStraight)
	}

	// Weighted by the boosted rank key, so g3 is sized as the second best pick
	wantWagers := []int{5, 4, 4, 2, 2}
	for i, b := range s.StraightBets {
		if b.Wager != wantWagers[i] {
			t.Errorf("straight %s wager = %d, want %d", b.GameID, b.Wager, wantWagers[i])
		}
		if i > 0 && b.Wager > s.StraightBets[i-1].Wager {
			t.Errorf("straight %s wager %d exceeds higher ranked %s", b.GameID, b.Wager, s.StraightBets[i-1].GameID)
		}
	}

	if !s.StraightBets[1].IsValueUnderdog {
		t.Error("g3 should be flagged as a value underdog")
	}

	if got := gameIDs(s.UnderdogFlyers); !reflect.DeepEqual(got, []string{"g6"}) {
		t.Errorf("underdog flyers = %v, want [g6] (budget only affords one)", got)
	}

	if len(s.Parlays) != 1 || s.Parlays[0].Name != strategy.ParlayLock {
		t.Fatalf("parlays = %+v, want a single Lock of the Day", s.Parlays)
	}
	if s.Parlays[0].Wager != 6 {
		t.Errorf("parlay wager = %d, want 6", s.Parlays[0].Wager)
	}

	if s.Budgets != (models.CategoryBudgets{Straight: 17, Parlays: 6, Underdogs: 2}) {
		t.Errorf("budgets = %+v", s.Budgets)
	}

	if s.TotalWagered() != s.DailyBudget {
		t.Errorf("total wagered %d != daily budget %d", s.TotalWagered(), s.DailyBudget)
	}
}

func TestBuildStrategy_FlyerExcludedFromStraights(t *testing.T) {
	flyer := makePick("fly", pickOpts{side: models.SideAway, confidence: models.ConfidenceLow, differential: 4, homeML: -300, awayML: 250})
	fav := makePick("fav", pickOpts{confidence: models.ConfidenceLow, differential: 3, homeML: -150, awayML: 130})

	// Aggressive admits low confidence straights, but flyers stay in their own category
	s := newAllocator().BuildStrategy(strategy.Request{
		Picks:    []models.Pick{flyer, fav},
		Bankroll: 100,
		RiskMode: models.RiskAggressive,
	})

	for _, b := range s.StraightBets {
		if b.GameID == "fly" {
			t.Fatal("underdog flyer selected as a straight bet")
		}
	}
	if len(s.UnderdogFlyers) != 1 || !s.UnderdogFlyers[0].IsUnderdogFlyer {
		t.Errorf("underdog flyers = %+v, want the +250 pick", s.UnderdogFlyers)
	}
}

func TestBuildStrategy_FlyerStaysOnMoneyline(t *testing.T) {
	flyer := makePick("f1", pickOpts{
		side: models.SideAway, confidence: models.ConfidenceLow, differential: 3,
		homeML: -300, awayML: 250, spread: floatPtr(-7.5), spreadPick: models.PickHomeCover,
	})

	s := newAllocator().BuildStrategy(strategy.Request{
		Picks:    []models.Pick{flyer},
		Bankroll: 100,
		RiskMode: models.RiskBalanced,
	})

	if len(s.UnderdogFlyers) != 1 {
		t.Fatalf("underdog flyers = %+v, want one", s.UnderdogFlyers)
	}
	bet := s.UnderdogFlyers[0]
	if bet.BetType != models.BetMoneyline || bet.Side != models.SideAway || bet.Odds != 250 || bet.Label != "Af1 ML" {
		t.Errorf("flyer bet = %q %s %s %d, want Af1 ML moneyline at +250", bet.Label, bet.BetType, bet.Side, bet.Odds)
	}
	if bet.Wager != 25 || bet.PotentialProfit != 62.5 {
		t.Errorf("wager/profit = %d/%.2f, want 25/62.50", bet.Wager, bet.PotentialProfit)
	}
}

func TestBuildStrategy_ZeroUnderdogBudgetDropsFlyers(t *testing.T) {
	fav := makePick("fav", pickOpts{confidence: models.ConfidenceHigh, differential: 20, homeML: -150, awayML: 130})
	flyer := makePick("fly", pickOpts{side: models.SideAway, confidence: models.ConfidenceLow, differential: 4, homeML: -300, awayML: 250})

	// Conservative 100: floor(15 × 0.05) leaves nothing for underdogs
	s := newAllocator().BuildStrategy(strategy.Request{
		Picks:    []models.Pick{fav, flyer},
		Bankroll: 100,
		RiskMode: models.RiskConservative,
	})

	if s.Budgets != (models.CategoryBudgets{Straight: 15}) {
		t.Errorf("budgets = %+v, want everything on straights", s.Budgets)
	}
	if len(s.UnderdogFlyers) != 0 {
		t.Errorf("underdog flyers = %+v, want none", s.UnderdogFlyers)
	}
	if s.TotalWagered() != s.DailyBudget {
		t.Errorf("total wagered %d != daily budget %d", s.TotalWagered(), s.DailyBudget)
	}
}

func TestSelectStraights_ValueUnderdogBoost(t *testing.T) {
	dog := makePick("dog", pickOpts{side: models.SideAway, confidence: models.ConfidenceHigh, differential: 16, homeML: -220, awayML: 180})
	fav := makePick("fav", pickOpts{confidence: models.ConfidenceHigh, differential: 20, homeML: -200, awayML: 170})

	got := newAllocator().SelectStraights([]models.Pick{fav, dog}, models.ConfidenceMedium, 8)
	if len(got) != 2 || got[0].Game.GameID != "dog" {
		t.Errorf("expected boosted value underdog first (16×1.5 > 20), got %v", got)
	}
	if strategy.IsUnderdogFlyer(dog) {
		t.Error("high confidence +180 must not be a flyer")
	}
}

func TestSelectStraights_ConfidenceFloorAndCap(t *testing.T) {
	picks := append(manyHighPicks(10), makePick("low", pickOpts{confidence: models.ConfidenceLow, differential: 99, homeML: -110}))

	got := newAllocator().SelectStraights(picks, models.ConfidenceMedium, 8)
	if len(got) != 8 {
		t.Fatalf("got %d straights, want 8", len(got))
	}
	for _, p := range got {
		if p.Game.GameID == "low" {
			t.Error("low confidence pick passed the medium floor")
		}
	}
}

func TestSelectUnderdogFlyers_CapsAtThree(t *testing.T) {
	var picks []models.Pick
	for i, diff := range []float64{1, 4, 2, 3, 0.5} {
		picks = append(picks, makePick(string(rune('a'+i)), pickOpts{
			side: models.SideAway, confidence: models.ConfidenceLow, differential: diff, awayML: 300,
		}))
	}

	got := strategy.SelectUnderdogFlyers(picks)
	want := []string{"b", "d", "c"}
	if len(got) != 3 {
		t.Fatalf("got %d flyers, want 3", len(got))
	}
	for i, p := range got {
		if p.Game.GameID != want[i] {
			t.Errorf("flyer %d = %s, want %s", i, p.Game.GameID, want[i])
		}
	}
}

func TestBuildStrategy_ExpectedValue(t *testing.T) {
	p := makePick("even", pickOpts{confidence: models.ConfidenceHigh, differential: 20, homeML: 100, awayML: -120})

	s := newAllocator().BuildStrategy(strategy.Request{
		Picks:    []models.Pick{p},
		Bankroll: 100,
		RiskMode: models.RiskConservative,
	})

	if len(s.StraightBets) != 1 {
		t.Fatalf("straight bets = %d, want 1", len(s.StraightBets))
	}
	bet := s.StraightBets[0]
	if bet.Wager != 15 {
		t.Errorf("wager = %d, want the whole 15 budget", bet.Wager)
	}
	if bet.PotentialProfit != 15 {
		t.Errorf("potential profit = %f, want 15", bet.PotentialProfit)
	}
	if bet.ExpectedValue != 3 {
		t.Errorf("expected value = %f, want 3 (0.6×15 − 0.4×15)", bet.ExpectedValue)
	}

	want := models.ReturnRange{Low: 1.5, Expected: 3, High: 15}
	if s.PotentialReturnRange != want {
		t.Errorf("return range = %+v, want %+v", s.PotentialReturnRange, want)
	}
}

func TestBuildStrategy_SpreadAndSoccerLabels(t *testing.T) {
	spread := makePick("sp", pickOpts{
		confidence: models.ConfidenceHigh, differential: 18, homeML: -200, awayML: 170,
		spread: floatPtr(-4.5), spreadPick: models.PickAwayCover,
	})
	draw := makePick("dr", pickOpts{
		sport: "soccer_epl", side: models.SideDraw, confidence: models.ConfidenceMedium, differential: 6,
		homeML: 150, awayML: 190, drawML: 240, spread: floatPtr(-0.5), spreadPick: models.PickHomeCover,
	})

	s := newAllocator().BuildStrategy(strategy.Request{
		Picks:    []models.Pick{spread, draw},
		Bankroll: 200,
		RiskMode: models.RiskBalanced,
	})

	bets := map[string]models.StraightBet{}
	for _, b := range s.StraightBets {
		bets[b.GameID] = b
	}

	sp := bets["sp"]
	if sp.BetType != models.BetSpread || sp.Label != "Asp +4.5" || sp.Odds != -110 || sp.Side != models.SideAway {
		t.Errorf("spread bet = %+v, want Asp +4.5 at -110", sp)
	}

	dr := bets["dr"]
	if dr.BetType != models.BetMoneyline || dr.Label != "Draw" || dr.Odds != 240 {
		t.Errorf("soccer bet = %+v, want Draw moneyline at +240", dr)
	}
}

func TestGenerateParlays_SingleGame(t *testing.T) {
	parlays := newAllocator().GenerateParlays(manyHighPicks(1), models.RiskAggressive)
	if len(parlays) != 0 {
		t.Errorf("got %d parlays from one game, want 0", len(parlays))
	}
}

func TestGenerateParlays_NoGameReuse(t *testing.T) {
	parlays := newAllocator().GenerateParlays(manyHighPicks(9), models.RiskAggressive)

	wantLegs := map[string]int{strategy.ParlayLock: 3, strategy.ParlayBestValue: 4, strategy.ParlayLongshot: 2}
	if len(parlays) != 3 {
		t.Fatalf("got %d parlays, want 3", len(parlays))
	}

	seen := map[string]string{}
	for _, p := range parlays {
		if len(p.Legs) != wantLegs[p.Name] {
			t.Errorf("%s has %d legs, want %d", p.Name, len(p.Legs), wantLegs[p.Name])
		}
		for _, leg := range p.Legs {
			if other, ok := seen[leg.GameID]; ok {
				t.Errorf("game %s used in both %s and %s", leg.GameID, other, p.Name)
			}
			seen[leg.GameID] = p.Name
		}
	}
}

func TestGenerateParlays_ConservativeOnlyLock(t *testing.T) {
	parlays := newAllocator().GenerateParlays(manyHighPicks(9), models.RiskConservative)
	if len(parlays) != 1 || parlays[0].Name != strategy.ParlayLock {
		t.Errorf("conservative parlays = %+v, want only the lock", parlays)
	}
}

func TestGenerateParlays_HeavyFavoriteUsesSpread(t *testing.T) {
	picks := []models.Pick{
		makePick("a", pickOpts{confidence: models.ConfidenceHigh, differential: 25, homeML: -250, spread: floatPtr(-7.5)}),
		makePick("b", pickOpts{confidence: models.ConfidenceHigh, differential: 20, homeML: -300}),
	}

	parlays := newAllocator().GenerateParlays(picks, models.RiskBalanced)
	if len(parlays) != 1 {
		t.Fatalf("got %d parlays, want 1", len(parlays))
	}

	legs := parlays[0].Legs
	if legs[0].BetType != models.BetSpread || legs[0].Odds != -110 || legs[0].Label != "Ha -7.5" {
		t.Errorf("leg a = %+v, want spread Ha -7.5 at -110", legs[0])
	}
	if legs[1].BetType != models.BetMoneyline || legs[1].Odds != -300 {
		t.Errorf("leg b = %+v, want moneyline without a posted spread", legs[1])
	}
	if math.Abs(parlays[0].WinProbability-0.36) > 1e-9 {
		t.Errorf("win probability = %f, want 0.36", parlays[0].WinProbability)
	}
}

func TestBuildStrategy_Empty(t *testing.T) {
	tests := []struct {
		name     string
		picks    []models.Pick
		bankroll float64
	}{
		{"Zero bankroll", slate(), 0},
		{"Negative bankroll", slate(), -20},
		{"No picks", nil, 100},
		{"Picks without analysis", func() []models.Pick {
			p := slate()
			for i := range p {
				p[i].Analysis = nil
			}
			return p
		}(), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newAllocator().BuildStrategy(strategy.Request{Picks: tt.picks, Bankroll: tt.bankroll, RiskMode: models.RiskBalanced})
			if !s.Empty() {
				t.Errorf("expected empty strategy, got %+v", s)
			}
			if s.DailyBudget != 0 || s.TotalWagered() != s.DailyBudget {
				t.Errorf("daily budget = %d, wagered %d, want 0", s.DailyBudget, s.TotalWagered())
			}
			if s.StraightBets == nil || s.Parlays == nil || s.UnderdogFlyers == nil {
				t.Error("empty strategy collections should be non-nil")
			}
		})
	}
}

func TestBuildStrategy_Conservation(t *testing.T) {
	onlyFlyers := []models.Pick{
		makePick("f1", pickOpts{side: models.SideAway, confidence: models.ConfidenceLow, differential: 2, awayML: 260}),
		makePick("f2", pickOpts{side: models.SideAway, confidence: models.ConfidenceLow, differential: 1, awayML: 310}),
	}
	slates := map[string][]models.Pick{
		"mixed":    slate(),
		"single":   manyHighPicks(1),
		"deep":     manyHighPicks(12),
		"flyers":   onlyFlyers,
		"combined": append(slate(), manyHighPicks(6)...),
	}
	modes := []models.RiskMode{models.RiskConservative, models.RiskBalanced, models.RiskAggressive}
	bankrolls := []float64{5, 10, 37, 100, 250, 1000, 12345}

	a := newAllocator()
	for name, picks := range slates {
		for _, mode := range modes {
			for _, bankroll := range bankrolls {
				s := a.BuildStrategy(strategy.Request{Picks: picks, Bankroll: bankroll, RiskMode: mode})
				if s.TotalWagered() != s.DailyBudget {
					t.Errorf("%s/%s/%v: wagered %d, budget %d", name, mode, bankroll, s.TotalWagered(), s.DailyBudget)
				}
				assertMinBet(t, s.MinBet, straightWagers(s.StraightBets))
				assertMinBet(t, s.MinBet, straightWagers(s.UnderdogFlyers))
				assertMinBet(t, s.MinBet, parlayWagers(s.Parlays))
			}
		}
	}
}

func straightWagers(bets []models.StraightBet) []int {
	w := make([]int, len(bets))
	for i, b := range bets {
		w[i] = b.Wager
	}
	return w
}

func parlayWagers(parlays []models.Parlay) []int {
	w := make([]int, len(parlays))
	for i, p := range parlays {
		w[i] = p.Wager
	}
	return w
}

func assertMinBet(t *testing.T, minBet int, wagers []int) {
	t.Helper()
	if len(wagers) <= 1 {
		return
	}
	for _, w := range wagers {
		if w < minBet {
			t.Errorf("wager %d below minBet %d in %v", w, minBet, wagers)
		}
	}
}

func TestBuildStrategy_Idempotent(t *testing.T) {
	a := newAllocator()
	req := strategy.Request{Picks: append(slate(), manyHighPicks(5)...), Bankroll: 500, RiskMode: models.RiskAggressive, Date: "2025-01-15"}

	first := a.BuildStrategy(req)
	second := a.BuildStrategy(req)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical requests produced different strategies")
	}
}
