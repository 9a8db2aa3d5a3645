package strategy

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// Affordable returns how many minBet-sized wagers a budget covers, at least 1
func Affordable(budget, minBet, count int) int {
	if count <= 0 {
		return 0
	}
	if minBet <= 0 || budget >= minBet*count {
		return count
	}
	n := budget / minBet
	if n < 1 {
		n = 1
	}
	return n
}

// Distribute splits budget across ranked items proportional to weight, each at least
// minBet. The selection is first truncated to what the budget affords; a single
// affordable item receives the whole budget. The returned slice may be shorter than weights.
func Distribute(budget int, weights []float64, minBet int) []int {
	if budget <= 0 || len(weights) == 0 {
		return nil
	}

	n := Affordable(budget, minBet, len(weights))
	weights = weights[:n]
	if n == 1 {
		return []int{budget}
	}

	sum := 0.0
	for _, w := range weights {
		sum += math.Abs(w)
	}

	wagers := make([]int, n)
	allocated := 0
	for i, w := range weights {
		share := float64(budget) / float64(n)
		if sum > 0 {
			share = float64(budget) * math.Abs(w) / sum
		}
		wagers[i] = int(math.Floor(share))
		if wagers[i] < minBet {
			wagers[i] = minBet
		}
		allocated += wagers[i]
	}

	wagers[0] += budget - allocated
	if wagers[0] < minBet {
		return equalSplit(budget, n)
	}
	return wagers
}

func equalSplit(budget, n int) []int {
	each := budget / n
	wagers := make([]int, n)
	for i := range wagers {
		wagers[i] = each
	}
	wagers[0] += budget - each*n
	return wagers
}

// SplitBudget divides the daily budget by the mode ratios, then folds the budget
// of any empty category into the next eligible one. Totals always equal daily.
// A category with items but a zero floored share stays at zero and its items go unbet.
func SplitBudget(daily int, cfg ModeConfig, hasStraight, hasParlays, hasUnderdogs bool) models.CategoryBudgets {
	const (
		straight = iota
		parlays
		underdogs
	)

	b := [3]int{
		int(math.Floor(float64(daily) * cfg.StraightRatio)),
		int(math.Floor(float64(daily) * cfg.ParlayRatio)),
		int(math.Floor(float64(daily) * cfg.UnderdogRatio)),
	}
	has := [3]bool{hasStraight, hasParlays, hasUnderdogs}

	fold := func(from int, targets ...int) {
		if has[from] || b[from] == 0 {
			return
		}
		for _, t := range targets {
			if has[t] {
				b[t] += b[from]
				b[from] = 0
				return
			}
		}
	}

	fold(straight, parlays, underdogs)
	fold(parlays, straight, underdogs)
	fold(underdogs, straight, parlays)

	// Rounding remainder goes to straight bets, or wherever the budget ended up
	remainder := daily - b[straight] - b[parlays] - b[underdogs]
	target := straight
	if !has[straight] {
		for _, t := range []int{parlays, underdogs} {
			if has[t] {
				target = t
				break
			}
		}
	}
	b[target] += remainder

	return models.CategoryBudgets{Straight: b[straight], Parlays: b[parlays], Underdogs: b[underdogs]}
}
