package oddsmath

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CombineDecimal multiplies leg decimal odds into a parlay price
func CombineDecimal(legs []int) (float64, error) {
	if len(legs) == 0 {
		return 0, fmt.Errorf("parlay needs at least one leg")
	}

	combined := decimal.NewFromInt(1)
	for _, price := range legs {
		d, err := AmericanToDecimal(price)
		if err != nil {
			return 0, fmt.Errorf("leg price %d: %w", price, err)
		}
		combined = combined.Mul(decimal.NewFromFloat(d))
	}

	f, _ := combined.Round(4).Float64()
	return f, nil
}

// PotentialProfit returns the net win on a stake at decimal odds, rounded to cents
func PotentialProfit(stake int, decimalOdds float64) float64 {
	profit := decimal.NewFromInt(int64(stake)).
		Mul(decimal.NewFromFloat(decimalOdds).Sub(decimal.NewFromInt(1)))
	f, _ := profit.Round(2).Float64()
	return f
}

// ExpectedValue returns p × profit − (1 − p) × stake, rounded to cents
func ExpectedValue(stake int, decimalOdds, winProbability float64) float64 {
	p := decimal.NewFromFloat(winProbability)
	s := decimal.NewFromInt(int64(stake))
	profit := s.Mul(decimal.NewFromFloat(decimalOdds).Sub(decimal.NewFromInt(1)))

	ev := p.Mul(profit).Sub(decimal.NewFromInt(1).Sub(p).Mul(s))
	f, _ := ev.Round(2).Float64()
	return f
}

// RoundCents rounds a currency amount to cents
func RoundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
