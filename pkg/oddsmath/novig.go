package oddsmath

import "fmt"

// RemoveVig converts a full market's American prices to vig-free probabilities
// using the multiplicative method
//
// Formula:
// 1. Convert each price to its raw implied probability
// 2. Sum the raw probabilities (typically > 1.0, the excess is the vig)
// 3. Normalize: fair_i = raw_i / total
//
// Example:
// -110 / -110 → raw 52.38% / 52.38% → fair 50% / 50%
//
// Works for any number of outcomes (two-way moneylines, three-way markets).
// If the raw probabilities sum to zero the market is degenerate and a zero
// slice is returned rather than dividing by zero. A price that is already
// vig-free normalizes to itself.
func RemoveVig(prices []int) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("need at least 2 outcomes, got %d", len(prices))
	}

	raw := make([]float64, len(prices))
	total := 0.0
	for i, price := range prices {
		prob, err := ImpliedProbability(price)
		if err != nil {
			return nil, fmt.Errorf("outcome %d: %w", i, err)
		}
		raw[i] = prob
		total += prob
	}

	fair := make([]float64, len(prices))
	if total == 0 {
		return fair, nil
	}

	for i, prob := range raw {
		fair[i] = prob / total
	}

	return fair, nil
}

// RemoveVigPair is the two-outcome convenience form of RemoveVig
func RemoveVigPair(price1, price2 int) (fair1, fair2 float64, err error) {
	fair, err := RemoveVig([]int{price1, price2})
	if err != nil {
		return 0, 0, err
	}
	return fair[0], fair[1], nil
}
