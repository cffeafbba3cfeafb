package oddsmath

import "fmt"

// ImpliedProbability converts American odds to the raw bookmaker-implied probability
// +150 → 100/(150+100) = 0.40
// -150 → 150/(150+100) = 0.60
//
// The result still contains the book's vig; use RemoveVig to normalize a full market.
func ImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return 100.0 / (float64(american) + 100.0), nil
	}

	return float64(-american) / (float64(-american) + 100.0), nil
}

// Winnings returns the profit on a winning $100 stake at the given American odds
// +150 → $150 profit
// -150 → $66.67 profit
func Winnings(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return float64(american), nil
	}

	return 10000.0 / float64(-american), nil
}
