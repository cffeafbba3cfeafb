package oddsmath

import "fmt"

// ExpectedValue computes the signed expected value of a wager as a fraction of
// the stake, given the true win probability and the offered American price
//
// For a notional $100 stake:
// EV$ = trueProb × winnings - (1 - trueProb) × 100
// EV  = EV$ / 100
//
// Examples:
// trueProb=0.50, price=+100 → 0.0 (break-even at fair odds)
// trueProb=0.55, price=+100 → 0.10 (+10% per stake)
// trueProb=0.50, price=-110 → -0.0455 (standard vig at a fair line)
//
// The raw signed value is returned; filtering to positive-only opportunities
// is the caller's policy.
func ExpectedValue(trueProb float64, american int) (float64, error) {
	if trueProb < 0 || trueProb > 1 {
		return 0, fmt.Errorf("invalid probability %f: must be in [0, 1]", trueProb)
	}

	winnings, err := Winnings(american)
	if err != nil {
		return 0, err
	}

	evDollars := trueProb*winnings - (1.0-trueProb)*100.0

	return evDollars / 100.0, nil
}
