package oddsmath_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/valueline/pkg/oddsmath"
)

func TestRemoveVigPair(t *testing.T) {
	tests := []struct {
		name       string
		price1     int
		price2     int
		wantFair1  float64
		wantFair2  float64
		shouldFail bool
	}{
		{
			name:      "Symmetric -110/-110 normalizes to a coin flip",
			price1:    -110,
			price2:    -110,
			wantFair1: 0.50,
			wantFair2: 0.50,
		},
		{
			name:      "Asymmetric -120/+100",
			price1:    -120,
			price2:    100,
			wantFair1: 0.5217,
			wantFair2: 0.4783,
		},
		{
			name:      "Heavy favorite -200/+170",
			price1:    -200,
			price2:    170,
			wantFair1: 0.6429,
			wantFair2: 0.3571,
		},
		{
			name:      "Already vig-free +100/+100 is the identity",
			price1:    100,
			price2:    100,
			wantFair1: 0.50,
			wantFair2: 0.50,
		},
		{
			name:       "Zero price is malformed",
			price1:     0,
			price2:     -110,
			shouldFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fair1, fair2, err := oddsmath.RemoveVigPair(tt.price1, tt.price2)

			if tt.shouldFail {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(fair1-tt.wantFair1) > 0.001 {
				t.Errorf("fair1 = %f, want %f", fair1, tt.wantFair1)
			}

			if math.Abs(fair2-tt.wantFair2) > 0.001 {
				t.Errorf("fair2 = %f, want %f", fair2, tt.wantFair2)
			}

			// Fair probabilities must sum to exactly 1.0 within tolerance
			if sum := fair1 + fair2; math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("fair probabilities sum to %f, want 1.0", sum)
			}
		})
	}
}

func TestRemoveVigSumsToOne(t *testing.T) {
	// Any valid price pair must normalize to probabilities summing to 1.0
	pairs := [][2]int{
		{-110, -110}, {-120, 100}, {-200, 170}, {-350, 280},
		{105, -125}, {-105, -115}, {500, -700}, {-10000, 2500},
	}

	for _, pair := range pairs {
		fair, err := oddsmath.RemoveVig([]int{pair[0], pair[1]})
		if err != nil {
			t.Fatalf("RemoveVig(%v): unexpected error: %v", pair, err)
		}

		sum := fair[0] + fair[1]
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("RemoveVig(%v): probabilities sum to %.12f, want 1.0", pair, sum)
		}
	}
}

func TestRemoveVigThreeWay(t *testing.T) {
	// Three-outcome markets normalize by the same method
	fair, err := oddsmath.RemoveVig([]int{120, 230, 260})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fair) != 3 {
		t.Fatalf("got %d probabilities, want 3", len(fair))
	}

	sum := fair[0] + fair[1] + fair[2]
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("probabilities sum to %f, want 1.0", sum)
	}
}

func TestRemoveVigTooFewOutcomes(t *testing.T) {
	if _, err := oddsmath.RemoveVig([]int{-110}); err == nil {
		t.Error("expected error for single-outcome market")
	}
}
