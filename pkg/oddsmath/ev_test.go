package oddsmath_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/valueline/pkg/oddsmath"
)

func TestExpectedValue(t *testing.T) {
	tests := []struct {
		name       string
		trueProb   float64
		price      int
		want       float64
		shouldFail bool
	}{
		{
			name:     "Break-even at fair odds",
			trueProb: 0.50,
			price:    100,
			want:     0.0,
		},
		{
			name:     "Ten percent edge at even money",
			trueProb: 0.55,
			price:    100,
			want:     0.10,
		},
		{
			name:     "Standard vig loses at fair probability",
			trueProb: 0.50,
			price:    -110,
			want:     -0.04545,
		},
		{
			name:     "Underdog value",
			trueProb: 0.45,
			price:    150,
			want:     0.125,
		},
		{
			name:     "Certain loss",
			trueProb: 0.0,
			price:    200,
			want:     -1.0,
		},
		{
			name:       "Zero price is malformed",
			trueProb:   0.50,
			price:      0,
			shouldFail: true,
		},
		{
			name:       "Probability above 1 rejected",
			trueProb:   1.2,
			price:      -110,
			shouldFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.ExpectedValue(tt.trueProb, tt.price)

			if tt.shouldFail {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("ExpectedValue(%f, %d) = %f, want %f", tt.trueProb, tt.price, got, tt.want)
			}
		})
	}
}
