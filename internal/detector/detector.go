package detector

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/XavierBriggs/valueline/internal/books"
	"github.com/XavierBriggs/valueline/pkg/models"
	"github.com/XavierBriggs/valueline/pkg/oddsmath"
)

// ErrNoReferenceBook indicates no sharp-priority book covers a game.
// EV detection skips the game; the comparison grid still renders.
var ErrNoReferenceBook = errors.New("no sharp reference book covers this game")

// Detector flags positive expected value moneyline prices at non-reference
// books, judged against the reference book's no-vig probabilities
type Detector struct {
	catalog *books.Catalog
	minEV   float64 // opportunities require EV strictly above this fraction
}

// NewDetector creates a detector. minEV of 0 keeps every strictly positive
// EV opportunity.
func NewDetector(catalog *books.Catalog, minEV float64) *Detector {
	return &Detector{catalog: catalog, minEV: minEV}
}

// Detect scans normalized games and returns the materialized opportunities
// together with the per-game baselines used to judge them
func (d *Detector) Detect(games []models.Game) ([]models.Opportunity, []models.Baseline) {
	opportunities := make([]models.Opportunity, 0)
	baselines := make([]models.Baseline, 0, len(games))

	for _, game := range games {
		baseline, err := d.baseline(game)
		if err != nil {
			// Per-game skip, never a batch failure
			continue
		}

		baselines = append(baselines, baseline)
		opportunities = append(opportunities, d.scanGame(game, baseline)...)
	}

	return opportunities, baselines
}

// baseline derives the no-vig probability pair from the game's reference book
func (d *Detector) baseline(game models.Game) (models.Baseline, error) {
	reference, ok := d.catalog.SelectReference(game.BookNames(models.MarketMoneyline))
	if !ok {
		return models.Baseline{}, ErrNoReferenceBook
	}

	quote, ok := findQuote(game, reference, models.MarketMoneyline)
	if !ok || len(quote.Outcomes) != 2 {
		return models.Baseline{}, fmt.Errorf("reference book %s has no two-sided moneyline for game %s", reference, game.ID)
	}

	fair, err := oddsmath.RemoveVig([]int{quote.Outcomes[0].Price, quote.Outcomes[1].Price})
	if err != nil {
		return models.Baseline{}, fmt.Errorf("de-vig reference prices: %w", err)
	}

	baseline := models.Baseline{
		GameID:        game.ID,
		ReferenceBook: reference,
		HomeTeam:      game.HomeTeam,
		AwayTeam:      game.AwayTeam,
	}

	for i, outcome := range quote.Outcomes {
		if strings.EqualFold(outcome.Label, game.HomeTeam) {
			baseline.HomeProbability = fair[i]
		} else {
			baseline.AwayProbability = fair[i]
		}
	}

	return baseline, nil
}

// scanGame checks every non-reference moneyline price against the baseline
func (d *Detector) scanGame(game models.Game, baseline models.Baseline) []models.Opportunity {
	var found []models.Opportunity

	for _, quote := range game.Quotes {
		if quote.Market != models.MarketMoneyline || quote.Book == baseline.ReferenceBook {
			continue
		}

		for _, outcome := range quote.Outcomes {
			trueProb := baseline.AwayProbability
			if strings.EqualFold(outcome.Label, game.HomeTeam) {
				trueProb = baseline.HomeProbability
			}

			ev, err := oddsmath.ExpectedValue(trueProb, outcome.Price)
			if err != nil {
				fmt.Printf("[detector] game %s book %s outcome %q: %v\n",
					game.ID, quote.Book, outcome.Label, err)
				continue
			}

			if ev <= d.minEV {
				continue
			}

			found = append(found, models.Opportunity{
				ID:              uuid.NewString(),
				GameID:          game.ID,
				HomeTeam:        game.HomeTeam,
				AwayTeam:        game.AwayTeam,
				CommenceTime:    game.CommenceTime,
				OutcomeLabel:    outcome.Label,
				BookName:        quote.Book,
				Price:           outcome.Price,
				EV:              ev,
				TrueProbability: trueProb,
				ReferenceBook:   baseline.ReferenceBook,
				DetectedAt:      time.Now().UTC(),
			})
		}
	}

	return found
}

// findQuote returns a game's quote for the given book and market
func findQuote(game models.Game, book string, market models.MarketKind) (models.BookQuote, bool) {
	for _, quote := range game.Quotes {
		if quote.Book == book && quote.Market == market {
			return quote, true
		}
	}
	return models.BookQuote{}, false
}
