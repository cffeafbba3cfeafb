package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/XavierBriggs/valueline/internal/books"
	"github.com/XavierBriggs/valueline/internal/feed"
	"github.com/XavierBriggs/valueline/pkg/models"
)

// Normalizer converts raw feed payloads into canonical game records,
// filtering to approved bookmakers and dropping malformed items.
//
// Failure policy is per-item: a bad timestamp drops that game, a bad outcome
// drops that outcome, and the rest of the snapshot is processed normally.
type Normalizer struct {
	catalog *books.Catalog
}

// NewNormalizer creates a normalizer backed by the given book catalog
func NewNormalizer(catalog *books.Catalog) *Normalizer {
	return &Normalizer{catalog: catalog}
}

// Normalize processes one raw snapshot into canonical games sorted by start
// time ascending. Games with no surviving quotes are dropped entirely.
func (n *Normalizer) Normalize(raw []feed.Game) []models.Game {
	games := make([]models.Game, 0, len(raw))

	for _, rawGame := range raw {
		commence, err := time.Parse(time.RFC3339, rawGame.CommenceTime)
		if err != nil {
			fmt.Printf("[normalize] dropping game %s: bad commence_time %q: %v\n",
				rawGame.ID, rawGame.CommenceTime, err)
			continue
		}

		game := models.Game{
			ID:           rawGame.ID,
			SportKey:     rawGame.SportKey,
			HomeTeam:     rawGame.HomeTeam,
			AwayTeam:     rawGame.AwayTeam,
			CommenceTime: commence.UTC(),
		}

		for _, rawBook := range rawGame.Bookmakers {
			canonical, ok := n.catalog.Canonicalize(rawBook.Title)
			if !ok {
				// Unapproved book, expected feed noise
				continue
			}

			for _, rawMarket := range rawBook.Markets {
				quote, ok := n.normalizeMarket(rawGame, canonical, rawMarket)
				if ok {
					game.Quotes = append(game.Quotes, quote)
				}
			}
		}

		if len(game.Quotes) == 0 {
			continue
		}

		games = append(games, game)
	}

	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].CommenceTime.Equal(games[j].CommenceTime) {
			return games[i].CommenceTime.Before(games[j].CommenceTime)
		}
		return games[i].ID < games[j].ID
	})

	return games
}

// normalizeMarket validates one bookmaker market and its outcomes
func (n *Normalizer) normalizeMarket(rawGame feed.Game, book string, rawMarket feed.Market) (models.BookQuote, bool) {
	kind, ok := marketKind(rawMarket.Key)
	if !ok {
		fmt.Printf("[normalize] game %s book %s: unrecognized market key %q\n",
			rawGame.ID, book, rawMarket.Key)
		return models.BookQuote{}, false
	}

	quote := models.BookQuote{Book: book, Market: kind}

	for _, rawOutcome := range rawMarket.Outcomes {
		if rawOutcome.Price == 0 {
			fmt.Printf("[normalize] game %s book %s: dropping outcome %q with zero price\n",
				rawGame.ID, book, rawOutcome.Name)
			continue
		}

		if kind == models.MarketMoneyline && !matchesTeam(rawOutcome.Name, rawGame) {
			// Exact-match policy: a moneyline label that is neither the home
			// nor the away name is a feed defect, not something to guess at
			fmt.Printf("[normalize] game %s book %s: moneyline outcome %q matches neither %q nor %q\n",
				rawGame.ID, book, rawOutcome.Name, rawGame.HomeTeam, rawGame.AwayTeam)
			continue
		}

		quote.Outcomes = append(quote.Outcomes, models.Outcome{
			Label: rawOutcome.Name,
			Point: rawOutcome.Point,
			Price: rawOutcome.Price,
		})
	}

	if len(quote.Outcomes) == 0 {
		return models.BookQuote{}, false
	}

	return quote, true
}

// matchesTeam reports whether a moneyline label names the game's home or away
// team, case-insensitively
func matchesTeam(label string, game feed.Game) bool {
	return strings.EqualFold(label, game.HomeTeam) || strings.EqualFold(label, game.AwayTeam)
}

// marketKind maps a feed market key to the canonical kind
func marketKind(key string) (models.MarketKind, bool) {
	switch key {
	case "h2h":
		return models.MarketMoneyline, true
	case "spreads":
		return models.MarketSpread, true
	case "totals":
		return models.MarketTotal, true
	default:
		return "", false
	}
}
