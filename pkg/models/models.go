package models

import "time"

// MarketKind identifies a betting market using The Odds API market keys
type MarketKind string

const (
	MarketMoneyline MarketKind = "h2h"
	MarketSpread    MarketKind = "spreads"
	MarketTotal     MarketKind = "totals"
)

// Outcome is one priced side of a market
type Outcome struct {
	Label string   `json:"label"`           // team name, or "Over"/"Under"
	Point *float64 `json:"point,omitempty"` // spreads/totals only
	Price int      `json:"price"`           // American odds, never 0
}

// BookQuote holds one bookmaker's outcomes for one market of one game
type BookQuote struct {
	Book     string     `json:"book"` // canonical display name
	Market   MarketKind `json:"market"`
	Outcomes []Outcome  `json:"outcomes"`
}

// Game is a normalized event with only quotes from approved bookmakers
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime time.Time   `json:"commence_time"`
	Quotes       []BookQuote `json:"quotes"`
}

// BookNames returns the set of canonical book names quoting the given market
func (g Game) BookNames(market MarketKind) map[string]bool {
	names := make(map[string]bool)
	for _, q := range g.Quotes {
		if q.Market == market {
			names[q.Book] = true
		}
	}
	return names
}

// Baseline is the no-vig probability pair derived from a game's reference book
type Baseline struct {
	GameID          string  `json:"game_id"`
	ReferenceBook   string  `json:"reference_book"`
	HomeTeam        string  `json:"home_team"`
	AwayTeam        string  `json:"away_team"`
	HomeProbability float64 `json:"home_probability"`
	AwayProbability float64 `json:"away_probability"`
}

// Opportunity is a positive expected value wager found at a non-reference book
type Opportunity struct {
	ID              string    `json:"id"`
	GameID          string    `json:"game_id"`
	HomeTeam        string    `json:"home_team"`
	AwayTeam        string    `json:"away_team"`
	CommenceTime    time.Time `json:"commence_time"`
	OutcomeLabel    string    `json:"outcome_label"`
	BookName        string    `json:"book_name"`
	Price           int       `json:"price"` // American odds offered
	EV              float64   `json:"ev"`    // expected profit per unit staked
	TrueProbability float64   `json:"true_probability"`
	ReferenceBook   string    `json:"reference_book"`
	DetectedAt      time.Time `json:"detected_at"`
}
