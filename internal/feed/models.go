package feed

// Raw DTOs matching The Odds API v4 odds response
// https://api.the-odds-api.com/v4/sports/{sport}/odds

// Game is one event record as returned by the feed
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime string      `json:"commence_time"` // ISO-8601 UTC
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker carries one book's markets for a game
type Bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate string   `json:"last_update"`
	Markets    []Market `json:"markets"`
}

// Market is one market kind (h2h, spreads, totals) with its outcomes
type Market struct {
	Key        string    `json:"key"`
	LastUpdate string    `json:"last_update"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Outcome is one priced side as quoted by the feed
type Outcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`           // American odds
	Point *float64 `json:"point,omitempty"` // spreads/totals only
}

// FetchOptions contains parameters for an odds snapshot fetch
type FetchOptions struct {
	Sport   string
	Regions []string
	Markets []string
}

// RateLimits contains quota information from response headers
type RateLimits struct {
	RequestsRemaining string
	RequestsUsed      string
}
