package books

import "strings"

// Config defines the approved bookmaker set and sharp priority for one catalog
type Config struct {
	// Approved display names; feed titles canonicalize to these
	Approved []string

	// Sharp books in priority order for reference selection.
	// Pinnacle: lowest margins, fastest to move, accepts high limits
	// Circa Sports: Vegas sharp book, accepts large bets
	// BookMaker: sharp offshore book
	SharpPriority []string
}

// Catalog resolves raw feed bookmaker titles to canonical display names and
// selects the reference book used as the fair-probability baseline
type Catalog struct {
	display  map[string]string // lowercased title -> approved display name
	priority []string
}

// NewCatalog builds a catalog from an explicit config so per-sport catalogs
// can coexist
func NewCatalog(cfg Config) *Catalog {
	display := make(map[string]string, len(cfg.Approved))
	for _, name := range cfg.Approved {
		display[strings.ToLower(name)] = name
	}

	return &Catalog{
		display:  display,
		priority: append([]string(nil), cfg.SharpPriority...),
	}
}

// Canonicalize maps a raw feed title to its approved display name.
// Unrecognized titles return false; feed noise is expected, not an error.
func (c *Catalog) Canonicalize(rawTitle string) (string, bool) {
	name, ok := c.display[strings.ToLower(rawTitle)]
	return name, ok
}

// SelectReference returns the first sharp-priority book present among the
// given canonical names. Tie-break is strictly positional.
func (c *Catalog) SelectReference(present map[string]bool) (string, bool) {
	for _, name := range c.priority {
		if present[name] {
			return name, true
		}
	}
	return "", false
}

// SharpPriority returns the configured priority order
func (c *Catalog) SharpPriority() []string {
	return append([]string(nil), c.priority...)
}

// NFLDefaults returns the production NFL catalog configuration
func NFLDefaults() Config {
	return Config{
		Approved: []string{
			"Pinnacle",
			"Circa Sports",
			"BookMaker",
			"DraftKings",
			"FanDuel",
			"BetMGM",
			"Caesars",
			"ESPN BET",
			"BetRivers",
			"Bet365",
		},
		SharpPriority: []string{
			"Pinnacle",
			"Circa Sports",
			"BookMaker",
		},
	}
}
