package compare

import (
	"fmt"

	"github.com/XavierBriggs/valueline/pkg/models"
)

// Cell is one priced grid entry. Absence of a cell is reported by the lookup,
// never by a zero value.
type Cell struct {
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Grid is the per-game outcome × bookmaker price table for one market kind
type Grid struct {
	GameID string
	Market models.MarketKind

	rows  []string // outcome keys in display order
	books []string // canonical book names in first-seen order
	cells map[string]map[string]Cell
}

// OutcomeKey builds the row identity for an outcome: the bare label for
// moneylines, label plus point for spreads and totals
func OutcomeKey(o models.Outcome) string {
	if o.Point == nil {
		return o.Label
	}
	return fmt.Sprintf("%s %+.1f", o.Label, *o.Point)
}

// BuildGrid constructs the comparison grid for one game and market.
// Duplicate quotes for the same outcome/book resolve first-wins in feed order.
func BuildGrid(game models.Game, market models.MarketKind) *Grid {
	grid := &Grid{
		GameID: game.ID,
		Market: market,
		cells:  make(map[string]map[string]Cell),
	}

	// Moneyline rows render home before away regardless of feed order
	if market == models.MarketMoneyline {
		grid.addRow(game.HomeTeam)
		grid.addRow(game.AwayTeam)
	}

	for _, quote := range game.Quotes {
		if quote.Market != market {
			continue
		}

		grid.addBook(quote.Book)

		for _, outcome := range quote.Outcomes {
			key := OutcomeKey(outcome)
			grid.addRow(key)

			byBook, ok := grid.cells[key]
			if !ok {
				byBook = make(map[string]Cell)
				grid.cells[key] = byBook
			}

			if _, exists := byBook[quote.Book]; exists {
				// First quote wins
				continue
			}

			byBook[quote.Book] = Cell{Price: outcome.Price, Point: outcome.Point}
		}
	}

	return grid
}

// Lookup returns the cell for an outcome key and book. The second return is
// false for a missing cell, which is distinct from any real price.
func (g *Grid) Lookup(outcomeKey, book string) (Cell, bool) {
	byBook, ok := g.cells[outcomeKey]
	if !ok {
		return Cell{}, false
	}
	cell, ok := byBook[book]
	return cell, ok
}

// Rows returns outcome keys in display order
func (g *Grid) Rows() []string {
	return append([]string(nil), g.rows...)
}

// Books returns book names in first-seen order
func (g *Grid) Books() []string {
	return append([]string(nil), g.books...)
}

// Empty reports whether the grid has no priced cells
func (g *Grid) Empty() bool {
	return len(g.books) == 0
}

func (g *Grid) addRow(key string) {
	for _, existing := range g.rows {
		if existing == key {
			return
		}
	}
	g.rows = append(g.rows, key)
}

func (g *Grid) addBook(name string) {
	for _, existing := range g.books {
		if existing == name {
			return
		}
	}
	g.books = append(g.books, name)
}

// View is the JSON-ready projection of a grid
type View struct {
	GameID string            `json:"game_id"`
	Market models.MarketKind `json:"market"`
	Books  []string          `json:"books"`
	Rows   []RowView         `json:"rows"`
}

// RowView is one outcome row; a nil cell means no quote from that book
type RowView struct {
	Outcome string           `json:"outcome"`
	Cells   map[string]*Cell `json:"cells"`
}

// Render projects the grid into its serializable view. Missing cells are
// explicit nulls keyed by book name.
func (g *Grid) Render() View {
	view := View{
		GameID: g.GameID,
		Market: g.Market,
		Books:  g.Books(),
		Rows:   make([]RowView, 0, len(g.rows)),
	}

	for _, rowKey := range g.rows {
		row := RowView{Outcome: rowKey, Cells: make(map[string]*Cell, len(g.books))}
		for _, book := range g.books {
			if cell, ok := g.Lookup(rowKey, book); ok {
				c := cell
				row.Cells[book] = &c
			} else {
				row.Cells[book] = nil
			}
		}
		view.Rows = append(view.Rows, row)
	}

	return view
}
