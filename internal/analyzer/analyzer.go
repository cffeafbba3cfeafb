package analyzer

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/XavierBriggs/valueline/internal/compare"
	"github.com/XavierBriggs/valueline/internal/detector"
	"github.com/XavierBriggs/valueline/internal/feed"
	"github.com/XavierBriggs/valueline/internal/normalize"
	"github.com/XavierBriggs/valueline/pkg/models"
)

// Snapshot is the fully derived view of one raw odds fetch
type Snapshot struct {
	FetchedAt     time.Time                                    `json:"fetched_at"`
	Games         []models.Game                                `json:"games"`
	Grids         map[string]map[models.MarketKind]*compare.Grid `json:"-"`
	Opportunities []models.Opportunity                         `json:"opportunities"`
	Baselines     []models.Baseline                            `json:"baselines"`
}

// Grid returns the grid for a game and market, if present
func (s *Snapshot) Grid(gameID string, market models.MarketKind) (*compare.Grid, bool) {
	byMarket, ok := s.Grids[gameID]
	if !ok {
		return nil, false
	}
	grid, ok := byMarket[market]
	return grid, ok
}

// Analyzer runs the snapshot pipeline: normalize once, then build comparison
// grids and detect EV opportunities over the immutable normalized games
type Analyzer struct {
	normalizer *normalize.Normalizer
	detector   *detector.Detector
	markets    []models.MarketKind
}

// NewAnalyzer creates an analyzer building grids for the given market kinds
func NewAnalyzer(normalizer *normalize.Normalizer, det *detector.Detector, markets []models.MarketKind) *Analyzer {
	return &Analyzer{
		normalizer: normalizer,
		detector:   det,
		markets:    markets,
	}
}

// Analyze derives a snapshot from one raw payload. The grid and detection
// stages are pure functions over the normalized games and run concurrently.
func (a *Analyzer) Analyze(ctx context.Context, raw []feed.Game) (*Snapshot, error) {
	games := a.normalizer.Normalize(raw)

	snapshot := &Snapshot{
		FetchedAt: time.Now().UTC(),
		Games:     games,
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		snapshot.Grids = a.buildGrids(games)
		return nil
	})

	g.Go(func() error {
		snapshot.Opportunities, snapshot.Baselines = a.detector.Detect(games)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// buildGrids constructs per-game grids for each configured market
func (a *Analyzer) buildGrids(games []models.Game) map[string]map[models.MarketKind]*compare.Grid {
	grids := make(map[string]map[models.MarketKind]*compare.Grid, len(games))

	for _, game := range games {
		byMarket := make(map[models.MarketKind]*compare.Grid, len(a.markets))
		for _, market := range a.markets {
			grid := compare.BuildGrid(game, market)
			if grid.Empty() {
				continue
			}
			byMarket[market] = grid
		}
		if len(byMarket) > 0 {
			grids[game.ID] = byMarket
		}
	}

	return grids
}
