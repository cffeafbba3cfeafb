package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/XavierBriggs/valueline/internal/analyzer"
	"github.com/XavierBriggs/valueline/internal/compare"
	"github.com/XavierBriggs/valueline/internal/handlers"
	"github.com/XavierBriggs/valueline/pkg/models"
)

type stubSource struct {
	snapshot   *analyzer.Snapshot
	refreshErr error
}

func (s *stubSource) Current() *analyzer.Snapshot { return s.snapshot }

func (s *stubSource) Refresh(ctx context.Context, force bool) (*analyzer.Snapshot, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return s.snapshot, nil
}

func testSnapshot() *analyzer.Snapshot {
	game := models.Game{
		ID:           "g1",
		HomeTeam:     "Kansas City Chiefs",
		AwayTeam:     "Buffalo Bills",
		CommenceTime: time.Date(2026, 9, 13, 17, 0, 0, 0, time.UTC),
		Quotes: []models.BookQuote{
			{
				Book:   "Pinnacle",
				Market: models.MarketMoneyline,
				Outcomes: []models.Outcome{
					{Label: "Kansas City Chiefs", Price: -110},
					{Label: "Buffalo Bills", Price: -110},
				},
			},
		},
	}

	return &analyzer.Snapshot{
		FetchedAt: time.Date(2026, 9, 13, 16, 0, 0, 0, time.UTC),
		Games:     []models.Game{game},
		Grids: map[string]map[models.MarketKind]*compare.Grid{
			"g1": {
				models.MarketMoneyline: compare.BuildGrid(game, models.MarketMoneyline),
			},
		},
		Opportunities: []models.Opportunity{},
		Baselines:     []models.Baseline{},
	}
}

func newRouter(source handlers.SnapshotSource) *chi.Mux {
	h := handlers.NewHandler(source)
	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Get("/api/v1/games", h.GetGames)
	r.Get("/api/v1/games/{gameID}/grid", h.GetGrid)
	r.Get("/api/v1/opportunities", h.GetOpportunities)
	r.Post("/api/v1/refresh", h.PostRefresh)
	return r
}

func TestGetGames(t *testing.T) {
	router := newRouter(&stubSource{snapshot: testSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Count int           `json:"count"`
		Games []models.Game `json:"games"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 1 || len(body.Games) != 1 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestGetGamesBeforeFirstSnapshot(t *testing.T) {
	router := newRouter(&stubSource{snapshot: nil})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestGetGrid(t *testing.T) {
	router := newRouter(&stubSource{snapshot: testSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/g1/grid?market=h2h", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var view compare.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.GameID != "g1" || len(view.Rows) != 2 {
		t.Errorf("unexpected grid view: %+v", view)
	}
}

func TestGetGridUnknownGame(t *testing.T) {
	router := newRouter(&stubSource{snapshot: testSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/nope/grid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetGridBadMarket(t *testing.T) {
	router := newRouter(&stubSource{snapshot: testSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/g1/grid?market=parlays", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPostRefreshFailure(t *testing.T) {
	router := newRouter(&stubSource{refreshErr: fmt.Errorf("feed unreachable")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
