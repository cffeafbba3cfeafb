package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/XavierBriggs/valueline/internal/analyzer"
	"github.com/XavierBriggs/valueline/pkg/models"
)

// SnapshotSource provides the latest analyzed snapshot and on-demand refresh
type SnapshotSource interface {
	Current() *analyzer.Snapshot
	Refresh(ctx context.Context, force bool) (*analyzer.Snapshot, error)
}

// Handler serves the comparison and opportunity API
type Handler struct {
	source SnapshotSource
}

// NewHandler creates a handler over a snapshot source
func NewHandler(source SnapshotSource) *Handler {
	return &Handler{source: source}
}

// HealthCheck responds with service liveness
// GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// GetGames returns the normalized game list from the latest snapshot
// GET /api/v1/games
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	snapshot := h.source.Current()
	if snapshot == nil {
		http.Error(w, "no snapshot available yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fetched_at": snapshot.FetchedAt,
		"count":      len(snapshot.Games),
		"games":      snapshot.Games,
	})
}

// GetGrid returns the outcome × bookmaker price grid for one game and market
// GET /api/v1/games/{gameID}/grid?market=h2h
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	snapshot := h.source.Current()
	if snapshot == nil {
		http.Error(w, "no snapshot available yet", http.StatusServiceUnavailable)
		return
	}

	gameID := chi.URLParam(r, "gameID")
	market := models.MarketKind(r.URL.Query().Get("market"))
	if market == "" {
		market = models.MarketMoneyline
	}

	switch market {
	case models.MarketMoneyline, models.MarketSpread, models.MarketTotal:
	default:
		http.Error(w, fmt.Sprintf("unknown market %q", market), http.StatusBadRequest)
		return
	}

	grid, ok := snapshot.Grid(gameID, market)
	if !ok {
		http.Error(w, "no grid for that game and market", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, grid.Render())
}

// GetOpportunities returns detected +EV wagers with their baselines
// GET /api/v1/opportunities
func (h *Handler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	snapshot := h.source.Current()
	if snapshot == nil {
		http.Error(w, "no snapshot available yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fetched_at":    snapshot.FetchedAt,
		"count":         len(snapshot.Opportunities),
		"opportunities": snapshot.Opportunities,
		"baselines":     snapshot.Baselines,
	})
}

// PostRefresh invalidates the snapshot cache and refetches immediately
// POST /api/v1/refresh
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.source.Refresh(r.Context(), true)
	if err != nil {
		http.Error(w, fmt.Sprintf("refresh failed: %v", err), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fetched_at":    snapshot.FetchedAt,
		"games":         len(snapshot.Games),
		"opportunities": len(snapshot.Opportunities),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
