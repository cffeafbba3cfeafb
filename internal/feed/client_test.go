package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/XavierBriggs/valueline/internal/feed"
)

const sampleResponse = `[
  {
    "id": "e912304de2b2ce35b473ce2ecd3d1502",
    "sport_key": "americanfootball_nfl",
    "sport_title": "NFL",
    "commence_time": "2026-09-13T17:00:00Z",
    "home_team": "Kansas City Chiefs",
    "away_team": "Buffalo Bills",
    "bookmakers": [
      {
        "key": "pinnacle",
        "title": "Pinnacle",
        "last_update": "2026-09-13T16:45:00Z",
        "markets": [
          {
            "key": "h2h",
            "last_update": "2026-09-13T16:45:00Z",
            "outcomes": [
              {"name": "Kansas City Chiefs", "price": -130},
              {"name": "Buffalo Bills", "price": 110}
            ]
          },
          {
            "key": "spreads",
            "last_update": "2026-09-13T16:45:00Z",
            "outcomes": [
              {"name": "Kansas City Chiefs", "price": -110, "point": -2.5},
              {"name": "Buffalo Bills", "price": -110, "point": 2.5}
            ]
          }
        ]
      }
    ]
  }
]`

func TestFetchOdds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/v4/sports/americanfootball_nfl/odds" {
			t.Errorf("unexpected path %q", got)
		}
		if got := r.URL.Query().Get("apiKey"); got != "test-key" {
			t.Errorf("apiKey = %q, want %q", got, "test-key")
		}
		if got := r.URL.Query().Get("oddsFormat"); got != "american" {
			t.Errorf("oddsFormat = %q, want american", got)
		}
		if got := r.URL.Query().Get("markets"); got != "h2h,spreads" {
			t.Errorf("markets = %q, want h2h,spreads", got)
		}

		w.Header().Set("X-Requests-Remaining", "499")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client, err := feed.NewClientWithBaseURL("test-key", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	games, err := client.FetchOdds(context.Background(), feed.FetchOptions{
		Sport:   "americanfootball_nfl",
		Regions: []string{"us"},
		Markets: []string{"h2h", "spreads"},
	})
	if err != nil {
		t.Fatalf("FetchOdds: %v", err)
	}

	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}

	game := games[0]
	if game.HomeTeam != "Kansas City Chiefs" {
		t.Errorf("home team = %q", game.HomeTeam)
	}
	if len(game.Bookmakers) != 1 || len(game.Bookmakers[0].Markets) != 2 {
		t.Fatalf("unexpected bookmaker/market shape")
	}

	spread := game.Bookmakers[0].Markets[1].Outcomes[0]
	if spread.Point == nil || *spread.Point != -2.5 {
		t.Errorf("spread point not decoded: %+v", spread)
	}
	if spread.Price != -110 {
		t.Errorf("spread price = %d, want -110", spread.Price)
	}
}

func TestFetchOddsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := feed.NewClientWithBaseURL("bad-key", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.FetchOdds(context.Background(), feed.FetchOptions{Sport: "americanfootball_nfl"}); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := feed.NewClient(""); err != feed.ErrMissingAPIKey {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}
