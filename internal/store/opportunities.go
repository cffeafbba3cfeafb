package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/XavierBriggs/valueline/pkg/models"
)

// OpportunityStore is an insert-only audit log of detected opportunities.
// Raw odds are never persisted here.
//
// Expected schema:
//
//	CREATE TABLE value_opportunities (
//	    id              UUID PRIMARY KEY,
//	    game_id         TEXT NOT NULL,
//	    home_team       TEXT NOT NULL,
//	    away_team       TEXT NOT NULL,
//	    commence_time   TIMESTAMPTZ NOT NULL,
//	    outcome_label   TEXT NOT NULL,
//	    book_name       TEXT NOT NULL,
//	    price           INT NOT NULL,
//	    ev              DOUBLE PRECISION NOT NULL,
//	    true_probability DOUBLE PRECISION NOT NULL,
//	    reference_book  TEXT NOT NULL,
//	    detected_at     TIMESTAMPTZ NOT NULL
//	);
type OpportunityStore struct {
	db *sql.DB
}

// NewOpportunityStore creates a store over an open connection
func NewOpportunityStore(db *sql.DB) *OpportunityStore {
	return &OpportunityStore{db: db}
}

// Open connects to Postgres and verifies the connection
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Record inserts the detected opportunities. Individual insert failures are
// logged and skipped; one bad row never loses the rest of the batch.
func (s *OpportunityStore) Record(ctx context.Context, opportunities []models.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	query := `
		INSERT INTO value_opportunities (
			id, game_id, home_team, away_team, commence_time,
			outcome_label, book_name, price, ev, true_probability,
			reference_book, detected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	recorded := 0
	for _, opp := range opportunities {
		_, err := s.db.ExecContext(ctx, query,
			opp.ID,
			opp.GameID,
			opp.HomeTeam,
			opp.AwayTeam,
			opp.CommenceTime,
			opp.OutcomeLabel,
			opp.BookName,
			opp.Price,
			opp.EV,
			opp.TrueProbability,
			opp.ReferenceBook,
			opp.DetectedAt,
		)
		if err != nil {
			fmt.Printf("[store] failed to record opportunity %s: %v\n", opp.ID, err)
			continue
		}
		recorded++
	}

	fmt.Printf("[store] recorded %d/%d opportunities\n", recorded, len(opportunities))

	return nil
}
