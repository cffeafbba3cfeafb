package refresher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/valueline/internal/analyzer"
	"github.com/XavierBriggs/valueline/internal/cache"
	"github.com/XavierBriggs/valueline/internal/feed"
	"github.com/XavierBriggs/valueline/internal/hub"
	"github.com/XavierBriggs/valueline/internal/store"
)

// Refresher owns the fetch/cache/analyze cycle and holds the latest snapshot.
// The analysis core itself is pure; everything stateful lives here.
type Refresher struct {
	feedClient *feed.Client
	analyzer   *analyzer.Analyzer

	// Optional collaborators, nil when not configured
	snapshots *cache.SnapshotCache
	oppStore  *store.OpportunityStore
	oppHub    *hub.Hub

	opts feed.FetchOptions

	mu      sync.RWMutex
	current *analyzer.Snapshot

	refreshCount int64
	errorCount   int64
	metricsMu    sync.Mutex
}

// New creates a refresher. snapshots, oppStore, and oppHub may be nil.
func New(
	feedClient *feed.Client,
	a *analyzer.Analyzer,
	snapshots *cache.SnapshotCache,
	oppStore *store.OpportunityStore,
	oppHub *hub.Hub,
	opts feed.FetchOptions,
) *Refresher {
	return &Refresher{
		feedClient: feedClient,
		analyzer:   a,
		snapshots:  snapshots,
		oppStore:   oppStore,
		oppHub:     oppHub,
		opts:       opts,
	}
}

// Current returns the latest snapshot, nil before the first refresh succeeds
func (r *Refresher) Current() *analyzer.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Refresh runs one fetch/analyze cycle and publishes the result. With force
// set the cached payload is invalidated first.
func (r *Refresher) Refresh(ctx context.Context, force bool) (*analyzer.Snapshot, error) {
	raw, err := r.fetchPayload(ctx, force)
	if err != nil {
		r.incrementErrors()
		return nil, err
	}

	snapshot, err := r.analyzer.Analyze(ctx, raw)
	if err != nil {
		r.incrementErrors()
		return nil, fmt.Errorf("analyze snapshot: %w", err)
	}

	r.mu.Lock()
	r.current = snapshot
	r.mu.Unlock()
	r.incrementRefreshes()

	if r.oppStore != nil {
		if err := r.oppStore.Record(ctx, snapshot.Opportunities); err != nil {
			fmt.Printf("[refresher] record opportunities: %v\n", err)
		}
	}

	if r.oppHub != nil {
		r.oppHub.Broadcast(snapshot.FetchedAt, snapshot.Opportunities)
	}

	fmt.Printf("[refresher] snapshot ready: %d games, %d opportunities\n",
		len(snapshot.Games), len(snapshot.Opportunities))

	return snapshot, nil
}

// Run refreshes on the given interval until the context is cancelled
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx, false); err != nil {
				fmt.Printf("[refresher] refresh failed: %v\n", err)
			}
		}
	}
}

// Metrics returns refresh and error counters
func (r *Refresher) Metrics() (refreshes, errors int64) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	return r.refreshCount, r.errorCount
}

// fetchPayload serves the raw payload from cache inside the TTL window,
// fetching from the feed otherwise. Cache failures degrade to a direct fetch.
func (r *Refresher) fetchPayload(ctx context.Context, force bool) ([]feed.Game, error) {
	key := cache.Key(r.opts.Sport, r.opts.Markets)

	if r.snapshots != nil && force {
		if err := r.snapshots.Invalidate(ctx, key); err != nil {
			fmt.Printf("[refresher] cache invalidate: %v\n", err)
		}
	}

	if r.snapshots != nil && !force {
		payload, hit, err := r.snapshots.Get(ctx, key)
		if err != nil {
			fmt.Printf("[refresher] cache read failed, fetching directly: %v\n", err)
		} else if hit {
			var raw []feed.Game
			if err := json.Unmarshal(payload, &raw); err == nil {
				return raw, nil
			}
			fmt.Printf("[refresher] cached payload corrupt, refetching\n")
		}
	}

	raw, err := r.feedClient.FetchOdds(ctx, r.opts)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	if r.snapshots != nil {
		if payload, err := json.Marshal(raw); err == nil {
			if err := r.snapshots.Set(ctx, key, payload); err != nil {
				fmt.Printf("[refresher] cache write: %v\n", err)
			}
		}
	}

	return raw, nil
}

func (r *Refresher) incrementRefreshes() {
	r.metricsMu.Lock()
	r.refreshCount++
	r.metricsMu.Unlock()
}

func (r *Refresher) incrementErrors() {
	r.metricsMu.Lock()
	r.errorCount++
	r.metricsMu.Unlock()
}
