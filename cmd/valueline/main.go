package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/valueline/internal/analyzer"
	"github.com/XavierBriggs/valueline/internal/books"
	"github.com/XavierBriggs/valueline/internal/cache"
	"github.com/XavierBriggs/valueline/internal/config"
	"github.com/XavierBriggs/valueline/internal/detector"
	"github.com/XavierBriggs/valueline/internal/feed"
	"github.com/XavierBriggs/valueline/internal/handlers"
	"github.com/XavierBriggs/valueline/internal/hub"
	"github.com/XavierBriggs/valueline/internal/normalize"
	"github.com/XavierBriggs/valueline/internal/refresher"
	"github.com/XavierBriggs/valueline/internal/store"
	"github.com/XavierBriggs/valueline/pkg/models"
)

func main() {
	fmt.Println("=== Valueline v0 ===")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	feedClient, err := feed.NewClient(cfg.OddsAPIKey)
	if err != nil {
		fmt.Printf("❌ Feed client error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Feed client ready (sport: %s, markets: %v)\n", cfg.SportKey, cfg.Markets)

	ctx := context.Background()

	// Snapshot cache is optional: without Redis every request window refetches
	var snapshots *cache.SnapshotCache
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			fmt.Printf("❌ Failed to parse Redis URL: %v\n", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			fmt.Printf("⚠️  Redis unreachable, running without snapshot cache: %v\n", err)
		} else {
			defer redisClient.Close()
			snapshots = cache.NewSnapshotCache(redisClient, cfg.CacheTTL)
			fmt.Printf("✓ Connected to Redis (cache TTL: %v)\n", cfg.CacheTTL)
		}
	}

	// Opportunity log is optional
	var oppStore *store.OpportunityStore
	if cfg.PostgresDSN != "" {
		db, err := store.Open(cfg.PostgresDSN)
		if err != nil {
			fmt.Printf("⚠️  Postgres unreachable, opportunities will not be recorded: %v\n", err)
		} else {
			defer db.Close()
			oppStore = store.NewOpportunityStore(db)
			fmt.Println("✓ Connected to Postgres")
		}
	}

	// Assemble the pipeline
	catalog := books.NewCatalog(books.NFLDefaults())
	pipeline := analyzer.NewAnalyzer(
		normalize.NewNormalizer(catalog),
		detector.NewDetector(catalog, cfg.MinEV),
		marketKinds(cfg.Markets),
	)

	oppHub := hub.NewHub()

	ref := refresher.New(feedClient, pipeline, snapshots, oppStore, oppHub, feed.FetchOptions{
		Sport:   cfg.SportKey,
		Regions: cfg.Regions,
		Markets: cfg.Markets,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go oppHub.Run(runCtx)
	go ref.Run(runCtx, cfg.RefreshInterval)

	// Metrics reporter
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				refreshes, errors := ref.Metrics()
				fmt.Printf("📊 Metrics: refreshes=%d errors=%d\n", refreshes, errors)
			}
		}
	}()

	// First snapshot before serving; a failed fetch is not fatal, the
	// refresher retries on its interval
	if _, err := ref.Refresh(runCtx, false); err != nil {
		fmt.Printf("⚠️  Initial fetch failed: %v\n", err)
	}

	handler := handlers.NewHandler(ref)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", handler.GetGames)
		r.Get("/games/{gameID}/grid", handler.GetGrid)
		r.Get("/opportunities", handler.GetOpportunities)
		r.Post("/refresh", handler.PostRefresh)
	})
	r.Get("/ws/opportunities", oppHub.ServeWS)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("✓ API listening on %s\n", cfg.ListenAddr)
		errChan <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("🛑 Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("⚠️  Server shutdown: %v\n", err)
	}

	fmt.Println("✓ Shutdown complete")
}

// marketKinds maps configured market keys to canonical kinds, dropping
// anything the pipeline does not understand
func marketKinds(keys []string) []models.MarketKind {
	kinds := make([]models.MarketKind, 0, len(keys))
	for _, key := range keys {
		switch models.MarketKind(key) {
		case models.MarketMoneyline, models.MarketSpread, models.MarketTotal:
			kinds = append(kinds, models.MarketKind(key))
		default:
			fmt.Printf("⚠️  Ignoring unsupported market %q\n", key)
		}
	}
	return kinds
}
