package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stripwijzer/config"
	"stripwijzer/internal/adapter"
	"stripwijzer/internal/awards"
	"stripwijzer/internal/catalog"
	"stripwijzer/internal/orchestrator"
	"stripwijzer/internal/sustainability"
	"stripwijzer/logger"
	"stripwijzer/services/cache"
	"stripwijzer/services/publisher"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Bool("run_once", cfg.RunOnce).
		Msg("Starting stripwijzer")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Open the catalog database
	store, err := catalog.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open catalog database")
	}
	defer store.Close()

	// Initialize services
	services := initializeServices(ctx, &cfg)
	defer services.Cleanup()

	// Load the sustainability knowledge base
	rules, err := sustainability.LoadRules(cfg.SustainabilityRulesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load sustainability rules")
	}
	scorer := sustainability.NewScorer(rules)

	// Build the scrape registry
	browser := adapter.NewBrowserFetcher(cfg.ChromeBin, cfg.ChromeNavTimeout, cfg.ChromeSettle)
	targets := adapter.Targets(cfg, services.Cache, browser)
	if len(targets) == 0 {
		log.Fatal().Msg("No scrape targets were created")
	}

	log.Info().
		Int("target_count", len(targets)).
		Msg("Created scrape targets")

	orch := orchestrator.New(targets, store, scorer, services.Publisher, cfg.ScrapeDelay)

	// Run loop: one pass immediately, then on the configured interval
	runDone := make(chan error, 1)
	go func() {
		runDone <- runLoop(ctx, &cfg, orch, store, services.Publisher)
	}()

	// Wait for shutdown signal or loop exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-runDone
	case err := <-runDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Run loop exited with error")
		} else {
			log.Info().Msg("Run loop exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// runLoop executes scrape runs until the context is cancelled. With RUN_ONCE
// set it returns after the first pass.
func runLoop(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, store *catalog.Store, pub publisher.Publisher) error {
	for {
		executeRun(ctx, orch, store, pub)

		if cfg.RunOnce {
			return nil
		}

		select {
		case <-time.After(cfg.ScrapeInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// executeRun performs one scrape pass and recomputes the derived views for
// the run report.
func executeRun(ctx context.Context, orch *orchestrator.Orchestrator, store *catalog.Store, pub publisher.Publisher) {
	log := logger.ForOrchestrator()

	result, err := orch.Run(ctx)
	if err != nil {
		log.WithError(err).Error().Msg("Scrape run failed")
		return
	}

	if err := pub.TrimStreams(); err != nil {
		logger.ForPublisher().WithError(err).Warn().Msg("Failed to trim event streams")
	}

	// Awards are derived from the fresh catalog snapshot, never persisted
	products, err := store.ListProducts()
	if err != nil {
		log.WithError(err).Error().Msg("Failed to load catalog snapshot for awards")
		return
	}

	for slug, flags := range awards.Compute(products) {
		if !flags.BestReview && !flags.BestSustainability && !flags.BestDealPrice && !flags.BestTryPrice {
			continue
		}
		log.WithField("slug", slug).
			WithField("best_review", flags.BestReview).
			WithField("best_sustainability", flags.BestSustainability).
			WithField("best_deal_price", flags.BestDealPrice).
			WithField("best_try_price", flags.BestTryPrice).
			Info().Msg("awards recomputed")
	}

	log.WithField("run_id", result.RunID).
		WithField("status", result.Status).
		WithField("products", len(products)).
		Info().Msg("run report complete")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices wires the cache and publisher backends. Both are
// optional: "disabled" selects the in-process fallback.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	if cfg.MemcacheAddr == "disabled" {
		services.Cache = cache.NewMemoryService()
		logger.Info("Using in-process block-window cache")
	} else {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	if cfg.RedisAddr == "disabled" {
		services.Publisher = publisher.NoopPublisher{}
		logger.Info("Price-change events disabled")
	} else {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services
}
