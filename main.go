package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ofertasflash/dealbot/config"
	"ofertasflash/dealbot/internal/affiliate"
	"ofertasflash/dealbot/internal/aggregator"
	"ofertasflash/dealbot/internal/ai"
	"ofertasflash/dealbot/internal/notifier"
	"ofertasflash/dealbot/internal/provider"
	"ofertasflash/dealbot/logger"
	"ofertasflash/dealbot/services/cache"
	"ofertasflash/dealbot/services/publisher"
	"ofertasflash/dealbot/services/worker"
)

func main() {
	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Int("min_discount", cfg.MinDiscount).
		Int("max_deals", cfg.MaxDeals).
		Msg("Starting deal bot")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Assemble the deal pipeline
	rewriter := affiliate.NewRewriter(affiliate.Config{
		AmazonTags:       cfg.AmazonTags(),
		PcComponentesTag: cfg.PcComponentesTag,
		AwinPublisherID:  cfg.AwinPublisherID,
	})

	providers := provider.CreateProviders(cfg, rewriter, services.Cache)
	log.Info().Int("provider_count", len(providers)).Msg("Created providers")

	fallback := provider.NewCatalogProvider(cfg.MinDiscount, cfg.MaxDeals, rewriter)
	agg := aggregator.New(cfg, providers, fallback)

	// Create and start worker
	var sender worker.DealSender
	if services.Notifier != nil {
		sender = services.Notifier
	}
	w := worker.New(agg, services.Copywriter, services.Publisher, sender, cfg.ScrapeInterval)

	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting publish cycle")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache      cache.CacheService
	Publisher  publisher.Publisher
	Notifier   *notifier.Notifier
	Copywriter *ai.Copywriter
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	s.Copywriter.Close()
}

// initializeServices initializes all required services. Telegram and
// the copywriter are optional; missing credentials disable them.
func initializeServices(ctx context.Context, cfg config.Config) (*Services, error) {
	services := &Services{}

	services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

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

	if cfg.TelegramToken != "" && cfg.TelegramChannelID != "" {
		n, err := notifier.New(cfg.TelegramToken, cfg.TelegramChannelID, cfg.MessageDelay, cfg.SendRetries)
		if err != nil {
			return nil, err
		}
		services.Notifier = n
		logger.Info("Telegram notifier enabled for %s", cfg.TelegramChannelID)
	} else {
		logger.Warn("Telegram credentials missing, delivery disabled")
	}

	cw, err := ai.NewCopywriter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	services.Copywriter = cw
	if cw == nil {
		logger.Info("No Gemini API key, using template messages")
	}

	return services, nil
}
