package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emernav/backend/internal/adapters/cache"
	"github.com/emernav/backend/internal/adapters/classifier"
	"github.com/emernav/backend/internal/adapters/providers/geocoding"
	"github.com/emernav/backend/internal/api/handlers"
	"github.com/emernav/backend/internal/api/routes"
	"github.com/emernav/backend/internal/application/services"
	"github.com/emernav/backend/internal/domain/providers"
	"github.com/emernav/backend/internal/infrastructure/clients/openai"
	"github.com/emernav/backend/internal/infrastructure/clients/redis"
	"github.com/emernav/backend/internal/infrastructure/clients/registry"
	"github.com/emernav/backend/internal/infrastructure/observability"
	"github.com/emernav/backend/pkg/config"
	"github.com/emernav/backend/pkg/secrets"
)

func main() {
	// Pull credentials from Vault before reading configuration
	vaultResult, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load secrets from vault: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	if vaultResult.Enabled {
		logger.Info().
			Str("path", vaultResult.Path).
			Int("loaded", vaultResult.Loaded).
			Int("skipped", vaultResult.Skipped).
			Msg("vault secrets applied")
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize Redis client. The application works without caching.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	// Initialize the facility registry client
	registryClient := registry.NewClient(&cfg.Registry)

	// Initialize the coordinate resolver
	var resolver providers.CoordinateResolver
	switch cfg.Geocoder.Provider {
	case "vworld":
		vworldProvider, err := geocoding.NewVWorldProvider(&cfg.Geocoder, cacheProvider, metrics, *logger)
		if err != nil {
			logger.Warn().Err(err).Msg("geocoder misconfigured, using mock resolver")
			resolver = geocoding.NewMockProvider()
		} else {
			resolver = vworldProvider
		}
	default:
		resolver = geocoding.NewMockProvider()
	}

	// Initialize the capability classifier; the rule-based fallback covers
	// missing keys and runtime failures.
	var primaryClassifier providers.CapabilityClassifier
	if cfg.OpenAI.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set; using rule-based classification only")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			if cacheProvider != nil {
				openaiClient = openaiClient.WithCache(cacheProvider)
			}
			defer openaiClient.Close()
			primaryClassifier = openaiClient
		}
	}

	// Initialize services
	searchService := services.NewProgressiveSearchService(registryClient, metrics, &cfg.Search)
	scoringService := services.NewScoringService(&cfg.Scoring)
	assemblyService := services.NewAssemblyService(resolver, &cfg.Geocoder, &cfg.Scoring)
	triageService := services.NewTriageSearchService(
		primaryClassifier,
		classifier.NewRuleBased(),
		searchService,
		scoringService,
		assemblyService,
	)

	// Initialize handlers and routes
	router := routes.NewRouter(
		handlers.NewSearchHandler(triageService),
		handlers.NewVocabularyHandler(),
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
