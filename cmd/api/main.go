package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"multimodal-product-discovery/internal/application"
	"multimodal-product-discovery/internal/application/webhook_handlers"
	"multimodal-product-discovery/internal/config"
	apiinfra "multimodal-product-discovery/internal/infrastructure/api"
	"multimodal-product-discovery/internal/infrastructure/backend"
	"multimodal-product-discovery/internal/infrastructure/cache"
	"multimodal-product-discovery/internal/infrastructure/encryption"
	"multimodal-product-discovery/internal/infrastructure/metrics"
	"multimodal-product-discovery/internal/infrastructure/repository"
	"multimodal-product-discovery/internal/infrastructure/repository/sqlstore"
	shopifyinfra "multimodal-product-discovery/internal/infrastructure/shopify"
	"multimodal-product-discovery/internal/ports"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure (implementations)
	encryptionService, err := encryption.NewService(cfg.EncryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	searchRepo, shopRepo, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	shopifyClient, err := shopifyinfra.NewClient(shopifyinfra.Options{
		APIKey:      cfg.Shopify.APIKey,
		APISecret:   cfg.Shopify.APISecret,
		APIVersion:  cfg.Shopify.APIVersion,
		Scopes:      cfg.Shopify.Scopes,
		RedirectURI: cfg.AppURL + "/auth/callback",
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Shopify client")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	var dedup ports.WebhookDeduplicator = cache.NopDeduplicator{}
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		dedup = cache.NewRedisDeduplicator(redisClient, cache.DefaultWebhookTTL)
		logger.Info().Msg("Webhook redelivery de-duplication enabled")
	}

	// Initialize application services
	shopService := application.NewShopService(shopRepo, encryptionService, shopifyClient, cfg.Shopify.Scopes, logger)
	if cfg.Shopify.ShopDomain != "" && cfg.Shopify.AccessToken != "" {
		if _, err := shopService.SaveToken(ctx, cfg.Shopify.ShopDomain, cfg.Shopify.AccessToken); err != nil {
			logger.Fatal().Err(err).Msg("Failed to seed custom app token")
		}
		logger.Info().Str("shop", cfg.Shopify.ShopDomain).Msg("Custom app token seeded")
	}

	catalogService := application.NewCatalogService(
		shopService,
		shopifyClient,
		backend.NewClient(cfg.BackendURL, nil, logger),
		appMetrics,
		cfg.CatalogPageSize,
		logger,
	)
	searchService := application.NewSearchService(searchRepo, appMetrics, logger)
	settingsService := application.NewSettingsService(searchRepo, logger)
	webhookManager := application.NewWebhookManager(
		shopService,
		shopifyClient,
		cfg.WebhookTopics,
		cfg.WebhookCallbackURL,
		logger,
	)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(dedup, appMetrics, logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewProductHandler(logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, shopService))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewPrivacyHandler(logger, searchService))

	router := apiinfra.NewRouter(apiinfra.Dependencies{
		Shopify:          shopifyClient,
		SessionTokens:    shopifyinfra.NewSessionTokenVerifier(cfg.Shopify.APIKey, cfg.Shopify.APISecret),
		Shops:            shopService,
		Catalog:          catalogService,
		Search:           searchService,
		Settings:         settingsService,
		Webhooks:         webhookManager,
		Dispatcher:       webhookDispatcher,
		APIKey:           cfg.Shopify.APIKey,
		StorefrontOrigin: cfg.StorefrontOrigin,
		SecureCookies:    strings.HasPrefix(cfg.AppURL, "https://"),
		SwaggerFile:      "./docs/swagger.json",
		Metrics:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
	logger.Info().Msg("Server stopped")
}

// openStore connects the configured persistence backend
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ports.SavedSearchRepository, ports.ShopRepository, func()) {
	if cfg.Store.Driver == "mongo" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Store.MongoURI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		db := client.Database(cfg.Store.MongoDatabase)

		searchRepo := repository.NewMongoSearchRepository(db)
		if err := searchRepo.EnsureIndexes(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to prepare MongoDB indexes")
		}
		return searchRepo, repository.NewMongoShopRepository(db), func() {
			client.Disconnect(context.Background())
		}
	}

	db, err := sqlstore.Open(cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open database")
	}
	return sqlstore.NewSearchRepository(db), sqlstore.NewShopRepository(db), func() {
		if err := sqlstore.Close(db); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
