package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecocompare/backend/config"
	httpDelivery "github.com/ecocompare/backend/internal/delivery/http"
	"github.com/ecocompare/backend/internal/domain"
	"github.com/ecocompare/backend/internal/infrastructure/cache"
	"github.com/ecocompare/backend/internal/infrastructure/marketplace"
	"github.com/ecocompare/backend/internal/metrics"
	"github.com/ecocompare/backend/internal/usecase"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := config.SetupLogger(cfg.Log)
	logger.Info().
		Str("env", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Dur("fetch_timeout", cfg.Fetch.Timeout).
		Bool("cache", cfg.Cache.Enabled).
		Msg("starting EcoCompare backend v1.0.0")

	registry := metrics.NewRegistry()

	// Initialize infrastructure dependencies
	fetchers := []domain.PlatformFetcher{
		marketplace.NewAmazonClient(marketplace.ClientConfig{
			APIKey:    cfg.RapidAPI.APIKey,
			BaseURL:   cfg.Amazon.BaseURL,
			Host:      cfg.Amazon.Host,
			RateLimit: cfg.Amazon.RateLimit,
			Logger:    logger,
		}),
		marketplace.NewFlipkartClient(marketplace.ClientConfig{
			APIKey:    cfg.RapidAPI.APIKey,
			BaseURL:   cfg.Flipkart.BaseURL,
			Host:      cfg.Flipkart.Host,
			RateLimit: cfg.Flipkart.RateLimit,
			Logger:    logger,
		}),
	}

	var resultCache domain.CacheRepository
	if cfg.Cache.Enabled {
		memoryCache := cache.NewMemoryCache()
		defer memoryCache.Close()
		resultCache = memoryCache
		logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("result cache enabled")
	}

	// Initialize usecase layer
	productService := usecase.NewProductService(fetchers, resultCache, usecase.ProductServiceConfig{
		FetchTimeout:    cfg.Fetch.Timeout,
		CacheTTL:        cfg.Cache.TTL,
		DefaultLimit:    cfg.Search.DefaultLimit,
		DefaultCurrency: cfg.Search.DefaultCurrency,
		Logger:          logger,
		Metrics:         registry,
	})

	handler := httpDelivery.NewHandler(productService, logger, cfg.Server.IsDevelopment())
	router := httpDelivery.SetupRouter(cfg, handler, logger, registry)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("listen")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("bye")
}
