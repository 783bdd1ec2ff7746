package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clothify/storefront-api/internal/app/service"
	"github.com/clothify/storefront-api/internal/infrastructure/catalog"
	"github.com/clothify/storefront-api/internal/infrastructure/config"
	"github.com/clothify/storefront-api/internal/infrastructure/http"
	"github.com/clothify/storefront-api/internal/infrastructure/http/handler"
	"github.com/clothify/storefront-api/internal/infrastructure/repository/sqlite"
	"github.com/clothify/storefront-api/internal/infrastructure/telemetry"
)

func main() {
	// In development a .env file supplies configuration; in production the
	// variables are set directly.
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	}

	cfg := config.LoadConfig()

	telem, err := telemetry.NewTelemetry(&cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("storefront-api")
	meter := telem.MeterProvider.Meter("storefront-api")
	logger := telem.Logger

	logger.Info("Starting Clothify storefront API")

	// Durable key-value store holding the catalog cache and cart snapshot
	store, err := sqlite.NewKVStore(cfg.Store.Path)
	if err != nil {
		logger.Error("Failed to open durable store", "error", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	// Remote catalog source
	fetcher := catalog.NewFetcher(
		cfg.Catalog.SourceURL,
		cfg.Catalog.FetchTimeout,
		cfg.Catalog.MaxTries,
		tracer,
		logger,
	)

	// Initialize services
	catalogService := service.NewCatalogService(fetcher, store, tracer, meter, logger)
	pricingService := service.NewPricingService(tracer, meter, logger)
	cartService := service.NewCartService(ctx, store, pricingService, tracer, meter, logger)

	// Initialize handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, catalogService, pricingService, logger)

	// Initialize HTTP server
	server := http.NewServer(&cfg.Server, catalogHandler, cartHandler, logger, telem)

	// Warm the catalog cache; a failed warm-up is non-fatal, later requests
	// retry the source.
	if _, err := catalogService.Load(ctx); err != nil {
		logger.Warn("Catalog warm-up failed", "error", err.Error())
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", "error", err.Error())
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	logger.Info("Server stopped")
}
