package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"colorizer/internal/adapter/repo"
	"colorizer/internal/colorize"
	"colorizer/internal/http/handlers"
	"colorizer/internal/http/httpapi"
	"colorizer/internal/infra"
	"colorizer/internal/infra/geoip"
	"colorizer/internal/providers/dashscope"
	"colorizer/internal/providers/genai"
	"colorizer/internal/providers/image"
	"colorizer/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	previews := colorize.NewFilePreviews(store)

	geminiClient := genai.NewClient(genai.Options{
		APIKey:         cfg.GeminiAPIKey,
		BaseURL:        cfg.GeminiBaseURL,
		Model:          cfg.GeminiModel,
		Logger:         &logger,
		RequestTimeout: cfg.ProviderTimeout,
	})
	gemini := image.NewGeminiColorizer(geminiClient)

	var provider image.Colorizer = gemini
	if cfg.ImageProvider == "dashscope" {
		dashClient := dashscope.NewClient(dashscope.Options{
			APIKey:         cfg.DashScopeAPIKey,
			BaseURL:        cfg.DashScopeBaseURL,
			Model:          cfg.DashScopeModel,
			Logger:         &logger,
			RequestTimeout: cfg.ProviderTimeout,
		})
		provider = image.NewDashScopeColorizer(dashClient, gemini)
	}

	registry := colorize.NewRegistry(previews, provider, logger)

	app := &handlers.App{
		Config:   cfg,
		Logger:   logger,
		Sessions: registry,
		Provider: cfg.ImageProvider,
	}

	ctx := context.Background()
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		history := repo.NewHistoryRepository(pool)
		if err := history.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure history schema")
		}
		app.History = history
	}

	locator, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, locale falls back to headers")
	}
	defer func() { _ = locator.Close() }()

	router := httpapi.NewRouter(app, cfg, logger, locator.Country)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Sweep abandoned sessions so preview files do not pile up.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.SessionSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				registry.Sweep(ctx, cfg.SessionTTL)
			case <-sweepDone:
				return
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	close(sweepDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	registry.CloseAll(shutdownCtx)
	logger.Info().Msg("server stopped")
}
