package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photostudio/internal/catalog"
	"photostudio/internal/http/handlers"
	"photostudio/internal/http/httpapi"
	"photostudio/internal/infra"
	"photostudio/internal/orchestrator"
	"photostudio/internal/providers/genai"
	imageprovider "photostudio/internal/providers/image"
	promptprovider "photostudio/internal/providers/prompt"
	"photostudio/internal/providers/vision"
	"photostudio/internal/refine"
	"photostudio/internal/session"
	"photostudio/internal/storage"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 60 * time.Second}
	client, err := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("studio: failed to configure gemini client")
	}
	if client.Synthetic() {
		logger.Warn().Str("model", client.ImageModel()).Msg("studio: gemini api key missing, using synthetic asset generation")
	}

	exports, err := storage.NewFileStore(cfg.ExportPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("studio: failed to configure export storage")
	}

	styles := catalog.New()
	store := session.NewStore()
	engine := orchestrator.NewEngine(orchestrator.Options{
		Store:    store,
		Styles:   styles,
		Analyzer: vision.NewGeminiAnalyzer(client, logger),
		Refiner:  refine.NewPipeline(client, logger),
		Images: imageprovider.NewGeminiGenerator(imageprovider.Options{
			Client:            client,
			RequestsPerSecond: cfg.ImageRatePerSec,
			Burst:             cfg.ImageRateBurst,
		}),
		Suggester: promptprovider.NewGeminiSuggester(promptprovider.GeminiSuggesterOptions{Client: client}),
		Logger:    logger,
	})

	app := handlers.NewApp(engine, styles, exports, logger)
	router := httpapi.NewRouter(app, logger, cfg.AllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("studio: shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.Port).Msg("studio: listening")
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("studio: server stopped")
	}
	logger.Info().Msg("studio: stopped")
}
