package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/radoslav1992/creative-studio/internal/adapter/repo"
	"github.com/radoslav1992/creative-studio/internal/catalog"
	"github.com/radoslav1992/creative-studio/internal/generation"
	"github.com/radoslav1992/creative-studio/internal/http/handlers"
	httpapi "github.com/radoslav1992/creative-studio/internal/http/httpapi"
	"github.com/radoslav1992/creative-studio/internal/infra"
	"github.com/radoslav1992/creative-studio/internal/providers/prompt"
	"github.com/radoslav1992/creative-studio/internal/providers/replicate"
	"github.com/radoslav1992/creative-studio/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewFileStore(cfg.OutputsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init output store")
	}

	provider := replicate.NewClient(replicate.Options{
		BaseURL:  cfg.ProviderBaseURL,
		APIToken: cfg.ProviderAPIToken,
	})

	models := repo.NewModelRepository(dbpool)
	generations := repo.NewGenerationRepository(dbpool)

	materializer := generation.NewMaterializer(generation.MaterializerOptions{
		Store:        store,
		PublicPrefix: cfg.OutputsPublicPath,
		Concurrency:  cfg.DownloadWorkers,
		Logger:       logger,
	})
	manager := generation.NewManager(generations, models, provider, materializer, logger)
	refresher := generation.NewRefresher(generations, provider, materializer, logger)

	var enhancer prompt.Enhancer = prompt.NewStaticEnhancer()
	if cfg.GeminiAPIKey != "" {
		gemini, err := prompt.NewGeminiEnhancer(prompt.GeminiOptions{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			BaseURL:  cfg.GeminiBaseURL,
			Fallback: enhancer,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init prompt enhancer")
		}
		enhancer = gemini
	}

	app := &handlers.App{
		Models:       models,
		Generations:  generations,
		Catalog:      catalog.NewService(models, provider, logger),
		Manager:      manager,
		Materializer: materializer,
		Refresher:    refresher,
		Enhancer:     enhancer,
		Store:        store,
		Logger:       logger,
	}

	router := httpapi.NewRouter(httpapi.RouterOptions{
		App:            app,
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		OutputsDir:     cfg.OutputsDir,
		PublicPrefix:   cfg.OutputsPublicPath,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("api listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
