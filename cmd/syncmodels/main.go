package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/radoslav1992/creative-studio/internal/adapter/repo"
	"github.com/radoslav1992/creative-studio/internal/catalog"
	"github.com/radoslav1992/creative-studio/internal/infra"
	"github.com/radoslav1992/creative-studio/internal/providers/replicate"
)

// syncmodels refreshes the model catalog from the provider: every registry
// model with one flag, or a single model by external id.
func main() {
	var (
		one     = flag.String("model", "", "sync a single model by external id (owner/name)")
		timeout = flag.Duration("timeout", 5*time.Minute, "overall timeout")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	provider := replicate.NewClient(replicate.Options{
		BaseURL:  cfg.ProviderBaseURL,
		APIToken: cfg.ProviderAPIToken,
	})
	service := catalog.NewService(repo.NewModelRepository(dbpool), provider, logger)

	if *one != "" {
		m, err := service.SyncOne(ctx, *one)
		if err != nil {
			logger.Fatal().Err(err).Str("model", *one).Msg("sync failed")
		}
		logger.Info().Str("model", m.ExternalID).Int("params", len(m.InputSchema.Properties)).Msg("model synced")
		return
	}

	results := service.SyncAll(ctx)
	synced := 0
	for _, res := range results {
		if res.Error == "" {
			synced++
			logger.Info().Str("model", res.ExternalID).Msg("synced")
			continue
		}
		logger.Warn().Str("model", res.ExternalID).Str("error", res.Error).Msg("sync failed")
	}
	logger.Info().Int("synced", synced).Int("total", len(results)).Msg("catalog sync finished")
}
