package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stratos/apis/gemini"
	"stratos/apis/geocoding"
	"stratos/apis/iplocation"
	"stratos/apis/openmeteo"
	"stratos/cache"
	"stratos/cli"
	"stratos/config"
	"stratos/logging"
	"stratos/manager"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logger *logging.Logger
	defer func() {
		if logger != nil {
			_ = logger.Close()
		}
	}()

	cmd, err := cli.New(func(path string) (*cli.App, error) {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}

		logger, err = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return nil, err
		}

		return build(cfg, logger), nil
	})
	if err != nil {
		log.Printf("new cli: %s\n", err)
		return 1
	}

	if err = cmd.ExecuteContext(ctx); err != nil {
		log.Printf("exec: %s\n", err)
		return 1
	}
	return 0
}

func build(cfg config.Config, logger *logging.Logger) *cli.App {
	geo := manager.NewRateLimitedGeocoding(geocoding.New(cfg.Geocoding),
		cfg.Geocoding.RateLimit.Rps, cfg.Geocoding.RateLimit.Burst)
	resolver := manager.NewResolver(geo, cache.New[[]manager.Location](cfg.Geocoding.CacheTTL), logger.Logger)

	if cfg.Gemini.APIKey == "" {
		logger.Warn("gemini_key_missing", "hint", "set GEMINI_API_KEY; narratives will use the offline fallback")
	}
	generator := manager.NewRateLimitedGenerator(gemini.New(cfg.Gemini),
		cfg.Gemini.RateLimit.Rps, cfg.Gemini.RateLimit.Burst)

	dashboard := manager.New(
		openmeteo.New(cfg.Forecast),
		manager.NewNarrator(generator, logger.Logger),
		manager.WithLocator(iplocation.New(cfg.Geolocation)),
		manager.WithDefaultLocation(manager.Location{
			Name:      cfg.DefaultLocation.Name,
			Latitude:  cfg.DefaultLocation.Latitude,
			Longitude: cfg.DefaultLocation.Longitude,
			Country:   cfg.DefaultLocation.Country,
		}),
		manager.WithLogger(logger.Logger),
	)

	return &cli.App{
		Config:    cfg,
		Resolver:  resolver,
		Dashboard: dashboard,
		Logger:    logger.Logger,
	}
}
