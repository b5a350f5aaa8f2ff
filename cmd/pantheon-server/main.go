package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peterkuimelis/pantheon/internal/config"
	"github.com/peterkuimelis/pantheon/internal/game"
	pnet "github.com/peterkuimelis/pantheon/internal/net"
	"github.com/peterkuimelis/pantheon/internal/web"
)

var (
	configPath = flag.String("config", "pantheon.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting pantheon relay",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	catalog := game.DefaultCatalog()
	if cfg.Game.CatalogPath != "" {
		catalog, err = game.LoadCatalog(cfg.Game.CatalogPath)
		if err != nil {
			logger.Fatal("failed to load catalog", zap.Error(err))
		}
	}

	coord := pnet.NewCoordinator(logger, pnet.WithCatalog(catalog))
	reaper, err := pnet.StartReaper(coord, pnet.ReaperConfig{
		Interval:    cfg.Lobby.ReapInterval,
		WaitingTTL:  cfg.Lobby.WaitingTTL,
		FinishedTTL: cfg.Lobby.FinishedTTL,
	})
	if err != nil {
		logger.Fatal("failed to start reaper", zap.Error(err))
	}
	defer reaper.Stop()

	srv := web.NewServer(web.Config{
		Coordinator: coord,
		Catalog:     catalog,
		Logger:      logger,
		ReadLimit:   cfg.Server.ReadLimit,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("relay listening", zap.String("address", cfg.Server.Address))
	if err := srv.ListenAndServe(ctx, cfg.Server.Address); err != nil {
		logger.Error("server error", zap.Error(err))
		return
	}
	logger.Info("pantheon relay stopped")
}
