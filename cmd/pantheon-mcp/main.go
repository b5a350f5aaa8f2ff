package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/pantheon/internal/config"
	"github.com/peterkuimelis/pantheon/internal/game"
	pmcp "github.com/peterkuimelis/pantheon/internal/mcp"
)

func main() {
	configPath := flag.String("config", "pantheon.yaml", "path to configuration file")
	relay := flag.String("relay", "", "relay WebSocket URL (overrides client.relay_url)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *relay != "" {
		cfg.Client.RelayURL = *relay
	}

	// stdout carries the MCP protocol; logs go to stderr.
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	catalog := game.DefaultCatalog()
	if cfg.Game.CatalogPath != "" {
		if catalog, err = game.LoadCatalog(cfg.Game.CatalogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	tools := pmcp.NewTools(pmcp.Config{
		RelayURL: cfg.Client.RelayURL,
		Catalog:  catalog,
		MaxTurns: cfg.Game.MaxTurns,
		Logger:   logger,
		Wait:     cfg.Client.Wait,
	})
	defer tools.Close()

	s := server.NewMCPServer("pantheon", "1.0.0")
	tools.Register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
