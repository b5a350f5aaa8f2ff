package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pantheon/internal/config"
	"github.com/peterkuimelis/pantheon/internal/game"
	"github.com/peterkuimelis/pantheon/internal/log"
	pnet "github.com/peterkuimelis/pantheon/internal/net"
	"github.com/peterkuimelis/pantheon/internal/peer"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "host":
		err = run("host", os.Args[2:])
	case "join":
		err = run("join", os.Args[2:])
	case "rejoin":
		err = run("rejoin", os.Args[2:])
	case "list":
		err = run("list", os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  pantheon host   --name NAME [--relay URL]")
	fmt.Println("  pantheon join   --name NAME --code CODE [--relay URL]")
	fmt.Println("  pantheon rejoin --name NAME --code CODE --session ID [--relay URL]")
	fmt.Println("  pantheon list   [--relay URL]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Create a match and wait for an opponent")
	fmt.Println("  join    Join a waiting match by its code")
	fmt.Println("  rejoin  Return to a match after losing the connection")
	fmt.Println("  list    Show matches waiting for a second player")
}

func run(cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "pantheon.yaml", "path to configuration file")
	relay := fs.String("relay", "", "relay WebSocket URL (overrides client.relay_url)")
	name := fs.String("name", "", "your player name")
	code := fs.String("code", "", "match code")
	session := fs.String("session", "", "session id printed when you first connected")
	seed := fs.Uint64("seed", 0, "shuffle seed (0 = random)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *relay != "" {
		cfg.Client.RelayURL = *relay
	}
	// The terminal belongs to the game; only warnings reach stderr.
	cfg.Logging.Level = "warn"
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	switch cmd {
	case "host", "list":
	case "rejoin":
		if *session == "" {
			return fmt.Errorf("rejoin needs --session")
		}
		fallthrough
	default:
		if *code == "" {
			return fmt.Errorf("%s needs --code", cmd)
		}
	}
	if cmd != "list" && *name == "" {
		return fmt.Errorf("%s needs --name", cmd)
	}
	if cmd == "list" {
		*name = "lobby"
	}

	catalog := game.DefaultCatalog()
	if cfg.Game.CatalogPath != "" {
		if catalog, err = game.LoadCatalog(cfg.Game.CatalogPath); err != nil {
			return err
		}
	}
	var shuffler game.Shuffler
	if *seed != 0 {
		shuffler = game.NewSeededShuffler(*seed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := peer.Dial(ctx, cfg.Client.RelayURL, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	sessionID := *session
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	console := peer.NewConsole(os.Stdout, catalog)
	p := peer.New(peer.Config{
		Name:       *name,
		SessionID:  sessionID,
		Catalog:    catalog,
		Controller: game.NewTurnController(game.ControllerConfig{Shuffler: shuffler, MaxTurns: cfg.Game.MaxTurns}),
		Logger:     logger,
		Events:     log.NewTextLogger(os.Stdout),
		OnMessage:  console.Notify,
	}, client)
	console.Attach(p)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := client.Run(runCtx, p.Handle); err != nil {
			logger.Warn("relay connection ended", zap.Error(err))
		}
		cancel()
	}()

	switch cmd {
	case "host":
		err = p.CreateGame()
	case "join":
		err = p.JoinGame(pnet.NormalizeCode(*code))
	case "rejoin":
		err = p.RejoinGame(pnet.NormalizeCode(*code))
	case "list":
		err = p.ListGames()
	}
	if err != nil {
		return err
	}
	if cmd != "rejoin" && cmd != "list" {
		fmt.Printf("Session %s (use with rejoin if you lose the connection)\n", sessionID)
	}
	return console.Run(runCtx, os.Stdin)
}
