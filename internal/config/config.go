package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PANTHEON_SERVER_ADDRESS.
const EnvPrefix = "PANTHEON"

// Config is the top-level configuration of the relay server and tools.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Lobby   LobbyConfig   `mapstructure:"lobby"`
	Client  ClientConfig  `mapstructure:"client"`
}

type ServerConfig struct {
	Address   string `mapstructure:"address"`
	ReadLimit int64  `mapstructure:"read_limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GameConfig struct {
	MaxTurns    int    `mapstructure:"max_turns"`
	CatalogPath string `mapstructure:"catalog_path"`
}

// LobbyConfig controls the relay's match bookkeeping.
type LobbyConfig struct {
	ReapInterval time.Duration `mapstructure:"reap_interval"`
	WaitingTTL   time.Duration `mapstructure:"waiting_ttl"`
	FinishedTTL  time.Duration `mapstructure:"finished_ttl"`
}

// ClientConfig is read by the terminal and MCP clients.
type ClientConfig struct {
	RelayURL string        `mapstructure:"relay_url"`
	Wait     time.Duration `mapstructure:"wait"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_limit", 1<<20)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.max_turns", 50)
	v.SetDefault("game.catalog_path", "")
	v.SetDefault("lobby.reap_interval", time.Minute)
	v.SetDefault("lobby.waiting_ttl", 30*time.Minute)
	v.SetDefault("lobby.finished_ttl", 5*time.Minute)
	v.SetDefault("client.relay_url", "ws://localhost:8080/ws")
	v.SetDefault("client.wait", 2*time.Minute)
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from path (optional; a missing file is not an error)
// and PANTHEON_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address must be set")
	}
	if c.Server.ReadLimit <= 0 {
		return errors.New("server.read_limit must be positive")
	}
	if c.Game.MaxTurns <= 0 {
		return errors.New("game.max_turns must be positive")
	}
	if c.Lobby.ReapInterval <= 0 || c.Lobby.WaitingTTL <= 0 || c.Lobby.FinishedTTL <= 0 {
		return errors.New("lobby durations must be positive")
	}
	if c.Client.RelayURL == "" {
		return errors.New("client.relay_url must be set")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q: want json or console", c.Logging.Format)
	}
	return nil
}
