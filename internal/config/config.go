// Package config loads runtime settings from an optional YAML file and then
// applies KENO_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig holds HTTP bridge settings.
type ServerConfig struct {
	// Addr must be a loopback address; the bridge serves one local view.
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// GameConfig holds randomness, wager and reveal pacing settings.
type GameConfig struct {
	// Seed makes drawings and quick picks reproducible. Zero means random.
	Seed        uint64        `yaml:"seed"`
	ServerSeed  string        `yaml:"server_seed"`
	ClientSeed  string        `yaml:"client_seed"`
	Wager       string        `yaml:"wager"`
	RevealDelay time.Duration `yaml:"reveal_delay"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:17880",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Game: GameConfig{
			Wager:       "1",
			RevealDelay: 200 * time.Millisecond,
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies the environment
// and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KENO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("KENO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KENO_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("KENO_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("KENO_SEED: %w", err)
		}
		c.Game.Seed = seed
	}
	if v := os.Getenv("KENO_SERVER_SEED"); v != "" {
		c.Game.ServerSeed = v
	}
	if v := os.Getenv("KENO_CLIENT_SEED"); v != "" {
		c.Game.ClientSeed = v
	}
	if v := os.Getenv("KENO_WAGER"); v != "" {
		c.Game.Wager = v
	}
	if v := os.Getenv("KENO_REVEAL_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KENO_REVEAL_DELAY: %w", err)
		}
		c.Game.RevealDelay = d
	}
	return nil
}

// Validate checks cross-field rules.
func (c Config) Validate() error {
	var errs []error
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want json or console", c.Log.Format))
	}
	if (c.Game.ServerSeed == "") != (c.Game.ClientSeed == "") {
		errs = append(errs, errors.New("game.server_seed and game.client_seed must be set together"))
	}
	if w, err := decimal.NewFromString(c.Game.Wager); err != nil || !w.IsPositive() {
		errs = append(errs, fmt.Errorf("game.wager %q: want a positive amount", c.Game.Wager))
	}
	if c.Game.RevealDelay < 0 {
		errs = append(errs, errors.New("game.reveal_delay must not be negative"))
	}
	if err := checkLoopback(c.Server.Addr); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// checkLoopback accepts host:port where host is localhost or a loopback IP.
func checkLoopback(addr string) error {
	if addr == "" {
		return errors.New("server.addr is required")
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("server.addr %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("server.addr %q: host must be localhost or a loopback IP", addr)
}

// WagerAmount returns the validated wager.
func (c Config) WagerAmount() decimal.Decimal {
	return decimal.RequireFromString(c.Game.Wager)
}

// FairMode reports whether drawings use the provably-fair stream.
func (c Config) FairMode() bool {
	return c.Game.ServerSeed != "" && c.Game.ClientSeed != ""
}
