// Command keno runs the keno simulator either as an interactive terminal game
// ("play", the default) or as a loopback HTTP bridge for a browser view
// ("serve").
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/MJE43/keno-sim/internal/api"
	"github.com/MJE43/keno-sim/internal/config"
	"github.com/MJE43/keno-sim/internal/engine"
	"github.com/MJE43/keno-sim/internal/logging"
	"github.com/MJE43/keno-sim/internal/session"
)

func main() {
	var configPath string
	defaultConfig := os.Getenv("KENO_CONFIG")
	flag.StringVar(&configPath, "config", defaultConfig, "Path to YAML config file (can be set via KENO_CONFIG env var)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [play|serve|version]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := "play"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keno: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "play":
		// The terminal owns stdout, so logs go to stderr.
		logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		err = runPlay(ctx, cfg, newSession(cfg, logger), logger)
	case "serve":
		logger := logging.New(cfg.Log.Level, cfg.Log.Format, nil)
		err = runServe(ctx, cfg, newSession(cfg, logger), logger)
	case "version":
		v := api.GetVersionInfo()
		fmt.Printf("keno %s (commit %s, built %s)\n", v.Version, v.GitCommit, v.BuildTime)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "keno: %v\n", err)
		os.Exit(1)
	}
}

func newSession(cfg config.Config, logger zerolog.Logger) *session.Session {
	opts := session.Options{Wager: cfg.WagerAmount()}
	if cfg.Game.Seed != 0 {
		opts.Source = engine.NewSeededSource(cfg.Game.Seed)
	}
	if cfg.FairMode() {
		opts.Seeds = &engine.Seeds{Server: cfg.Game.ServerSeed, Client: cfg.Game.ClientSeed}
	}

	sess := session.New(opts)
	logger.Debug().
		Str("session_id", sess.ID().String()).
		Bool("seeded", cfg.Game.Seed != 0).
		Bool("provably_fair", cfg.FairMode()).
		Str("wager", opts.Wager.String()).
		Msg("session created")
	return sess
}

func runServe(ctx context.Context, cfg config.Config, sess *session.Session, logger zerolog.Logger) error {
	srv := api.NewServer(sess, logger, api.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	<-ctx.Done()
	logger.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
