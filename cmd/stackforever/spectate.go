package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stack-forever/internal/platform/web"
)

var (
	flagSpectateAddr  string
	flagSpectateEvery int
	flagRestartDelay  time.Duration
)

var spectateCmd = &cobra.Command{
	Use:   "spectate",
	Short: "Stream an autoplay session to websocket spectators",
	Long: `Run autoplay sessions back to back and broadcast their snapshots.

Routes:
  /ws        - websocket; the latest snapshot on connect, then one per broadcast
  /snapshot  - latest snapshot as JSON

Examples:
  stackforever spectate
  stackforever spectate --addr :9000 --every 4 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runSpectate,
}

func init() {
	spectateCmd.Flags().StringVar(&flagSpectateAddr, "addr", ":8080", "HTTP listen address")
	spectateCmd.Flags().IntVar(&flagSpectateEvery, "every", 2, "Engine steps between broadcasts")
	spectateCmd.Flags().DurationVar(&flagRestartDelay, "restart-delay", 3*time.Second, "Pause after game over before the next run")
}

func runSpectate(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(os.Stderr, "stack-feed")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := web.DefaultFeedConfig()
	cfg.Address = flagSpectateAddr
	cfg.TickRate = flagFPS
	cfg.Every = flagSpectateEvery
	cfg.Seed = flagSeed
	cfg.RestartDelay = flagRestartDelay
	cfg.Game = gameCfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Streaming on ws://localhost%s/ws\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := web.Serve(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
