package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/games/stack"
	"github.com/vovakirdan/stack-forever/internal/platform/tui"
	"github.com/vovakirdan/stack-forever/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a run in the current terminal.

Controls:
  Mouse drag      - Aim the pending block, release to drop
  Mouse hold      - Freeze a landed block while the wind is STRONG
  Left/Right, A/D - Nudge the pending block
  Space           - Drop
  P/Esc           - Pause
  R               - Restart (after game over)
  ?               - Toggle full help
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Start at lowest difficulty, longer auto-drop, quicker glue
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, fewer adhesive blocks, slower settling
  fixed  - No progression, stays at config's values

Examples:
  stackforever play
  stackforever play --difficulty easy
  stackforever play --config ./my-stack.yaml --log ./stack.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs only go to --log.
	logger, closeLog, err := newLogger(io.Discard, "stack")
	if err != nil {
		return err
	}
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage - game still works
		store = nil
	}

	game := stack.New(gameCfg, stack.WithLogger(logger))
	runErr := tui.Run(game, store, rc, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}
	return nil
}
