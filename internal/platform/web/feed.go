package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stack-forever/internal/config"
	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/games/stack"
)

// FeedConfig controls the spectator feed.
type FeedConfig struct {
	Address      string        // HTTP listen address
	TickRate     int           // Engine steps per second
	Every        int           // Steps between broadcasts
	Seed         int64         // Seed of the first run; later runs increment it
	RestartDelay time.Duration // Pause on the game over screen before a new run
	Game         config.StackConfig
}

// DefaultFeedConfig returns a config with sensible defaults.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		Address:      ":8080",
		TickRate:     60,
		Every:        2,
		RestartDelay: 3 * time.Second,
		Game:         config.DefaultStackConfig(),
	}
}

// Feed plays autoplay runs back to back and broadcasts their snapshots.
type Feed struct {
	cfg    FeedConfig
	hub    *Hub
	game   *stack.Game
	logger *log.Logger
	seed   int64
	over   time.Time
}

// NewFeed creates a feed. opts are passed to every game, after autoplay.
func NewFeed(cfg FeedConfig, hub *Hub, logger *log.Logger, opts ...stack.Option) *Feed {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	cfg.Every = max(cfg.Every, 1)

	opts = append([]stack.Option{stack.WithAutoplay(), stack.WithLogger(logger)}, opts...)
	f := &Feed{
		cfg:    cfg,
		hub:    hub,
		game:   stack.New(cfg.Game, opts...),
		logger: logger,
		seed:   cfg.Seed,
	}
	if f.seed == 0 {
		f.seed = time.Now().UnixNano()
	}
	f.reset()
	return f
}

func (f *Feed) reset() {
	rc := core.DefaultConfig()
	rc.TickRate = f.cfg.TickRate
	rc.Seed = f.seed
	f.game.Reset(rc)
	f.over = time.Time{}
	f.logger.Info("feed run started", "seed", f.seed)
}

// Game returns the game being broadcast.
func (f *Feed) Game() *stack.Game {
	return f.game
}

// Step advances the run by one engine step at wall time now and broadcasts
// when due. A finished run is restarted after RestartDelay.
func (f *Feed) Step(now time.Time) error {
	if f.game.State().GameOver {
		if f.over.IsZero() {
			f.over = now
			s := f.game.Engine().Session()
			f.logger.Info("feed run ended", "score", s.Score(), "level", s.Level())
		}
		if now.Sub(f.over) < f.cfg.RestartDelay {
			return nil
		}
		f.seed++
		f.reset()
	}

	f.game.Step(core.NewInputFrame())
	if f.game.Engine().Ticks()%uint64(f.cfg.Every) != 0 && !f.game.State().GameOver {
		return nil
	}
	return f.hub.Broadcast(f.game.Snapshot())
}

// Run steps the feed on a wall clock until ctx is done.
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(f.cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := f.Step(now); err != nil {
				f.logger.Error("broadcast failed", "error", err)
			}
		}
	}
}

// Handler returns the HTTP routes: /ws for the websocket feed and
// /snapshot for the latest snapshot as JSON.
func Handler(hub *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, _ *http.Request) {
		last := hub.Last()
		if last == nil {
			http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // Client may have gone away
		w.Write(last)
	})
	return mux
}

// Serve runs the feed and its HTTP server until ctx is done.
func Serve(ctx context.Context, cfg FeedConfig, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hub := NewHub(logger)
	feed := NewFeed(cfg, hub, logger)

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           Handler(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("spectator feed listening", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		//nolint:errcheck // Returns only on cancel
		feed.Run(runCtx)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	cancel()
	hub.Close()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if shutdownErr := srv.Shutdown(shutdownCtx); err == nil {
		err = shutdownErr
	}
	return err
}
