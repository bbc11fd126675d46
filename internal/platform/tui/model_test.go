package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/stack-forever/internal/config"
	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/games/stack"
	"github.com/vovakirdan/stack-forever/internal/physics"
	"github.com/vovakirdan/stack-forever/internal/physics/physicstest"
	"github.com/vovakirdan/stack-forever/internal/storage"
)

func newTestModel(t *testing.T, store *storage.Store) (Model, func() *physicstest.World) {
	t.Helper()
	var world *physicstest.World
	game := stack.New(config.DefaultStackConfig(), stack.WithWorld(func(config.StackConfig) physics.World {
		world = physicstest.New()
		return world
	}))
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 25, TickRate: 60, Seed: 1}, nil)
	m.Init()
	return m, func() *physicstest.World { return world }
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestModelLayoutReservesHelpRow(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if m.screen.Height() != 24 {
		t.Errorf("screen height = %d, expected 24", m.screen.Height())
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.screen.Width() != 100 || m.screen.Height() != 39 {
		t.Errorf("screen after resize = %dx%d", m.screen.Width(), m.screen.Height())
	}

	m = update(t, m, runeKey('?'))
	if m.screen.Height() >= 39 {
		t.Error("full help should take more rows")
	}

	view := m.View()
	if !strings.Contains(view, "Score:") {
		t.Error("view should include the HUD")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = update(t, m, TickMsg(time.Now()))
	before := m.game.Engine()

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	if m.game.Engine() != before {
		t.Error("resize must not reset the game")
	}
}

func TestModelKeyboardDrop(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if m.game.Engine().Pending() == nil {
		t.Fatal("expected a pending block")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg(time.Now()))
	if m.game.Engine().Pending() != nil {
		t.Error("space should drop the pending block on the next tick")
	}
}

func TestModelSavesScoreOnceAndRestarts(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m, world := newTestModel(t, store)
	e := m.game.Engine()

	// Land one block below the target so the run has a score.
	b := e.Pending()
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg(time.Now()))
	cfg := e.Config()
	world().MoveTo(b.ID, core.V(cfg.Playfield.Width/2, cfg.Playfield.Height-cfg.Playfield.FloorHeight-b.Height/2))
	for i := 0; i < cfg.Settle.RequiredSteps+1 && e.Session().Score() == 0; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}
	if e.Session().Score() != 1 {
		t.Fatalf("score = %v, expected 1", e.Session().Score())
	}

	// Drop the next block off the bottom.
	next := e.Pending()
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, TickMsg(time.Now()))
	world().MoveTo(next.ID, core.V(400, 5000))
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, TickMsg(time.Now()))

	if !m.State().GameOver {
		t.Fatal("expected game over")
	}
	scores, err := store.AllScores("stack")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 1 || scores[0].Level != 1 {
		t.Errorf("saved scores = %+v", scores)
	}

	m = update(t, m, runeKey('r'))
	m = update(t, m, TickMsg(time.Now()))
	if m.State().GameOver || m.game.Engine() == e {
		t.Error("r after game over should start a new run")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if !next.(Model).IsQuitting() || next.(Model).View() != "" {
		t.Error("model should be quitting with an empty view")
	}
}
