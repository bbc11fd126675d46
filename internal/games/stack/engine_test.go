package stack

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/stack-forever/internal/config"
	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/physics"
	"github.com/vovakirdan/stack-forever/internal/physics/physicstest"
)

func newTestEngine(t *testing.T, mutate func(*config.StackConfig)) (*Engine, *physicstest.World) {
	t.Helper()
	cfg := config.DefaultStackConfig()
	cfg.Blocks.AdhesiveChance = 0
	if mutate != nil {
		mutate(&cfg)
	}
	w := physicstest.New()
	return NewEngine(w, Options{Config: cfg, Seed: 7}), w
}

// rest places a dropped block so its top edge is at top.
func rest(w *physicstest.World, b *Block, x, top float64) {
	w.MoveTo(b.ID, core.V(x, top+b.Height/2))
	w.SetMotion(b.ID, core.Vec{}, 0)
}

func ticks(e *Engine, n int) []Event {
	var all []Event
	for i := 0; i < n; i++ {
		all = append(all, e.Tick()...)
	}
	return all
}

func countPending(e *Engine) int {
	n := 0
	for _, b := range e.Blocks() {
		if b.Phase == PhasePending {
			n++
		}
	}
	return n
}

// holdWind freezes the wind at v by stopping the re-roll timer.
func holdWind(e *Engine, v float64) {
	e.windTimer.Stop()
	e.session.setWind(v)
}

func TestNewEngineSpawnsPendingBlock(t *testing.T) {
	e, w := newTestEngine(t, nil)

	b := e.Pending()
	if b == nil {
		t.Fatal("engine should start with a pending block")
	}
	if !w.IsStatic(b.ID) {
		t.Error("pending block must be static")
	}
	cfg := e.Config().Playfield
	if p := w.Position(b.ID); p != core.V(cfg.Width/2, cfg.SpawnY) {
		t.Errorf("pending block at %v, expected spawn point", p)
	}
	if !w.IsStatic(e.Floor()) {
		t.Error("floor must be static")
	}
	if !e.dropTimer.Armed() {
		t.Error("auto-drop timer should be armed for the pending block")
	}
	if _, ok := e.SpawnNext(); ok {
		t.Error("SpawnNext must refuse while a block is pending")
	}
}

func TestSettleBelowTargetScoresAndSpawns(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	if !e.Drop(a.ID) {
		t.Fatal("Drop should succeed for the pending block")
	}
	rest(w, a, 400, 500)

	required := e.Config().Settle.RequiredSteps
	ticks(e, required-1)
	if e.Session().Score() != 0 {
		t.Fatalf("score %v before the block settled", e.Session().Score())
	}
	if a.SettleStreak != required-1 {
		t.Errorf("SettleStreak = %d, expected %d", a.SettleStreak, required-1)
	}

	events := ticks(e, 1)
	if e.Session().Score() != 1 {
		t.Errorf("Score() = %v, expected 1", e.Session().Score())
	}
	if a.Phase != PhaseResting {
		t.Errorf("block phase = %v, expected resting", a.Phase)
	}
	if a.SettleStreak != 0 {
		t.Errorf("SettleStreak should reset on settle, got %d", a.SettleStreak)
	}

	b := e.Pending()
	if b == nil || b.ID == a.ID {
		t.Fatal("a new pending block should be spawned")
	}
	if !w.IsStatic(b.ID) {
		t.Error("new block must be static")
	}
	if got := e.Session().HighestY(); math.Abs(got-500) > 1e-9 {
		t.Errorf("HighestY() = %v, expected 500", got)
	}

	var scored, spawned bool
	for _, ev := range events {
		switch ev := ev.(type) {
		case BlockSettled:
			scored = ev.Scored && ev.ID == a.ID
		case BlockSpawned:
			spawned = ev.ID == b.ID
		}
	}
	if !scored || !spawned {
		t.Errorf("missing events: settled=%v spawned=%v", scored, spawned)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)
	rest(w, a, 400, 500)

	ticks(e, e.Config().Settle.RequiredSteps)
	b := e.Pending()
	ticks(e, 200)

	if e.Session().Score() != 1 {
		t.Errorf("resting block must not score twice, score=%v", e.Session().Score())
	}
	if e.Pending() != b {
		t.Error("no further block should spawn while the next one is pending")
	}
}

func TestSettleStreakResetsOnMotion(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)
	rest(w, a, 400, 500)

	ticks(e, 10)
	if a.SettleStreak != 10 {
		t.Fatalf("SettleStreak = %d, expected 10", a.SettleStreak)
	}

	w.SetMotion(a.ID, core.V(0, 0.5), 0)
	ticks(e, 1)
	if a.SettleStreak != 0 {
		t.Errorf("fast block should reset the streak, got %d", a.SettleStreak)
	}

	w.SetMotion(a.ID, core.Vec{}, 0.2)
	ticks(e, 1)
	if a.SettleStreak != 0 {
		t.Errorf("spinning block should reset the streak, got %d", a.SettleStreak)
	}
}

func TestOnlyFirstSettleScores(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)
	b, ok := e.SpawnNext()
	if !ok {
		t.Fatal("SpawnNext should succeed once the pending block is dropped")
	}
	e.Drop(b.ID)
	rest(w, a, 300, 500)
	rest(w, b, 500, 500)

	ticks(e, e.Config().Settle.RequiredSteps)

	if a.Phase != PhaseResting || b.Phase != PhaseResting {
		t.Fatalf("both blocks should rest, got %v and %v", a.Phase, b.Phase)
	}
	if e.Session().Score() != 1 {
		t.Errorf("only one block may score per step, score=%v", e.Session().Score())
	}
	if countPending(e) != 1 {
		t.Errorf("expected exactly one pending block, got %d", countPending(e))
	}
}

func TestSettleWhilePendingDoesNotScore(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)
	rest(w, a, 400, 500)
	b, ok := e.SpawnNext()
	if !ok {
		t.Fatal("SpawnNext should succeed once the pending block is dropped")
	}

	events := ticks(e, e.Config().Settle.RequiredSteps)

	if a.Phase != PhaseResting {
		t.Fatalf("block phase = %v, expected resting", a.Phase)
	}
	if e.Session().Score() != 0 {
		t.Errorf("settle with a block waiting must not score, score=%v", e.Session().Score())
	}
	if e.Pending() != b {
		t.Error("the waiting block should stay the pending one")
	}
	settled := false
	for _, ev := range events {
		if bs, ok := ev.(BlockSettled); ok && bs.ID == a.ID {
			settled = true
			if bs.Scored {
				t.Error("BlockSettled should not be marked as scored")
			}
		}
	}
	if !settled {
		t.Error("expected a BlockSettled event")
	}
}

func TestDoubleDropIsNoop(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	a := e.Pending()

	if !e.Drop(a.ID) {
		t.Fatal("first drop should succeed")
	}
	if e.Drop(a.ID) {
		t.Error("second drop must be a no-op")
	}
	if e.dropTimer.Armed() {
		t.Error("manual drop must cancel the auto-drop timer")
	}
	if e.Drop(physics.BodyID(999)) {
		t.Error("dropping an unknown body must be a no-op")
	}
}

func TestAutoDropAfterInterval(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	a := e.Pending()
	interval := e.Session().DropInterval()

	var dropped *BlockDropped
	for i := 0; i < 400 && dropped == nil; i++ {
		for _, ev := range e.Tick() {
			if d, ok := ev.(BlockDropped); ok {
				dropped = &d
			}
		}
	}

	if dropped == nil {
		t.Fatal("pending block was never auto-dropped")
	}
	if dropped.ID != a.ID || !dropped.Auto {
		t.Errorf("unexpected drop event %+v", *dropped)
	}
	if e.Now() < interval {
		t.Errorf("auto-drop fired at %v, before the %v interval", e.Now(), interval)
	}
	if a.Phase != PhaseSettling {
		t.Errorf("auto-dropped block phase = %v", a.Phase)
	}
}

func TestDragAndRelease(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	spawn := w.Position(a.ID)

	e.PointerDown(spawn)
	if !e.Dragging() {
		t.Fatal("pointer down on the pending block should start a drag")
	}
	if e.dropTimer.Armed() {
		t.Error("dragging must cancel the auto-drop timer")
	}

	e.PointerMove(core.V(200, 400))
	if p := w.Position(a.ID); p.X != 200 || p.Y != spawn.Y {
		t.Errorf("dragged block at %v, expected x=200 y=%v", p, spawn.Y)
	}

	e.PointerUp(core.V(200, 400))
	if a.Phase != PhaseSettling || w.IsStatic(a.ID) {
		t.Error("releasing the drag should drop the block")
	}
	if e.Dragging() {
		t.Error("drag should end on release")
	}
}

func TestDragIsClampedToPlayfield(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()

	e.PointerDown(w.Position(a.ID))
	e.PointerMove(core.V(-500, 0))
	if x := w.Position(a.ID).X; x != a.Width/2 {
		t.Errorf("x = %v, expected clamp to %v", x, a.Width/2)
	}

	e.Nudge(10000)
	if x := w.Position(a.ID).X; x != e.Config().Playfield.Width-a.Width/2 {
		t.Errorf("x = %v, expected clamp to right edge", x)
	}
}

func TestGameOverOffBottom(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)

	pf := e.Config().Playfield
	w.MoveTo(a.ID, core.V(pf.Width/2, pf.Height+pf.BottomMargin+1))
	events := ticks(e, 1)

	if e.Session().Phase() != GameOver {
		t.Fatalf("phase = %v, expected game over", e.Session().Phase())
	}
	found := false
	for _, ev := range events {
		if _, ok := ev.(GameOverEvent); ok {
			found = true
		}
	}
	if !found {
		t.Error("missing GameOverEvent")
	}
	if e.clock.Pending() != 0 {
		t.Errorf("%d timers still armed after game over", e.clock.Pending())
	}

	steps, now := w.Steps, e.Now()
	if evs := ticks(e, 600); len(evs) != 0 {
		t.Errorf("events after game over: %v", evs)
	}
	if w.Steps != steps || e.Now() != now {
		t.Error("physics and timers must stop after game over")
	}
	if e.Pending() != nil {
		t.Error("no block may spawn after game over")
	}
}

func TestGameOverOffSide(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)

	pf := e.Config().Playfield
	w.MoveTo(a.ID, core.V(pf.Width+pf.SideMargin+1, 300))
	ticks(e, 1)

	if e.Session().Phase() != GameOver {
		t.Errorf("phase = %v, expected game over", e.Session().Phase())
	}
}

func TestPendingBlockIsExemptFromBounds(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	w.MoveTo(a.ID, core.V(400, 10000))
	ticks(e, 1)

	if e.Session().Phase() != Playing {
		t.Errorf("pending block must not end the game, phase=%v", e.Session().Phase())
	}
}

func TestWindSkipsPendingHeldAndFloor(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)
	rest(w, a, 400, 500)
	ticks(e, e.Config().Settle.RequiredSteps)

	b := e.Pending()
	holdWind(e, 0.005)
	w.ClearForces()
	ticks(e, 1)

	if f := w.Bodies[a.ID].Force; f != core.V(0.005, 0) {
		t.Errorf("dropped block force = %v, expected wind", f)
	}
	if f := w.Bodies[b.ID].Force; f != (core.Vec{}) {
		t.Errorf("pending block received wind %v", f)
	}
	if f := w.Bodies[e.Floor()].Force; f != (core.Vec{}) {
		t.Errorf("floor received wind %v", f)
	}

	holdWind(e, 0.008)
	e.PointerDown(w.Position(a.ID))
	if !a.Held {
		t.Fatal("strong wind should let the player hold a resting block")
	}
	w.ClearForces()
	ticks(e, 1)
	if f := w.Bodies[a.ID].Force; f != (core.Vec{}) {
		t.Errorf("held block received wind %v", f)
	}
}

func TestCalmWindIsNotApplied(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)
	rest(w, a, 400, 500)

	holdWind(e, 0.00005)
	w.ClearForces()
	ticks(e, 1)
	if f := w.Bodies[a.ID].Force; f != (core.Vec{}) {
		t.Errorf("calm wind applied force %v", f)
	}
}

func TestHoldRequiresStrongWind(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a := e.Pending()
	e.Drop(a.ID)
	rest(w, a, 400, 500)
	ticks(e, e.Config().Settle.RequiredSteps)

	holdWind(e, 0.001)
	e.PointerDown(w.Position(a.ID))
	if a.Held || w.IsStatic(a.ID) {
		t.Fatal("weak wind must not allow holding")
	}

	holdWind(e, -0.009)
	e.PointerDown(w.Position(a.ID))
	if !a.Held || !w.IsStatic(a.ID) {
		t.Fatal("strong wind should freeze the clicked block")
	}
	e.PointerUp(w.Position(a.ID))
	if a.Held || w.IsStatic(a.ID) {
		t.Error("pointer up should release the held block")
	}
}

// glued sets up two dropped blocks in contact 30 units apart.
func glued(t *testing.T, e *Engine, w *physicstest.World) (a, b *Block) {
	t.Helper()
	a = e.Pending()
	e.Drop(a.ID)
	b, ok := e.SpawnNext()
	if !ok {
		t.Fatal("SpawnNext failed")
	}
	e.Drop(b.ID)
	w.MoveTo(a.ID, core.V(400, 500))
	w.MoveTo(b.ID, core.V(400, 470))
	w.Touch(a.ID, b.ID)
	return a, b
}

func TestGlueAfterContactDuration(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a, b := glued(t, e, w)

	e.Tick()
	start := e.Now()
	var created *GlueCreated
	for i := 0; i < 400 && created == nil; i++ {
		for _, ev := range e.Tick() {
			if gc, ok := ev.(GlueCreated); ok {
				created = &gc
			}
		}
	}

	if created == nil {
		t.Fatal("no glue link after sustained contact")
	}
	if elapsed := e.Now() - start; elapsed < e.Config().Glue.ContactDuration {
		t.Errorf("link created after %v, before the contact duration", elapsed)
	}
	if created.Pair != physics.MakePair(a.ID, b.ID) {
		t.Errorf("link pair = %v", created.Pair)
	}
	if created.RestLength != 30 {
		t.Errorf("RestLength = %v, expected 30", created.RestLength)
	}
	if e.glue.Tracking() != 0 {
		t.Error("linked pair must leave contact tracking")
	}

	ticks(e, 100)
	if n := len(e.Links()); n != 1 {
		t.Errorf("expected one link per pair, got %d", n)
	}
	if n := len(w.Links); n != 1 {
		t.Errorf("world holds %d constraints, expected 1", n)
	}
}

func TestGlueContactBreakResetsTimer(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a, b := glued(t, e, w)

	ticks(e, 120)
	w.Separate(a.ID, b.ID)
	ticks(e, 1)
	if e.glue.Tracking() != 0 {
		t.Fatal("broken contact must stop tracking")
	}

	w.Touch(a.ID, b.ID)
	ticks(e, 100)
	if e.glue.Linked(a.ID, b.ID) {
		t.Error("contact time must restart after separation")
	}
}

func linkPair(t *testing.T, e *Engine, w *physicstest.World) (a, b *Block) {
	t.Helper()
	a, b = glued(t, e, w)
	for i := 0; i < 400 && !e.glue.Linked(a.ID, b.ID); i++ {
		e.Tick()
	}
	if !e.glue.Linked(a.ID, b.ID) {
		t.Fatal("setup: blocks never linked")
	}
	return a, b
}

func TestGlueTearsUnderStrongWind(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a, b := linkPair(t, e, w)

	holdWind(e, 0.001)
	w.MoveTo(b.ID, core.V(400, 460))
	ticks(e, 1)
	if !e.glue.Linked(a.ID, b.ID) {
		t.Fatal("weak wind must not tear links")
	}

	holdWind(e, 0.008)
	var torn bool
	for _, ev := range e.Tick() {
		if gt, ok := ev.(GlueTorn); ok && gt.Pair == physics.MakePair(a.ID, b.ID) {
			torn = true
		}
	}
	if !torn || e.glue.Linked(a.ID, b.ID) {
		t.Error("stretched link should tear under strong wind")
	}
	if len(w.Links) != 0 {
		t.Errorf("world still holds %d constraints", len(w.Links))
	}
}

func TestGlueDoesNotTearWithinRatio(t *testing.T) {
	e, w := newTestEngine(t, nil)
	a, b := linkPair(t, e, w)

	holdWind(e, 0.009)
	w.MoveTo(b.ID, core.V(400, 465))
	ticks(e, 1)
	if !e.glue.Linked(a.ID, b.ID) {
		t.Error("link within the tear ratio must survive")
	}
}

func TestAdhesiveBlockAnchorsOnce(t *testing.T) {
	e, w := newTestEngine(t, func(c *config.StackConfig) {
		c.Blocks.AdhesiveChance = 1
	})
	a := e.Pending()
	if !a.Adhesive {
		t.Fatal("setup: block should be adhesive")
	}
	e.Drop(a.ID)
	w.MoveTo(a.ID, core.V(400, 530))

	var anchored, burst bool
	for _, ev := range e.Tick() {
		switch ev := ev.(type) {
		case BlockAnchored:
			anchored = ev.ID == a.ID
		case ParticleBurst:
			burst = ev.Count == anchorBurstCount && ev.Color == core.ColorWhite
		}
	}
	if !anchored || !burst || !a.Anchored {
		t.Fatalf("anchor events: anchored=%v burst=%v", anchored, burst)
	}

	ticks(e, 5)
	if n := len(w.Links); n != 1 {
		t.Errorf("adhesive block anchored %d times", n)
	}
}

func TestLevelClearResetsAndEscalates(t *testing.T) {
	e, w := newTestEngine(t, nil)
	startWind := e.Session().MaxWind()
	startDrop := e.Session().DropInterval()

	a := e.Pending()
	e.Drop(a.ID)
	rest(w, a, 400, 120)
	events := ticks(e, e.Config().Settle.RequiredSteps)

	s := e.Session()
	if s.Phase() != LevelClearing {
		t.Fatalf("phase = %v, expected level clearing", s.Phase())
	}
	var cleared *LevelCleared
	for _, ev := range events {
		if lc, ok := ev.(LevelCleared); ok {
			cleared = &lc
		}
	}
	if cleared == nil || cleared.Level != 1 || cleared.Score != 1 || cleared.Landed != 1 {
		t.Errorf("unexpected LevelCleared %+v", cleared)
	}
	if s.Score() != 0 || s.Wind() != 0 || s.Landed() != 0 || s.HighestY() != e.Config().Playfield.Height {
		t.Errorf("session not reset: score=%v wind=%v highest=%v", s.Score(), s.Wind(), s.HighestY())
	}
	if len(e.Blocks()) != 0 || len(w.Bodies) != 1 || len(w.Dynamic()) != 0 || len(w.Links) != 0 {
		t.Errorf("board not cleared: blocks=%d bodies=%d links=%d", len(e.Blocks()), len(w.Bodies), len(w.Links))
	}
	if !w.Exists(e.Floor()) {
		t.Error("floor must survive a level clear")
	}
	if s.Level() != 2 {
		t.Errorf("Level() = %d, expected 2", s.Level())
	}
	if s.MaxWind() <= startWind || s.DropInterval() >= startDrop {
		t.Errorf("difficulty not escalated: wind %v -> %v, drop %v -> %v", startWind, s.MaxWind(), startDrop, s.DropInterval())
	}
	if e.dropTimer.Armed() || e.windTimer.Armed() {
		t.Error("gameplay timers must be suppressed while clearing")
	}

	ticks(e, 10)
	if s.Phase() != LevelClearing || e.Pending() != nil {
		t.Fatal("board must stay empty during the reset delay")
	}

	delay := e.Config().Level.ResetDelay
	for i := 0; i < 60 && s.Phase() != Playing; i++ {
		e.Tick()
	}
	if s.Phase() != Playing {
		t.Fatal("play should resume after the reset delay")
	}
	if e.Now() < delay {
		t.Errorf("resumed at %v, before the %v delay", e.Now(), delay)
	}
	if e.Pending() == nil || !e.dropTimer.Armed() || !e.windTimer.Armed() {
		t.Error("new level should spawn a block and re-arm timers")
	}
}

func TestSessionInvariantsUnderRandomPlay(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		e, w := newTestEngine(t, nil)
		rng := rand.New(rand.NewSource(seed))
		lastMax := e.Session().MaxWind()

		for i := 0; i < 3000 && e.Session().Phase() != GameOver; i++ {
			switch rng.Intn(20) {
			case 0:
				e.DropPending()
			case 1:
				e.Nudge(float64(rng.Intn(41) - 20))
			case 2:
				if b := e.Pending(); b != nil {
					e.PointerDown(w.Position(b.ID))
				}
			case 3:
				e.PointerMove(core.V(rng.Float64()*800, 0))
			case 4:
				e.PointerUp(core.Vec{})
			}

			for _, ev := range e.Tick() {
				d, ok := ev.(BlockDropped)
				if !ok || e.Block(d.ID) == nil {
					continue
				}
				top := 200 + rng.Float64()*300
				if rng.Intn(4) == 0 {
					top = 100
				}
				rest(w, e.Block(d.ID), 300+rng.Float64()*200, top)
			}

			s := e.Session()
			if n := countPending(e); n > 1 {
				t.Fatalf("seed %d tick %d: %d pending blocks", seed, i, n)
			}
			if math.Abs(s.Wind()) > s.MaxWind() {
				t.Fatalf("seed %d tick %d: wind %v exceeds %v", seed, i, s.Wind(), s.MaxWind())
			}
			if s.MaxWind() < lastMax {
				t.Fatalf("seed %d tick %d: max wind decreased", seed, i)
			}
			if s.MaxWind() > e.Config().Difficulty.WindCeiling {
				t.Fatalf("seed %d tick %d: max wind above ceiling", seed, i)
			}
			if s.Score() < 0 {
				t.Fatalf("seed %d tick %d: negative score", seed, i)
			}
			lastMax = s.MaxWind()
		}
	}
}

func TestBonusScoring(t *testing.T) {
	e, w := newTestEngine(t, func(c *config.StackConfig) {
		c.Scoring.BonusAfter = 2
		c.Scoring.BonusPoint = 2.5
	})

	for i := 0; i < 3; i++ {
		b := e.Pending()
		e.Drop(b.ID)
		rest(w, b, 400, 500-float64(i)*40)
		ticks(e, e.Config().Settle.RequiredSteps)
	}

	if got := e.Session().Score(); got != 4.5 {
		t.Errorf("Score() = %v, expected 1 + 1 + 2.5", got)
	}
}

func TestEngineDeterminism(t *testing.T) {
	run := func() Snapshot {
		e, w := newTestEngine(t, nil)
		for i := 0; i < 900; i++ {
			if i%45 == 0 {
				e.DropPending()
			}
			for _, ev := range e.Tick() {
				if d, ok := ev.(BlockDropped); ok && e.Block(d.ID) != nil {
					rest(w, e.Block(d.ID), 400, 480-float64(i%5)*10)
				}
			}
		}
		return e.Snapshot()
	}

	a, b := run(), run()
	if a.Score != b.Score || a.Wind != b.Wind || a.Level != b.Level || len(a.Blocks) != len(b.Blocks) {
		t.Errorf("runs diverged:\n%+v\n%+v", a, b)
	}
	for i := range a.Blocks {
		if a.Blocks[i] != b.Blocks[i] {
			t.Errorf("block %d diverged: %+v vs %+v", i, a.Blocks[i], b.Blocks[i])
		}
	}
}

func TestEngineStepOption(t *testing.T) {
	cfg := config.DefaultStackConfig()
	e := NewEngine(physicstest.New(), Options{Config: cfg, Step: 10 * time.Millisecond})
	e.Tick()
	if e.Now() != 10*time.Millisecond {
		t.Errorf("Now() = %v, expected 10ms", e.Now())
	}
}
