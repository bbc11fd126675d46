package stack

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stack-forever/internal/config"
	"github.com/vovakirdan/stack-forever/internal/core"
	"github.com/vovakirdan/stack-forever/internal/physics"
	"github.com/vovakirdan/stack-forever/internal/sched"
)

// DefaultStep is the fixed simulation step.
const DefaultStep = time.Second / 60

// Particle burst parameters for anchoring and glue.
const (
	anchorBurstCount     = 10
	anchorBurstIntensity = 2.0
	glueBurstCount       = 6
	glueBurstIntensity   = 1.0
)

// Options configures an Engine.
type Options struct {
	Config config.StackConfig
	Seed   int64
	Step   time.Duration // Fixed step; DefaultStep when zero
	Logger *log.Logger   // Discards output when nil
}

// Engine is the block lifecycle and scoring state machine. All methods must
// be called from one goroutine; timers run inside Tick.
type Engine struct {
	cfg        config.StackConfig
	world      physics.World
	clock      *sched.Scheduler
	rng        *rand.Rand
	logger     *log.Logger
	step       time.Duration
	escalation *config.Escalation

	session Session
	spawner *Spawner
	settle  SettleDetector
	wind    Wind
	glue    *Glue

	blocks   map[physics.BodyID]*Block
	order    []physics.BodyID // Spawn order
	anchors  map[physics.BodyID]physics.LinkID
	floor    physics.BodyID
	pending  physics.BodyID
	held     physics.BodyID
	dragging bool
	ticks    uint64

	dropTimer  *sched.Timer
	windTimer  *sched.Timer
	resetTimer *sched.Timer

	events []Event
}

// NewEngine builds the floor, rolls the first wind and spawns the first block.
func NewEngine(world physics.World, opts Options) *Engine {
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cfg := opts.Config
	rng := rand.New(rand.NewSource(opts.Seed))
	clock := sched.New()

	e := &Engine{
		cfg:        cfg,
		world:      world,
		clock:      clock,
		rng:        rng,
		logger:     logger,
		step:       opts.Step,
		escalation: config.NewEscalation(cfg.Difficulty, cfg.Wind.MaxForce, cfg.Drop.Interval),
		spawner:    NewSpawner(cfg.Blocks, rng),
		settle:     NewSettleDetector(cfg.Settle),
		wind:       NewWind(cfg.Wind),
		glue:       NewGlue(cfg.Glue),
		blocks:     make(map[physics.BodyID]*Block),
		anchors:    make(map[physics.BodyID]physics.LinkID),
		dropTimer:  sched.NewTimer(clock),
		windTimer:  sched.NewTimer(clock),
		resetTimer: sched.NewTimer(clock),
	}

	e.session = Session{
		phase:        Playing,
		level:        1,
		highestY:     cfg.Playfield.Height,
		maxWind:      e.escalation.MaxWind(1),
		dropInterval: e.escalation.DropInterval(1),
	}

	pf := cfg.Playfield
	e.floor = world.CreateBody(physics.BodySpec{
		Shape:    physics.ShapeBox,
		Position: core.V(pf.Width/2, pf.Height-pf.FloorHeight/2),
		Width:    pf.Width * 2,
		Height:   pf.FloorHeight,
		Friction: cfg.Physics.FloorFriction,
		Static:   true,
	})

	e.rollWind()
	e.SpawnNext()
	return e
}

// Session returns the game session.
func (e *Engine) Session() *Session { return &e.session }

// Config returns the configuration the engine runs with.
func (e *Engine) Config() config.StackConfig { return e.cfg }

// World returns the physics world.
func (e *Engine) World() physics.World { return e.world }

// Now returns the virtual time since the engine started.
func (e *Engine) Now() time.Duration { return e.clock.Now() }

// Ticks returns the number of simulated steps.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Floor returns the floor body.
func (e *Engine) Floor() physics.BodyID { return e.floor }

// Dragging reports whether the player is dragging the pending block.
func (e *Engine) Dragging() bool { return e.dragging }

// Block returns the metadata of a body, or nil.
func (e *Engine) Block(id physics.BodyID) *Block { return e.blocks[id] }

// Pending returns the block waiting at the spawn point, or nil.
func (e *Engine) Pending() *Block { return e.blocks[e.pending] }

// Held returns the block frozen by the player, or nil.
func (e *Engine) Held() *Block { return e.blocks[e.held] }

// Blocks returns every live block in spawn order.
func (e *Engine) Blocks() []*Block {
	out := make([]*Block, 0, len(e.order))
	for _, id := range e.order {
		if b, ok := e.blocks[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Links returns every glue link.
func (e *Engine) Links() []*Link { return e.glue.Links() }

// WindLabel formats the current wind for the HUD.
func (e *Engine) WindLabel() string { return e.wind.Label(e.session.wind) }

// StrongWind reports whether the current wind is strong.
func (e *Engine) StrongWind() bool { return e.wind.Strong(e.session.wind) }

// Drain returns and clears the events emitted since the last call.
func (e *Engine) Drain() []Event {
	out := e.events
	e.events = nil
	return out
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

// Tick advances timers and physics by one step and runs the per-step
// passes. It returns the events emitted since the previous Tick.
func (e *Engine) Tick() []Event {
	if e.session.phase == GameOver {
		return e.Drain()
	}
	e.ticks++

	e.clock.Advance(e.step)

	if e.session.phase == Playing {
		e.applyWind()
	}

	e.world.Step(e.step)

	if e.session.phase == Playing {
		e.events = append(e.events, e.glue.Tear(e.world, e.StrongWind(), e.isHeld)...)
		for _, ev := range e.glue.Update(e.clock.Now(), e.world, e.glueEligible) {
			e.emit(ev)
			if gc, ok := ev.(GlueCreated); ok {
				mid := e.world.Position(gc.Pair.A).Add(e.world.Position(gc.Pair.B)).Scale(0.5)
				e.emit(ParticleBurst{Pos: mid, Color: core.ColorBrightYellow, Count: glueBurstCount, Intensity: glueBurstIntensity})
			}
		}
		e.anchorPass()
		e.settlePass()
	}

	if e.session.phase == Playing {
		e.trackHeight()
	}
	return e.Drain()
}

// SpawnNext creates the next pending block. It does nothing unless the
// session is playing and no block is pending.
func (e *Engine) SpawnNext() (*Block, bool) {
	if e.session.phase != Playing || e.pending != 0 {
		return nil, false
	}

	b := e.spawner.Next()
	pos := core.V(e.cfg.Playfield.Width/2, e.cfg.Playfield.SpawnY)
	b.ID = e.world.CreateBody(b.bodySpec(pos))
	e.blocks[b.ID] = b
	e.order = append(e.order, b.ID)
	e.pending = b.ID

	e.dropTimer.Arm(e.session.dropInterval, e.autoDrop)
	e.emit(BlockSpawned{ID: b.ID, Shape: b.Shape, Material: b.Material})
	e.logger.Debug("block spawned",
		"id", b.ID,
		"shape", b.Shape,
		"material", b.Material,
		"adhesive", b.Adhesive,
	)
	return b, true
}

// Drop releases a pending block. It returns false if the block is not pending.
func (e *Engine) Drop(id physics.BodyID) bool {
	return e.drop(id, false)
}

// DropPending releases the pending block, if any.
func (e *Engine) DropPending() bool {
	return e.drop(e.pending, false)
}

func (e *Engine) autoDrop() {
	if e.pending == 0 {
		return
	}
	e.logger.Debug("auto-drop", "id", e.pending)
	e.drop(e.pending, true)
}

func (e *Engine) drop(id physics.BodyID, auto bool) bool {
	b, ok := e.blocks[id]
	if !ok || b.Phase != PhasePending || e.session.phase != Playing {
		return false
	}

	b.Phase = PhaseSettling
	b.SettleStreak = 0
	e.world.SetStatic(id, false)
	e.pending = 0
	e.dragging = false
	e.dropTimer.Stop()

	e.emit(BlockDropped{ID: id, Auto: auto})
	return true
}

// Nudge moves the pending block horizontally, clamped to the playfield.
func (e *Engine) Nudge(dx float64) {
	b := e.Pending()
	if b == nil || e.session.phase != Playing {
		return
	}
	pos := e.world.Position(b.ID)
	e.movePending(b, pos.X+dx)
}

func (e *Engine) movePending(b *Block, x float64) {
	half := b.Width / 2
	x = core.ClampF(x, half, e.cfg.Playfield.Width-half)
	e.world.MoveTo(b.ID, core.V(x, e.cfg.Playfield.SpawnY))
}

// PointerDown starts dragging the pending block, or holds a resting block
// against strong wind.
func (e *Engine) PointerDown(p core.Vec) {
	if e.session.phase != Playing {
		return
	}
	id, ok := e.world.BodyAt(p)
	if !ok {
		return
	}
	if id == e.pending {
		e.dragging = true
		e.dropTimer.Stop()
		return
	}

	b, ok := e.blocks[id]
	if !ok || b.Phase != PhaseResting || b.Held || e.held != 0 || !e.StrongWind() {
		return
	}
	b.Held = true
	e.held = id
	e.world.SetStatic(id, true)
	e.logger.Debug("block held", "id", id, "wind", e.session.wind)
}

// PointerMove drags the pending block horizontally.
func (e *Engine) PointerMove(p core.Vec) {
	if !e.dragging {
		return
	}
	if b := e.Pending(); b != nil {
		e.movePending(b, p.X)
	}
}

// PointerUp drops a dragged block and releases a held one.
func (e *Engine) PointerUp(core.Vec) {
	if e.dragging {
		e.dragging = false
		e.drop(e.pending, false)
	}
	e.release()
}

func (e *Engine) release() {
	b, ok := e.blocks[e.held]
	e.held = 0
	if !ok {
		return
	}
	b.Held = false
	if e.session.phase == Playing {
		e.world.SetStatic(b.ID, false)
	}
}

func (e *Engine) isHeld(id physics.BodyID) bool {
	return id != 0 && id == e.held
}

func (e *Engine) glueEligible(id physics.BodyID) bool {
	b, ok := e.blocks[id]
	return ok && b.Dropped() && !b.Held
}

// rollWind re-rolls the wind and re-arms itself while playing.
func (e *Engine) rollWind() {
	if e.session.phase != Playing {
		return
	}
	e.session.setWind(e.wind.Roll(e.rng, e.session.maxWind))
	e.emit(WindChanged{Wind: e.session.wind, Strong: e.StrongWind()})
	e.windTimer.Arm(e.wind.NextDelay(e.rng), e.rollWind)
}

func (e *Engine) applyWind() {
	w := e.session.wind
	if e.wind.Calm(w) {
		return
	}
	force := core.V(w, 0)
	for _, id := range e.order {
		b, ok := e.blocks[id]
		if !ok || !b.Dropped() || b.Held || e.world.IsStatic(id) {
			continue
		}
		e.world.ApplyForce(id, e.world.Position(id), force)
	}
}

func (e *Engine) anchorPass() {
	depth := e.cfg.Playfield.Height - e.cfg.Blocks.AnchorDepth
	for _, id := range e.order {
		b, ok := e.blocks[id]
		if !ok || !b.Adhesive || b.Anchored || b.Held || !b.Dropped() {
			continue
		}
		pos := e.world.Position(id)
		if pos.Y < depth {
			continue
		}
		lid := e.world.Anchor(id, pos)
		if lid == 0 {
			continue
		}
		b.Anchored = true
		e.anchors[id] = lid
		e.emit(BlockAnchored{ID: id, Pos: pos})
		e.emit(ParticleBurst{Pos: pos, Color: core.ColorWhite, Count: anchorBurstCount, Intensity: anchorBurstIntensity})
	}
}

// settlePass checks bounds and rest for every dropped block in spawn order.
// Only the first block to settle in a step scores.
func (e *Engine) settlePass() {
	scored := false
	ids := append([]physics.BodyID(nil), e.order...)
	for _, id := range ids {
		b, ok := e.blocks[id]
		if !ok || !b.Dropped() || b.Held {
			continue
		}

		pos := e.world.Position(id)
		if e.outOfBounds(pos) {
			e.gameOver(b)
			return
		}

		if !e.settle.Observe(b, e.world.Speed(id), e.world.AngularSpeed(id)) {
			continue
		}
		// Landing while another block waits or is dragged rests without
		// scoring; the waiting block is already the next one.
		if scored || e.pending != 0 || e.dragging {
			e.emit(BlockSettled{ID: id})
			continue
		}
		scored = true
		e.emit(BlockSettled{ID: id, Scored: true})
		if e.land(b, pos) {
			return
		}
	}
}

// land scores a settled block and either clears the level or spawns the
// next block. It returns true when the level cleared.
func (e *Engine) land(b *Block, pos core.Vec) bool {
	delta := e.cfg.Scoring.Point
	if e.cfg.Scoring.BonusAfter > 0 && e.session.score >= e.cfg.Scoring.BonusAfter {
		delta = e.cfg.Scoring.BonusPoint
	}
	e.session.score += delta
	e.session.landed++
	e.session.totalLanded++
	e.emit(ScoreChanged{Score: e.session.score, Delta: delta})

	top := b.Top(pos)
	e.session.highestY = math.Min(e.session.highestY, top)
	e.logger.Debug("block landed", "id", b.ID, "score", e.session.score, "top", top)

	if top <= e.cfg.Playfield.TargetY {
		e.clearLevel()
		return true
	}
	e.SpawnNext()
	return false
}

func (e *Engine) outOfBounds(pos core.Vec) bool {
	pf := e.cfg.Playfield
	return pos.Y > pf.Height+pf.BottomMargin ||
		math.Abs(pos.X-pf.Width/2) > pf.Width/2+pf.SideMargin
}

// clearLevel empties the board, escalates difficulty and schedules the next level.
func (e *Engine) clearLevel() {
	cleared := e.session.level
	finalScore := e.session.score
	landed := e.session.landed

	e.session.phase = LevelClearing
	e.dropTimer.Stop()
	e.windTimer.Stop()
	e.removeAll()

	e.session.level++
	e.session.maxWind = math.Max(e.session.maxWind, e.escalation.MaxWind(e.session.level))
	if d := e.escalation.DropInterval(e.session.level); d < e.session.dropInterval {
		e.session.dropInterval = d
	}
	e.session.score = 0
	e.session.wind = 0
	e.session.landed = 0
	e.session.highestY = e.cfg.Playfield.Height

	e.emit(LevelCleared{Level: cleared, Score: finalScore, Landed: landed})
	e.logger.Info("level cleared",
		"level", cleared,
		"score", finalScore,
		"next_max_wind", e.session.maxWind,
		"next_drop_interval", e.session.dropInterval,
	)
	e.resetTimer.Arm(e.cfg.Level.ResetDelay, e.startLevel)
}

func (e *Engine) startLevel() {
	if e.session.phase != LevelClearing {
		return
	}
	e.session.phase = Playing
	e.emit(LevelStarted{
		Level:        e.session.level,
		MaxWind:      e.session.maxWind,
		DropInterval: e.session.dropInterval.Milliseconds(),
	})
	e.rollWind()
	e.SpawnNext()
}

// removeAll removes every non-floor body, link and anchor.
func (e *Engine) removeAll() {
	e.glue.Clear(e.world)
	for id, lid := range e.anchors {
		e.world.Unlink(lid)
		delete(e.anchors, id)
	}
	for _, id := range e.order {
		if b, ok := e.blocks[id]; ok {
			b.Phase = PhaseRemoved
			b.Held = false
		}
		e.world.RemoveBody(id)
	}
	e.blocks = make(map[physics.BodyID]*Block)
	e.order = nil
	e.pending = 0
	e.held = 0
	e.dragging = false
}

func (e *Engine) gameOver(b *Block) {
	e.session.phase = GameOver
	e.clock.CancelAll()
	e.dragging = false
	if held, ok := e.blocks[e.held]; ok {
		held.Held = false
	}
	e.held = 0

	b.Phase = PhaseRemoved
	delete(e.anchors, b.ID)
	e.world.RemoveBody(b.ID)
	delete(e.blocks, b.ID)

	e.emit(GameOverEvent{ID: b.ID, Score: e.session.score, Level: e.session.level})
	e.logger.Info("game over",
		"block", b.ID,
		"score", e.session.score,
		"level", e.session.level,
		"landed", e.session.totalLanded,
	)
}

// trackHeight lowers HighestY to the top edge of any resting block.
func (e *Engine) trackHeight() {
	for _, id := range e.order {
		b, ok := e.blocks[id]
		if !ok || b.Phase != PhaseResting {
			continue
		}
		top := b.Top(e.world.Position(id))
		if top < e.session.highestY {
			e.session.highestY = top
		}
	}
}

// SkyProgress returns the sky gradient input in [0, 1].
func (e *Engine) SkyProgress() float64 {
	pf := e.cfg.Playfield
	return SkyProgress(e.session.highestY, pf.Height, pf.TargetY)
}
